package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

// PriceResolver resolves single items.
type PriceResolver interface {
	ResolveItem(ctx context.Context, id domain.ItemID, force bool) (*domain.ResolvedPrice, error)
	Chain(explicit domain.Credential) []domain.Credential
	FetchDetails(ctx context.Context, id domain.ItemID, cred domain.Credential, force bool) *domain.PriceDetails
}

// PricesHandler serves single-item price and details lookups.
type PricesHandler struct {
	resolver PriceResolver
	feeRate  float64
}

// NewPricesHandler creates a new PricesHandler.
func NewPricesHandler(r PriceResolver, feeRate float64) *PricesHandler {
	return &PricesHandler{resolver: r, feeRate: feeRate}
}

// ItemInput identifies one game pass.
type ItemInput struct {
	ID    string `path:"id"     doc:"Game pass ID or URL-encoded game pass URL" example:"123456"`
	Force bool   `query:"force" doc:"Bypass cached results"`
}

// PriceBody is the resolved price of one item.
type PriceBody struct {
	domain.ResolvedPrice
	AmountReceivedAfterFee *int `json:"amount_received_after_fee,omitempty" doc:"Seller proceeds after the marketplace fee"`
}

// GetPriceOutput is the response for a price lookup.
type GetPriceOutput struct {
	Body PriceBody
}

// GetDetailsOutput is the response for a details lookup.
type GetDetailsOutput struct {
	Body domain.PriceDetails
}

// GetPrice resolves the current price of an item.
func (h *PricesHandler) GetPrice(ctx context.Context, input *ItemInput) (*GetPriceOutput, error) {
	id, err := parseItemID(input.ID)
	if err != nil {
		return nil, err
	}

	resolved, err := h.resolver.ResolveItem(ctx, id, input.Force)
	if err != nil {
		return nil, huma.Error500InternalServerError("resolving price: " + err.Error())
	}

	resp := &GetPriceOutput{}
	resp.Body.ResolvedPrice = *resolved
	resp.Body.AmountReceivedAfterFee = pricing.AmountAfterFee(resolved.DisplayPrice, h.feeRate)
	return resp, nil
}

// GetDetails returns the upstream details blob for an item, read with the
// first credential in the chain.
func (h *PricesHandler) GetDetails(ctx context.Context, input *ItemInput) (*GetDetailsOutput, error) {
	id, err := parseItemID(input.ID)
	if err != nil {
		return nil, err
	}

	chain := h.resolver.Chain("")
	d := h.resolver.FetchDetails(ctx, id, chain[0], input.Force)
	if d == nil && !chain[0].IsAnonymous() {
		d = h.resolver.FetchDetails(ctx, id, domain.Anonymous, input.Force)
	}
	if d == nil {
		return nil, huma.Error404NotFound("details unavailable for " + id.String())
	}
	return &GetDetailsOutput{Body: *d}, nil
}

// RegisterPriceRoutes registers price lookup endpoints with the Huma API.
func RegisterPriceRoutes(api huma.API, h *PricesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-price",
		Method:      http.MethodGet,
		Path:        "/api/v1/prices/{id}",
		Summary:     "Resolve a game pass price",
		Description: "Resolves the displayed price through the credential fallback chain " +
			"and reports whether regional pricing appears to be active.",
		Tags:   []string{"prices"},
		Errors: []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.GetPrice)

	huma.Register(api, huma.Operation{
		OperationID: "get-details",
		Method:      http.MethodGet,
		Path:        "/api/v1/details/{id}",
		Summary:     "Get game pass details",
		Tags:        []string{"prices"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.GetDetails)
}
