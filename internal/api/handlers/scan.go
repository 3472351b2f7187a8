package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

// TriggerAPI marks scan runs started over HTTP.
const TriggerAPI = "api"

// BatchScanner runs and records batch scans.
type BatchScanner interface {
	Run(
		ctx context.Context,
		ids []domain.ItemID,
		force bool,
		trigger string,
	) (*domain.ScanRun, []*domain.ScanResult)
}

// ScanHandler handles batch scan requests.
type ScanHandler struct {
	scanner BatchScanner
	maxIDs  int
}

// NewScanHandler creates a new ScanHandler. Requests naming more than maxIDs
// items are truncated.
func NewScanHandler(s BatchScanner, maxIDs int) *ScanHandler {
	if maxIDs <= 0 {
		maxIDs = pricing.DefaultMaxIDs
	}
	return &ScanHandler{scanner: s, maxIDs: maxIDs}
}

// ScanInput is the request body for a batch scan.
type ScanInput struct {
	Body struct {
		IDs   []string `json:"ids,omitempty"   doc:"Game pass IDs or URLs"`
		Text  string   `json:"text,omitempty"  doc:"Free text to pull game pass IDs from"`
		Force bool     `json:"force,omitempty" doc:"Bypass cached results"`
	}
}

// ScanOutput is the response body for a batch scan. Results are positional;
// a null entry means that item failed.
type ScanOutput struct {
	Body struct {
		Run     *domain.ScanRun      `json:"run"`
		IDs     []domain.ItemID      `json:"ids"`
		Results []*domain.ScanResult `json:"results"`
	}
}

// Scan resolves a batch of items and returns per-item results and a summary.
func (h *ScanHandler) Scan(ctx context.Context, input *ScanInput) (*ScanOutput, error) {
	ids := h.collectIDs(input.Body.IDs, input.Body.Text)
	if len(ids) == 0 {
		return nil, huma.Error400BadRequest("no game pass ids found in request")
	}

	run, results := h.scanner.Run(ctx, ids, input.Body.Force, TriggerAPI)

	resp := &ScanOutput{}
	resp.Body.Run = run
	resp.Body.IDs = ids
	resp.Body.Results = results
	return resp, nil
}

func (h *ScanHandler) collectIDs(raw []string, text string) []domain.ItemID {
	seen := make(map[domain.ItemID]struct{})
	var ids []domain.ItemID
	add := func(id domain.ItemID) {
		if _, dup := seen[id]; dup || len(ids) >= h.maxIDs {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, r := range raw {
		if id, ok := pricing.ExtractItemID(r); ok {
			add(id)
		}
	}
	for _, id := range pricing.ExtractItemIDs(text, h.maxIDs) {
		add(id)
	}
	return ids
}

// RegisterScanRoutes registers the batch scan endpoint with the Huma API.
func RegisterScanRoutes(api huma.API, h *ScanHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "scan",
		Method:      http.MethodPost,
		Path:        "/api/v1/scan",
		Summary:     "Scan a batch of game passes",
		Description: "Resolves every item with bounded concurrency, records the run, " +
			"and returns positional results with an aggregate summary.",
		Tags:   []string{"scan"},
		Errors: []int{http.StatusBadRequest, http.StatusTooManyRequests},
	}, h.Scan)
}
