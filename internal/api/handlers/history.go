package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/gamepass-price-scanner/internal/store"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

// HistoryHandler serves recorded scan runs and price observations.
type HistoryHandler struct {
	store store.Store
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(s store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

// --- Input/Output types ---

// ItemHistoryInput is the input for an item's price history.
type ItemHistoryInput struct {
	ID         string    `path:"id"           doc:"Game pass ID or URL"`
	Since      time.Time `query:"since"       doc:"Only observations at or after this time (RFC 3339)"`
	PricedOnly bool      `query:"priced_only" doc:"Skip observations without a price"`
	Limit      int       `query:"limit"       doc:"Number of results (default 50)"                      minimum:"0" maximum:"500"`
	Offset     int       `query:"offset"      doc:"Pagination offset"                                   minimum:"0"`
	OrderBy    string    `query:"order_by"    doc:"Sort field"                                          enum:"observed_at,price,"`
}

// ItemHistoryOutput is the response for an item's price history.
type ItemHistoryOutput struct {
	Body struct {
		ItemID       domain.ItemID             `json:"item_id"`
		Observations []domain.PriceObservation `json:"observations"`
		Total        int                       `json:"total"`
	}
}

// ListScanRunsInput is the input for listing scan runs.
type ListScanRunsInput struct {
	Limit int `query:"limit" doc:"Number of runs (default 20)" minimum:"0" maximum:"200"`
}

// ListScanRunsOutput is the response for listing scan runs.
type ListScanRunsOutput struct {
	Body struct {
		Runs []domain.ScanRun `json:"runs"`
	}
}

// GetScanRunInput is the input for fetching one scan run.
type GetScanRunInput struct {
	ID string `path:"id" doc:"Scan run UUID"`
}

// GetScanRunOutput is the response for fetching one scan run.
type GetScanRunOutput struct {
	Body struct {
		Run          domain.ScanRun            `json:"run"`
		Observations []domain.PriceObservation `json:"observations"`
	}
}

// --- Handlers ---

// ItemHistory returns recorded prices for one item, newest first.
func (h *HistoryHandler) ItemHistory(
	ctx context.Context,
	input *ItemHistoryInput,
) (*ItemHistoryOutput, error) {
	id, err := parseItemID(input.ID)
	if err != nil {
		return nil, err
	}

	itemID := id.String()
	q := &store.ObservationQuery{
		ItemID:     &itemID,
		PricedOnly: input.PricedOnly,
		Limit:      input.Limit,
		Offset:     input.Offset,
		OrderBy:    input.OrderBy,
	}
	if !input.Since.IsZero() {
		q.Since = &input.Since
	}

	obs, total, err := h.store.ListObservations(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("history query failed: " + err.Error())
	}

	resp := &ItemHistoryOutput{}
	resp.Body.ItemID = id
	resp.Body.Observations = nonNil(obs)
	resp.Body.Total = total
	return resp, nil
}

// ListScanRuns returns the most recent scan runs.
func (h *HistoryHandler) ListScanRuns(
	ctx context.Context,
	input *ListScanRunsInput,
) (*ListScanRunsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 20
	}

	runs, err := h.store.ListScanRuns(ctx, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing scan runs failed: " + err.Error())
	}

	resp := &ListScanRunsOutput{}
	resp.Body.Runs = nonNil(runs)
	return resp, nil
}

// GetScanRun returns one scan run with its observations.
func (h *HistoryHandler) GetScanRun(
	ctx context.Context,
	input *GetScanRunInput,
) (*GetScanRunOutput, error) {
	run, err := h.store.GetScanRun(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("scan run not found")
		}
		return nil, huma.Error500InternalServerError("getting scan run failed: " + err.Error())
	}

	obs, _, err := h.store.ListObservations(ctx, &store.ObservationQuery{
		ScanRunID: &input.ID,
		Limit:     500,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("listing observations failed: " + err.Error())
	}

	resp := &GetScanRunOutput{}
	resp.Body.Run = *run
	resp.Body.Observations = nonNil(obs)
	return resp, nil
}

// RegisterHistoryRoutes registers history endpoints with the Huma API.
func RegisterHistoryRoutes(api huma.API, h *HistoryHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "item-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/history/{id}",
		Summary:     "Get price history for a game pass",
		Tags:        []string{"history"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.ItemHistory)

	huma.Register(api, huma.Operation{
		OperationID: "list-scan-runs",
		Method:      http.MethodGet,
		Path:        "/api/v1/scans",
		Summary:     "List recent scan runs",
		Tags:        []string{"history"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListScanRuns)

	huma.Register(api, huma.Operation{
		OperationID: "get-scan-run",
		Method:      http.MethodGet,
		Path:        "/api/v1/scans/{id}",
		Summary:     "Get a scan run",
		Tags:        []string{"history"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.GetScanRun)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
