package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

// PriceResponse is the resolved price of one item.
type PriceResponse struct {
	domain.ResolvedPrice
	AmountReceivedAfterFee *int `json:"amount_received_after_fee,omitempty"`
}

// ScanRequest names the items to scan.
type ScanRequest struct {
	IDs   []string `json:"ids,omitempty"`
	Text  string   `json:"text,omitempty"`
	Force bool     `json:"force,omitempty"`
}

// ScanResponse carries positional results; a nil entry means that item failed.
type ScanResponse struct {
	Run     *domain.ScanRun      `json:"run"`
	IDs     []domain.ItemID      `json:"ids"`
	Results []*domain.ScanResult `json:"results"`
}

// HistoryParams filters an item's price history.
type HistoryParams struct {
	Since      time.Time
	PricedOnly bool
	Limit      int
	Offset     int
	OrderBy    string
}

// HistoryResponse is a page of price observations.
type HistoryResponse struct {
	ItemID       domain.ItemID             `json:"item_id"`
	Observations []domain.PriceObservation `json:"observations"`
	Total        int                       `json:"total"`
}

// GetPrice resolves one item.
func (c *Client) GetPrice(ctx context.Context, id string, force bool) (*PriceResponse, error) {
	var resp PriceResponse
	if err := c.get(ctx, itemPath("/api/v1/prices/", id, force), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetDetails returns the details blob for one item.
func (c *Client) GetDetails(ctx context.Context, id string, force bool) (*domain.PriceDetails, error) {
	var resp domain.PriceDetails
	if err := c.get(ctx, itemPath("/api/v1/details/", id, force), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Scan resolves a batch of items.
func (c *Client) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	var resp ScanResponse
	if err := c.post(ctx, "/api/v1/scan", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InvalidateCache drops cached entries whose key contains match and returns
// how many were removed.
func (c *Client) InvalidateCache(ctx context.Context, match string) (int, error) {
	var resp struct {
		Removed int `json:"removed"`
	}
	body := map[string]string{"match": match}
	if err := c.post(ctx, "/api/v1/cache/invalidate", body, &resp); err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

// ItemHistory returns recorded prices for one item.
func (c *Client) ItemHistory(ctx context.Context, id string, params *HistoryParams) (*HistoryResponse, error) {
	q := url.Values{}
	if params != nil {
		if !params.Since.IsZero() {
			q.Set("since", params.Since.UTC().Format(time.RFC3339))
		}
		if params.PricedOnly {
			q.Set("priced_only", "true")
		}
		if params.Limit > 0 {
			q.Set("limit", strconv.Itoa(params.Limit))
		}
		if params.Offset > 0 {
			q.Set("offset", strconv.Itoa(params.Offset))
		}
		if params.OrderBy != "" {
			q.Set("order_by", params.OrderBy)
		}
	}

	path := "/api/v1/history/" + url.PathEscape(id)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp HistoryResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListScanRuns returns the most recent scan runs.
func (c *Client) ListScanRuns(ctx context.Context, limit int) ([]domain.ScanRun, error) {
	path := "/api/v1/scans"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp struct {
		Runs []domain.ScanRun `json:"runs"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Runs, nil
}

// Diag returns engine diagnostics keyed by field name.
func (c *Client) Diag(ctx context.Context) (map[string]any, error) {
	var resp map[string]any
	if err := c.get(ctx, "/api/v1/diag", &resp); err != nil {
		return nil, err
	}
	delete(resp, "$schema")
	return resp, nil
}

func itemPath(prefix, id string, force bool) string {
	p := prefix + url.PathEscape(id)
	if force {
		p += "?force=true"
	}
	return p
}
