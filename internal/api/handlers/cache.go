package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Invalidator drops cached entries.
type Invalidator interface {
	Invalidate(ctx context.Context, substr string) int
}

// CacheHandler handles cache maintenance.
type CacheHandler struct {
	cache Invalidator
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(c Invalidator) *CacheHandler {
	return &CacheHandler{cache: c}
}

// InvalidateInput is the request body for cache invalidation.
type InvalidateInput struct {
	Body struct {
		Match string `json:"match,omitempty" doc:"Drop keys containing this text; empty clears everything" example:"gp:"`
	}
}

// InvalidateOutput is the response body for cache invalidation.
type InvalidateOutput struct {
	Body struct {
		Removed int `json:"removed" doc:"Number of entries removed"`
	}
}

// Invalidate removes cached entries whose key contains the match text.
func (h *CacheHandler) Invalidate(ctx context.Context, input *InvalidateInput) (*InvalidateOutput, error) {
	resp := &InvalidateOutput{}
	resp.Body.Removed = h.cache.Invalidate(ctx, input.Body.Match)
	return resp, nil
}

// RegisterCacheRoutes registers cache maintenance endpoints with the Huma API.
func RegisterCacheRoutes(api huma.API, h *CacheHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "invalidate-cache",
		Method:      http.MethodPost,
		Path:        "/api/v1/cache/invalidate",
		Summary:     "Invalidate cached responses",
		Tags:        []string{"cache"},
	}, h.Invalidate)
}
