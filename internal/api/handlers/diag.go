package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Diagnostics is a point-in-time view of the engine's configuration and
// state.
type Diagnostics struct {
	CacheEntries      int     `json:"cache_entries"`
	CacheBackend      string  `json:"cache_backend"`
	RatePerSecond     float64 `json:"rate_per_second"`
	RateBurst         int     `json:"rate_burst"`
	RateTokens        float64 `json:"rate_tokens"`
	SpeedMode         string  `json:"speed_mode"`
	FastMode          bool    `json:"fast_mode"`
	ForceRender       bool    `json:"force_render"`
	AutoRenderOnFail  bool    `json:"auto_render_on_fail"`
	RendererAvailable bool    `json:"renderer_available"`
	Sampling          string  `json:"sampling"`
	Credentials       int     `json:"credentials" doc:"Credentials tried before anonymous"`
	FastConcurrency   int     `json:"fast_concurrency"`
	SlowConcurrency   int     `json:"slow_concurrency"`
	ThrottleThreshold int     `json:"throttle_threshold"`
	WatchlistSize     int     `json:"watchlist_size"`
	NextScheduledScan string  `json:"next_scheduled_scan,omitempty"`
}

// DiagnosticsFunc gathers diagnostics on demand.
type DiagnosticsFunc func(ctx context.Context) Diagnostics

// DiagHandler serves engine diagnostics.
type DiagHandler struct {
	gather DiagnosticsFunc
}

// NewDiagHandler creates a new DiagHandler.
func NewDiagHandler(gather DiagnosticsFunc) *DiagHandler {
	return &DiagHandler{gather: gather}
}

// DiagOutput is the response for the diagnostics endpoint.
type DiagOutput struct {
	Body Diagnostics
}

// Diag returns cache size, rate settings and resolution modes.
func (h *DiagHandler) Diag(ctx context.Context, _ *struct{}) (*DiagOutput, error) {
	return &DiagOutput{Body: h.gather(ctx)}, nil
}

// RegisterDiagRoutes registers the diagnostics endpoint with the Huma API.
func RegisterDiagRoutes(api huma.API, h *DiagHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "diag",
		Method:      http.MethodGet,
		Path:        "/api/v1/diag",
		Summary:     "Engine diagnostics",
		Tags:        []string{"system"},
	}, h.Diag)
}
