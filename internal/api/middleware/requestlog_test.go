package middleware

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		status        int
		providedReqID string
		wantLogFields []string
	}{
		{
			name:   "logs GET request with generated ID",
			method: http.MethodGet,
			path:   "/api/v1/prices/42",
			status: http.StatusOK,
			wantLogFields: []string{
				"method=GET",
				"path=/api/v1/prices/42",
				"status=200",
				"duration_ms=",
				"request_id=",
			},
		},
		{
			name:   "logs POST request",
			method: http.MethodPost,
			path:   "/api/v1/prices/42",
			status: http.StatusCreated,
			wantLogFields: []string{
				"method=POST",
				"status=201",
			},
		},
		{
			name:          "uses provided request ID",
			method:        http.MethodGet,
			path:          "/test",
			status:        http.StatusOK,
			providedReqID: "custom-req-id-123",
			wantLogFields: []string{
				"request_id=custom-req-id-123",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.providedReqID != "" {
				req.Header.Set(requestIDHeader, tt.providedReqID)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := RequestLog(logger)(func(c echo.Context) error {
				return c.NoContent(tt.status)
			})

			err := handler(c)
			require.NoError(t, err)

			logOutput := buf.String()
			for _, field := range tt.wantLogFields {
				assert.Contains(t, logOutput, field)
			}

			// Response should have the request ID header.
			respID := rec.Header().Get(requestIDHeader)
			assert.NotEmpty(t, respID)

			if tt.providedReqID != "" {
				assert.Equal(t, tt.providedReqID, respID)
			}

			// Context should have request_id.
			assert.NotEmpty(t, c.Get("request_id"))
		})
	}
}

func TestRequestLog_HealthCheckSequences(t *testing.T) {
	t.Parallel()

	// Each step serves one request and says whether it should add a log line.
	type step struct {
		status int
		logged bool
	}

	tests := []struct {
		name  string
		path  string
		steps []step
	}{
		{
			name: "healthz successes logged once",
			path: "/healthz",
			steps: []step{
				{status: http.StatusOK, logged: true},
				{status: http.StatusOK},
				{status: http.StatusOK},
			},
		},
		{
			name: "readyz failures always logged",
			path: "/readyz",
			steps: []step{
				{status: http.StatusServiceUnavailable, logged: true},
				{status: http.StatusServiceUnavailable, logged: true},
			},
		},
		{
			name: "readyz recovery logged again",
			path: "/readyz",
			steps: []step{
				{status: http.StatusOK, logged: true},
				{status: http.StatusOK},
				{status: http.StatusServiceUnavailable, logged: true},
				{status: http.StatusOK, logged: true},
				{status: http.StatusOK},
			},
		},
		{
			name: "metrics scrapes quiet",
			path: "/metrics",
			steps: []step{
				{status: http.StatusOK, logged: true},
				{status: http.StatusOK},
			},
		},
		{
			name: "api paths always logged",
			path: "/api/v1/prices/42",
			steps: []step{
				{status: http.StatusOK, logged: true},
				{status: http.StatusOK, logged: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			e := echo.New()

			next := 0
			handler := RequestLog(slog.New(slog.NewTextHandler(&buf, nil)))(func(c echo.Context) error {
				return c.NoContent(tt.steps[next].status)
			})

			for i, st := range tt.steps {
				next = i
				before := buf.Len()

				req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
				require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))

				if !st.logged {
					assert.Equal(t, before, buf.Len(), "step %d should be quiet", i)
					continue
				}
				line := buf.String()[before:]
				assert.Contains(t, line, "path="+tt.path, "step %d", i)
				assert.Contains(t, line, fmt.Sprintf("status=%d", st.status), "step %d", i)
				if st.status >= 500 {
					assert.Contains(t, line, "level=WARN", "health check failures log at warn")
				}
			}
		})
	}
}

func TestRequestLog_LevelByStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		handler   func(c echo.Context) error
		wantLevel string
	}{
		{
			name:      "success at info",
			handler:   func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			wantLevel: "level=INFO",
		},
		{
			name:      "client error at warn",
			handler:   func(c echo.Context) error { return c.NoContent(http.StatusBadRequest) },
			wantLevel: "level=WARN",
		},
		{
			name:      "server error at error",
			handler:   func(c echo.Context) error { return c.NoContent(http.StatusBadGateway) },
			wantLevel: "level=ERROR",
		},
		{
			name:      "returned echo error is rendered before logging",
			handler:   func(_ echo.Context) error { return echo.ErrTooManyRequests },
			wantLevel: "status=429",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", http.NoBody)
			rec := httptest.NewRecorder()

			require.NoError(t, RequestLog(logger)(tt.handler)(e.NewContext(req, rec)))
			assert.Contains(t, buf.String(), tt.wantLevel)
		})
	}
}
