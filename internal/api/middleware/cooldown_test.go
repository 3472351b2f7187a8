package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	mw "github.com/donaldgifford/gamepass-price-scanner/internal/api/middleware"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (s *stepClock) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *stepClock) Advance(d time.Duration) {
	s.mu.Lock()
	s.now = s.now.Add(d)
	s.mu.Unlock()
}

func newCooldownServer(cfg mw.CooldownConfig) *echo.Echo {
	e := echo.New()
	e.Use(mw.Cooldown(cfg))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.POST("/api/v1/scan", ok)
	e.GET("/api/v1/diag", ok)
	return e
}

func send(e *echo.Echo, method, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	req.RemoteAddr = ip + ":5555"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCooldown(t *testing.T) {
	t.Parallel()

	clock := &stepClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	e := newCooldownServer(mw.CooldownConfig{
		Interval: 1500 * time.Millisecond,
		Paths:    []string{"/api/v1/scan"},
		NowFunc:  clock.Now,
	})

	assert.Equal(t, http.StatusOK, send(e, http.MethodPost, "/api/v1/scan", "10.0.0.1").Code)

	rec := send(e, http.MethodPost, "/api/v1/scan", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "slow down")

	// Other callers and unguarded routes are unaffected.
	assert.Equal(t, http.StatusOK, send(e, http.MethodPost, "/api/v1/scan", "10.0.0.2").Code)
	assert.Equal(t, http.StatusOK, send(e, http.MethodGet, "/api/v1/diag", "10.0.0.1").Code)

	// A rejected request does not extend the cooldown.
	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, http.StatusOK, send(e, http.MethodPost, "/api/v1/scan", "10.0.0.1").Code)
}

func TestCooldown_Disabled(t *testing.T) {
	t.Parallel()

	e := newCooldownServer(mw.CooldownConfig{})
	for range 3 {
		assert.Equal(t, http.StatusOK, send(e, http.MethodPost, "/api/v1/scan", "10.0.0.1").Code)
	}
}

func TestCooldown_GuardsAllRoutesWhenNoPaths(t *testing.T) {
	t.Parallel()

	clock := &stepClock{now: time.Unix(0, 0)}
	e := newCooldownServer(mw.CooldownConfig{
		Interval: time.Second,
		NowFunc:  clock.Now,
	})

	assert.Equal(t, http.StatusOK, send(e, http.MethodGet, "/api/v1/diag", "10.0.0.9").Code)
	assert.Equal(t, http.StatusTooManyRequests, send(e, http.MethodPost, "/api/v1/scan", "10.0.0.9").Code)
}
