// Package main implements a mock game-pass API server for local development.
// It serves canned details payloads and item pages from a JSON fixture so the
// scanner can run without touching the real upstream, and it can inject
// upstream failures on demand.
//
// Point the scanner at it with:
//
//	roblox:
//	  details_url: http://localhost:8089/game-passes/v1/game-passes/{id}/details
//	  page_url: http://localhost:8089/game-pass/{id}
//
// Append ?fail=<status> to the details URL to make every request fail with
// that status, or start the server with -fail-every N to fail every Nth
// request with 503.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"
)

const cookieName = ".ROBLOSECURITY"

// fixtureItem is one game pass. KeyedPrice replaces the display price for
// authenticated requests, which lets a fixture exhibit regional pricing.
type fixtureItem struct {
	Details      map[string]any `json:"details"`
	KeyedPrice   *int           `json:"keyed_price,omitempty"`
	RequiresAuth bool           `json:"requires_auth,omitempty"`
}

type fixture map[string]fixtureItem

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/gamepasses.json", "path to game-pass fixture")
	failEvery := flag.Int("fail-every", 0, "fail every Nth details request with 503 (0 disables)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fx, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "items", len(fx))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock game-pass server", "addr", addr, "fail_every", *failEvery)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, fx, *failEvery)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, fx fixture, failEvery int) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /game-passes/v1/game-passes/{id}/details", detailsHandler(logger, fx, failEvery))
	mux.HandleFunc("GET /game-pass/{id}", pageHandler(fx))
	mux.HandleFunc("GET /game-pass/{id}/{slug}", pageHandler(fx))
	return mux
}

func loadFixture(path string) (fixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return fx, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, authed := authCookie(r)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery, "authed", authed)
		next.ServeHTTP(w, r)
	})
}

func detailsHandler(logger *slog.Logger, fx fixture, failEvery int) http.HandlerFunc {
	var count atomic.Int64

	return func(w http.ResponseWriter, r *http.Request) {
		n := count.Add(1)

		if status, ok := injectedFailure(r, n, failEvery); ok {
			logger.Info("injecting failure", "status", status, "request", n)
			if status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable {
				w.Header().Set("Retry-After", "1")
			}
			writeJSON(w, status, map[string]any{
				"errors": []map[string]any{{"code": status, "message": http.StatusText(status)}},
			})
			return
		}

		item, ok := fx[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"errors": []map[string]any{{"code": 404, "message": "game pass not found"}},
			})
			return
		}

		cookie, authed := authCookie(r)
		if cookie == "expired" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"errors": []map[string]any{{"code": 0, "message": "Authorization has been denied"}},
			})
			return
		}
		if cookie == "forbidden" || (item.RequiresAuth && !authed) {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"errors": []map[string]any{{"code": 0, "message": "Forbidden"}},
			})
			return
		}

		writeJSON(w, http.StatusOK, renderDetails(item, authed))
	}
}

// injectedFailure returns the status to fail request n with, if any. The fail
// query parameter wins over the periodic failEvery setting.
func injectedFailure(r *http.Request, n int64, failEvery int) (int, bool) {
	if v := r.URL.Query().Get("fail"); v != "" {
		if status, err := strconv.Atoi(v); err == nil && status >= 400 && status <= 599 {
			return status, true
		}
	}
	if failEvery > 0 && n%int64(failEvery) == 0 {
		return http.StatusServiceUnavailable, true
	}
	return 0, false
}

// renderDetails copies the fixture payload, swapping in the keyed price for
// authenticated callers.
func renderDetails(item fixtureItem, authed bool) map[string]any {
	out := make(map[string]any, len(item.Details))
	for k, v := range item.Details {
		out[k] = v
	}
	if !authed || item.KeyedPrice == nil {
		return out
	}
	pi, ok := item.Details["priceInformation"].(map[string]any)
	if !ok {
		return out
	}
	keyed := make(map[string]any, len(pi))
	for k, v := range pi {
		keyed[k] = v
	}
	keyed["price"] = *item.KeyedPrice
	out["priceInformation"] = keyed
	return out
}

func pageHandler(fx fixture) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := fx[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}

		name, _ := item.Details["name"].(string)
		price := "Off Sale"
		if p, ok := displayPrice(item.Details); ok {
			price = strconv.Itoa(p)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		fmt.Fprintf(w, `<!doctype html>
<html><head><title>%s</title></head>
<body>
<h1>%s</h1>
<div class="price-container-text"><span class="icon-robux"></span><span class="text-robux-lg">%s</span></div>
</body></html>
`, html.EscapeString(name), html.EscapeString(name), price)
	}
}

func displayPrice(details map[string]any) (int, bool) {
	if pi, ok := details["priceInformation"].(map[string]any); ok {
		for _, k := range []string{"price", "defaultPriceInRobux"} {
			if f, ok := pi[k].(float64); ok {
				return int(f), true
			}
		}
	}
	if f, ok := details["price"].(float64); ok {
		return int(f), true
	}
	return 0, false
}

func authCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}
