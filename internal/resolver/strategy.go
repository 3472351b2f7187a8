package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/donaldgifford/gamepass-price-scanner/internal/render"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

// Strategy names.
const (
	StrategyPrimary   = "primary"
	StrategyAnonymous = "anonymous"
	StrategyRender    = "render"
	StrategyNone      = "none"
)

// Strategy is one way of obtaining a price. TryPrice returns nil when the
// strategy has nothing to offer; it never fails the caller.
type Strategy interface {
	Name() string
	TryPrice(ctx context.Context, id domain.ItemID, force bool) *int
}

type credentialStrategy struct {
	name    string
	cred    domain.Credential
	fetcher Fetcher
}

func (s credentialStrategy) Name() string { return s.name }

func (s credentialStrategy) TryPrice(ctx context.Context, id domain.ItemID, force bool) *int {
	d, ok := s.fetcher.FetchDetails(ctx, id, s.cred, force)
	if !ok || d == nil {
		return nil
	}
	return d.DisplayPrice
}

type renderStrategy struct {
	renderer render.Renderer
	log      *slog.Logger
}

func (renderStrategy) Name() string { return StrategyRender }

func (s renderStrategy) TryPrice(ctx context.Context, id domain.ItemID, _ bool) *int {
	p, err := s.renderer.ExtractPrice(ctx, id)
	if err != nil {
		if !errors.Is(err, render.ErrUnavailable) && !errors.Is(err, render.ErrNoPrice) {
			s.log.Warn("render extraction failed", "item_id", id, "error", err)
		}
		return nil
	}
	return p
}

// credentialStrategies names each credential by its position: the first keyed
// credential is "primary", later ones "backup-N", and the anonymous entry
// "anonymous".
func credentialStrategies(creds []domain.Credential, f Fetcher) []Strategy {
	out := make([]Strategy, 0, len(creds))
	backups := 0
	keyed := 0
	for _, c := range creds {
		var name string
		switch {
		case c.IsAnonymous():
			name = StrategyAnonymous
		case keyed == 0:
			name = StrategyPrimary
			keyed++
		default:
			backups++
			name = fmt.Sprintf("backup-%d", backups)
		}
		out = append(out, credentialStrategy{name: name, cred: c, fetcher: f})
	}
	return out
}
