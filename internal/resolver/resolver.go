// Package resolver turns an item ID into a price by walking an ordered chain
// of strategies: each configured credential, then anonymous access, then
// (policy permitting) render extraction.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/gamepass-price-scanner/internal/cache"
	"github.com/donaldgifford/gamepass-price-scanner/internal/metrics"
	"github.com/donaldgifford/gamepass-price-scanner/internal/render"
	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

const cacheOp = "price"

// ErrEmptyID is returned by ResolveItem for a blank item ID.
var ErrEmptyID = errors.New("item id is required")

var tracer = otel.Tracer("github.com/donaldgifford/gamepass-price-scanner/internal/resolver")

// Fetcher retrieves parsed item details under a credential. ok is false when
// the upstream had nothing usable.
type Fetcher interface {
	FetchDetails(
		ctx context.Context,
		id domain.ItemID,
		cred domain.Credential,
		force bool,
	) (*domain.PriceDetails, bool)
}

// Resolver resolves item prices.
type Resolver struct {
	fetcher     Fetcher
	renderer    render.Renderer
	cache       cache.Cache
	credentials []domain.Credential
	policy      Policy
	log         *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRenderer sets the last-resort renderer.
func WithRenderer(r render.Renderer) Option {
	return func(res *Resolver) {
		res.renderer = r
	}
}

// WithCache caches resolved prices.
func WithCache(c cache.Cache) Option {
	return func(res *Resolver) {
		res.cache = c
	}
}

// WithCredentials sets the configured credentials in priority order. The
// anonymous credential is always tried last and need not be listed.
func WithCredentials(creds ...domain.Credential) Option {
	return func(res *Resolver) {
		res.credentials = creds
	}
}

// WithPolicy sets the resolution policy.
func WithPolicy(p Policy) Option {
	return func(res *Resolver) {
		res.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(res *Resolver) {
		res.log = l
	}
}

// New creates a Resolver.
func New(f Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:  f,
		renderer: render.Unavailable{},
		policy:   DefaultPolicy(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.policy.Sampling == "" {
		r.policy.Sampling = DefaultSampling(r.policy.SpeedMode)
	}
	return r
}

// Policy returns the active policy.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// RendererAvailable reports whether render extraction can run.
func (r *Resolver) RendererAvailable() bool {
	return r.renderer.Available()
}

// Chain returns the credentials to try, in order: explicit (when keyed), the
// configured credentials, then anonymous. Duplicates are dropped.
func (r *Resolver) Chain(explicit domain.Credential) []domain.Credential {
	seen := make(map[domain.Credential]bool)
	out := make([]domain.Credential, 0, len(r.credentials)+2)
	add := func(c domain.Credential) {
		if c.IsAnonymous() || seen[c] {
			return
		}
		seen[c] = true
		out = append(out, c)
	}
	add(explicit)
	for _, c := range r.credentials {
		add(c)
	}
	return append(out, domain.Anonymous)
}

// Resolve returns the price for id using the given credentials in order, or
// nil when no strategy produced one.
func (r *Resolver) Resolve(
	ctx context.Context,
	id domain.ItemID,
	creds []domain.Credential,
	force bool,
) *int {
	return r.resolve(ctx, id, creds, force).Price
}

// FetchDetails returns the parsed details for id under cred, or nil.
func (r *Resolver) FetchDetails(
	ctx context.Context,
	id domain.ItemID,
	cred domain.Credential,
	force bool,
) *domain.PriceDetails {
	d, ok := r.fetcher.FetchDetails(ctx, id, cred, force)
	if !ok {
		return nil
	}
	return d
}

// ResolveItem resolves id with the configured credential chain and attaches
// display details and the regional pricing signal.
func (r *Resolver) ResolveItem(
	ctx context.Context,
	id domain.ItemID,
	force bool,
) (*domain.ResolvedPrice, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	ctx, span := tracer.Start(ctx, "resolver.ResolveItem", trace.WithAttributes(
		attribute.String("item_id", id.String()),
		attribute.Bool("force", force),
	))
	defer span.End()

	chain := r.Chain("")
	out := r.resolve(ctx, id, chain, force)

	// A forced resolve never reads cached responses, including the details
	// and cross-credential samples gathered after the price itself.
	details := r.FetchDetails(ctx, id, chain[0], force)
	if details == nil && !chain[0].IsAnonymous() {
		details = r.FetchDetails(ctx, id, domain.Anonymous, force)
	}

	var defaultPrice *int
	if details != nil {
		defaultPrice = details.DefaultPrice
	}
	cross := r.sample(ctx, id, chain, out, force)
	regional := pricing.RegionalPricingEnabled(details, cross, defaultPrice)
	if regional {
		metrics.RegionalPricingDetectedTotal.Inc()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("strategy", out.Strategy),
		attribute.Bool("regional", regional),
	)

	return &domain.ResolvedPrice{
		ItemID:                 id,
		DisplayPrice:           out.Price,
		RegionalPricingEnabled: regional,
		Details:                details,
		Strategy:               out.Strategy,
		UsedFallback:           out.Fallback,
	}, nil
}

// outcome is what the resolver caches per item.
type outcome struct {
	Price    *int   `json:"price"`
	Strategy string `json:"strategy"`
	Fallback bool   `json:"fallback"`
}

func (r *Resolver) resolve(
	ctx context.Context,
	id domain.ItemID,
	creds []domain.Credential,
	force bool,
) outcome {
	head := domain.Anonymous
	if len(creds) > 0 {
		head = creds[0]
	}
	key := cache.Key(cacheOp, head, id.String())

	if r.cache != nil {
		if raw, ok := r.cache.Get(ctx, key, force); ok {
			var o outcome
			if err := json.Unmarshal(raw, &o); err == nil {
				r.log.Debug("resolved price from cache", "item_id", id, "strategy", o.Strategy)
				return o
			}
		}
	}

	o := r.walk(ctx, id, creds, force)
	metrics.ResolutionsTotal.WithLabelValues(metricStrategy(o.Strategy)).Inc()

	if r.cache != nil && ctx.Err() == nil {
		if raw, err := json.Marshal(o); err == nil {
			r.cache.Set(ctx, key, raw)
		}
	}
	return o
}

func (r *Resolver) walk(
	ctx context.Context,
	id domain.ItemID,
	creds []domain.Credential,
	force bool,
) outcome {
	var strategies []Strategy
	if !r.policy.ForceRender {
		strategies = credentialStrategies(creds, r.fetcher)
	}
	if r.policy.ForceRender || r.policy.AllowRender(r.renderer.Available()) {
		strategies = append(strategies, renderStrategy{renderer: r.renderer, log: r.log})
	}

	for i, s := range strategies {
		if ctx.Err() != nil {
			break
		}
		if p := s.TryPrice(ctx, id, force); p != nil {
			r.log.Debug("price resolved", "item_id", id, "strategy", s.Name(), "price", *p)
			return outcome{Price: p, Strategy: s.Name(), Fallback: i > 0}
		}
		r.log.Debug("strategy yielded no price", "item_id", id, "strategy", s.Name())
	}
	return outcome{Strategy: StrategyNone}
}

// sample collects prices seen across credentials according to the sampling
// policy. The resolved price is always included.
func (r *Resolver) sample(
	ctx context.Context,
	id domain.ItemID,
	chain []domain.Credential,
	resolved outcome,
	force bool,
) []int {
	var prices []int
	if resolved.Price != nil {
		prices = append(prices, *resolved.Price)
	}

	var extra []domain.Credential
	switch r.policy.Sampling {
	case SampleAll:
		extra = chain
	case SampleAnonymous:
		extra = []domain.Credential{domain.Anonymous}
	default:
		return prices
	}

	for _, c := range extra {
		if ctx.Err() != nil {
			break
		}
		d, ok := r.fetcher.FetchDetails(ctx, id, c, force)
		if ok && d != nil && d.DisplayPrice != nil {
			prices = append(prices, *d.DisplayPrice)
		}
	}
	return prices
}

func metricStrategy(name string) string {
	switch name {
	case StrategyPrimary, StrategyAnonymous, StrategyRender, StrategyNone:
		return name
	default:
		return "backup"
	}
}
