package resolver_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/gamepass-price-scanner/internal/cache"
	"github.com/donaldgifford/gamepass-price-scanner/internal/render"
	rendermocks "github.com/donaldgifford/gamepass-price-scanner/internal/render/mocks"
	"github.com/donaldgifford/gamepass-price-scanner/internal/resolver"
	"github.com/donaldgifford/gamepass-price-scanner/internal/resolver/mocks"
	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFetcher serves fixed details per credential and counts calls.
type fakeFetcher struct {
	mu      sync.Mutex
	details map[domain.Credential]*domain.PriceDetails
	calls   map[domain.Credential]int
}

func newFakeFetcher(details map[domain.Credential]*domain.PriceDetails) *fakeFetcher {
	return &fakeFetcher{details: details, calls: make(map[domain.Credential]int)}
}

func (f *fakeFetcher) FetchDetails(
	_ context.Context,
	id domain.ItemID,
	cred domain.Credential,
	_ bool,
) (*domain.PriceDetails, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[cred]++
	d, ok := f.details[cred]
	if !ok {
		return nil, false
	}
	cp := *d
	cp.ItemID = id
	return &cp, true
}

func (f *fakeFetcher) Calls(c domain.Credential) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[c]
}

func priced(display, base int) *domain.PriceDetails {
	return &domain.PriceDetails{
		Name:         "Pass",
		DisplayPrice: pricing.Int(display),
		DefaultPrice: pricing.Int(base),
	}
}

func TestResolver_FallbackOrdering(t *testing.T) {
	t.Parallel()

	fetcher := mocks.NewMockFetcher(t)
	fetcher.EXPECT().FetchDetails(mock.Anything, domain.ItemID("42"), domain.Credential("A"), false).
		Return(nil, false).Once()
	fetcher.EXPECT().FetchDetails(mock.Anything, domain.ItemID("42"), domain.Credential("B"), false).
		Return(priced(150, 150), true).Once()

	renderer := rendermocks.NewMockRenderer(t)
	renderer.EXPECT().Available().Return(true).Maybe()

	r := resolver.New(fetcher,
		resolver.WithRenderer(renderer),
		resolver.WithPolicy(resolver.Policy{SpeedMode: resolver.SpeedFast, FastMode: false}),
		resolver.WithLogger(quietLogger()),
	)

	got := r.Resolve(context.Background(), "42",
		[]domain.Credential{"A", "B", domain.Anonymous}, false)

	require.NotNil(t, got)
	assert.Equal(t, 150, *got)
	renderer.AssertNotCalled(t, "ExtractPrice", mock.Anything, mock.Anything)
}

func TestResolver_RenderFallbackPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		policy     resolver.Policy
		available  bool
		wantRender bool
	}{
		{
			name:       "slow mode renders",
			policy:     resolver.Policy{SpeedMode: resolver.SpeedFast, FastMode: false},
			available:  true,
			wantRender: true,
		},
		{
			name:       "fast mode with auto fallback and renderer",
			policy:     resolver.Policy{SpeedMode: resolver.SpeedFast, FastMode: true, AutoRenderOnFail: true},
			available:  true,
			wantRender: true,
		},
		{
			name:      "fast mode with auto fallback but no renderer",
			policy:    resolver.Policy{SpeedMode: resolver.SpeedFast, FastMode: true, AutoRenderOnFail: true},
			available: false,
		},
		{
			name:      "fast mode without auto fallback",
			policy:    resolver.Policy{SpeedMode: resolver.SpeedFast, FastMode: true},
			available: true,
		},
		{
			name:      "turbo never renders",
			policy:    resolver.Policy{SpeedMode: resolver.SpeedTurbo, FastMode: false, AutoRenderOnFail: true},
			available: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fetcher := newFakeFetcher(nil)
			renderer := rendermocks.NewMockRenderer(t)
			renderer.EXPECT().Available().Return(tt.available).Maybe()
			if tt.wantRender {
				renderer.EXPECT().ExtractPrice(mock.Anything, domain.ItemID("7")).
					Return(pricing.Int(99), nil).Once()
			}

			r := resolver.New(fetcher,
				resolver.WithRenderer(renderer),
				resolver.WithPolicy(tt.policy),
				resolver.WithLogger(quietLogger()),
			)

			got := r.Resolve(context.Background(), "7", r.Chain(""), false)
			if tt.wantRender {
				require.NotNil(t, got)
				assert.Equal(t, 99, *got)
			} else {
				assert.Nil(t, got)
			}
			assert.Equal(t, 1, fetcher.Calls(domain.Anonymous))
		})
	}
}

func TestResolver_RenderFailureIsNoPrice(t *testing.T) {
	t.Parallel()

	renderer := rendermocks.NewMockRenderer(t)
	renderer.EXPECT().Available().Return(true).Maybe()
	renderer.EXPECT().ExtractPrice(mock.Anything, mock.Anything).
		Return(nil, render.ErrNoPrice).Once()

	r := resolver.New(newFakeFetcher(nil),
		resolver.WithRenderer(renderer),
		resolver.WithPolicy(resolver.Policy{SpeedMode: resolver.SpeedFast}),
		resolver.WithLogger(quietLogger()),
	)

	assert.Nil(t, r.Resolve(context.Background(), "1", r.Chain(""), false))
}

func TestResolver_ForceRender(t *testing.T) {
	t.Parallel()

	fetcher := mocks.NewMockFetcher(t)
	renderer := rendermocks.NewMockRenderer(t)
	renderer.EXPECT().Available().Return(true).Maybe()
	renderer.EXPECT().ExtractPrice(mock.Anything, domain.ItemID("5")).
		Return(pricing.Int(25), nil).Once()

	r := resolver.New(fetcher,
		resolver.WithRenderer(renderer),
		resolver.WithPolicy(resolver.Policy{SpeedMode: resolver.SpeedTurbo, ForceRender: true}),
		resolver.WithLogger(quietLogger()),
	)

	got := r.Resolve(context.Background(), "5", []domain.Credential{"A", domain.Anonymous}, false)
	require.NotNil(t, got)
	assert.Equal(t, 25, *got)
	fetcher.AssertNotCalled(t, "FetchDetails", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolver_CachesOutcome(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher(map[domain.Credential]*domain.PriceDetails{
		domain.Anonymous: priced(80, 80),
	})
	r := resolver.New(fetcher,
		resolver.WithCache(cache.NewMemory(time.Minute)),
		resolver.WithPolicy(resolver.Policy{SpeedMode: resolver.SpeedTurbo}),
		resolver.WithLogger(quietLogger()),
	)
	ctx := context.Background()
	chain := r.Chain("")

	first := r.Resolve(ctx, "3", chain, false)
	second := r.Resolve(ctx, "3", chain, false)
	require.NotNil(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.Calls(domain.Anonymous))

	r.Resolve(ctx, "3", chain, true)
	assert.Equal(t, 2, fetcher.Calls(domain.Anonymous), "force bypasses the cache")
}

func TestResolver_CachesAbsence(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher(nil)
	r := resolver.New(fetcher,
		resolver.WithCache(cache.NewMemory(time.Minute)),
		resolver.WithPolicy(resolver.Policy{SpeedMode: resolver.SpeedTurbo}),
		resolver.WithLogger(quietLogger()),
	)
	ctx := context.Background()

	assert.Nil(t, r.Resolve(ctx, "3", r.Chain(""), false))
	assert.Nil(t, r.Resolve(ctx, "3", r.Chain(""), false))
	assert.Equal(t, 1, fetcher.Calls(domain.Anonymous))
}

func TestResolver_Chain(t *testing.T) {
	t.Parallel()

	r := resolver.New(newFakeFetcher(nil),
		resolver.WithCredentials("main", "backup-a", "", "main", "backup-b"),
	)

	tests := []struct {
		name     string
		explicit domain.Credential
		want     []domain.Credential
	}{
		{
			name: "configured order then anonymous",
			want: []domain.Credential{"main", "backup-a", "backup-b", domain.Anonymous},
		},
		{
			name:     "explicit credential first",
			explicit: "caller",
			want:     []domain.Credential{"caller", "main", "backup-a", "backup-b", domain.Anonymous},
		},
		{
			name:     "explicit duplicate not repeated",
			explicit: "backup-a",
			want:     []domain.Credential{"backup-a", "main", "backup-b", domain.Anonymous},
		},
		{
			name:     "explicit anonymous ignored",
			explicit: domain.Anonymous,
			want:     []domain.Credential{"main", "backup-a", "backup-b", domain.Anonymous},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, r.Chain(tt.explicit))
		})
	}
}

func TestResolver_ResolveItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		details      map[domain.Credential]*domain.PriceDetails
		sampling     resolver.Sampling
		wantPrice    *int
		wantStrategy string
		wantFallback bool
		wantRegional bool
	}{
		{
			name: "primary credential, uniform prices",
			details: map[domain.Credential]*domain.PriceDetails{
				"main":           priced(100, 100),
				"backup":         priced(100, 100),
				domain.Anonymous: priced(100, 100),
			},
			sampling:     resolver.SampleAll,
			wantPrice:    pricing.Int(100),
			wantStrategy: resolver.StrategyPrimary,
		},
		{
			name: "backup credential used",
			details: map[domain.Credential]*domain.PriceDetails{
				"backup":         priced(120, 120),
				domain.Anonymous: priced(120, 120),
			},
			sampling:     resolver.SampleAll,
			wantPrice:    pricing.Int(120),
			wantStrategy: "backup-1",
			wantFallback: true,
		},
		{
			name: "prices differ across credentials",
			details: map[domain.Credential]*domain.PriceDetails{
				"main":           priced(100, 100),
				"backup":         priced(80, 100),
				domain.Anonymous: priced(100, 100),
			},
			sampling:     resolver.SampleAll,
			wantPrice:    pricing.Int(100),
			wantStrategy: resolver.StrategyPrimary,
			wantRegional: true,
		},
		{
			name: "no sampling misses the difference",
			details: map[domain.Credential]*domain.PriceDetails{
				"main":           priced(100, 100),
				"backup":         priced(80, 100),
				domain.Anonymous: priced(100, 100),
			},
			sampling:     resolver.SampleNone,
			wantPrice:    pricing.Int(100),
			wantStrategy: resolver.StrategyPrimary,
		},
		{
			name: "anonymous sampling sees cheaper public price",
			details: map[domain.Credential]*domain.PriceDetails{
				"main":           priced(100, 100),
				domain.Anonymous: priced(70, 100),
			},
			sampling:     resolver.SampleAnonymous,
			wantPrice:    pricing.Int(100),
			wantStrategy: resolver.StrategyPrimary,
			wantRegional: true,
		},
		{
			name: "experiment flag alone",
			details: map[domain.Credential]*domain.PriceDetails{
				"main": {
					DisplayPrice:        pricing.Int(50),
					DefaultPrice:        pricing.Int(50),
					InPriceOptimization: true,
				},
			},
			sampling:     resolver.SampleNone,
			wantPrice:    pricing.Int(50),
			wantStrategy: resolver.StrategyPrimary,
			wantRegional: true,
		},
		{
			name:         "nothing priced",
			details:      map[domain.Credential]*domain.PriceDetails{},
			sampling:     resolver.SampleAll,
			wantStrategy: resolver.StrategyNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := resolver.New(newFakeFetcher(tt.details),
				resolver.WithCredentials("main", "backup"),
				resolver.WithPolicy(resolver.Policy{
					SpeedMode: resolver.SpeedTurbo,
					Sampling:  tt.sampling,
				}),
				resolver.WithLogger(quietLogger()),
			)

			got, err := r.ResolveItem(context.Background(), "900", false)
			require.NoError(t, err)
			assert.Equal(t, domain.ItemID("900"), got.ItemID)
			assert.Equal(t, tt.wantPrice, got.DisplayPrice)
			assert.Equal(t, tt.wantStrategy, got.Strategy)
			assert.Equal(t, tt.wantFallback, got.UsedFallback)
			assert.Equal(t, tt.wantRegional, got.RegionalPricingEnabled)
		})
	}
}

// cachingFetcher remembers the first details served per credential and keeps
// returning them until a forced read refreshes the entry.
type cachingFetcher struct {
	mu     sync.Mutex
	live   map[domain.Credential]*domain.PriceDetails
	cached map[domain.Credential]*domain.PriceDetails
}

func (f *cachingFetcher) FetchDetails(
	_ context.Context,
	_ domain.ItemID,
	cred domain.Credential,
	force bool,
) (*domain.PriceDetails, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.cached[cred]; ok && !force {
		return d, true
	}
	d, ok := f.live[cred]
	if !ok {
		return nil, false
	}
	cp := *d
	f.cached[cred] = &cp
	return &cp, true
}

func (f *cachingFetcher) setLive(c domain.Credential, d *domain.PriceDetails) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.live[c] = d
}

func TestResolver_ResolveItemForceRefreshesSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sampling resolver.Sampling
		stale    domain.Credential
	}{
		{name: "all credentials sampled", sampling: resolver.SampleAll, stale: "backup"},
		{name: "anonymous sampled", sampling: resolver.SampleAnonymous, stale: domain.Anonymous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fetcher := &cachingFetcher{
				live: map[domain.Credential]*domain.PriceDetails{
					"main":           priced(100, 100),
					"backup":         priced(100, 100),
					domain.Anonymous: priced(100, 100),
				},
				cached: make(map[domain.Credential]*domain.PriceDetails),
			}
			fetcher.setLive(tt.stale, priced(80, 100))

			r := resolver.New(fetcher,
				resolver.WithCredentials("main", "backup"),
				resolver.WithPolicy(resolver.Policy{SpeedMode: resolver.SpeedTurbo, Sampling: tt.sampling}),
				resolver.WithLogger(quietLogger()),
			)
			ctx := context.Background()

			got, err := r.ResolveItem(ctx, "900", false)
			require.NoError(t, err)
			assert.True(t, got.RegionalPricingEnabled)

			fetcher.setLive(tt.stale, priced(100, 100))

			got, err = r.ResolveItem(ctx, "900", false)
			require.NoError(t, err)
			assert.True(t, got.RegionalPricingEnabled, "unforced reads keep the cached sample")

			got, err = r.ResolveItem(ctx, "900", true)
			require.NoError(t, err)
			assert.False(t, got.RegionalPricingEnabled, "forced reads see the current sample")
		})
	}
}

func TestResolver_ResolveItemForcePropagates(t *testing.T) {
	t.Parallel()

	fetcher := mocks.NewMockFetcher(t)
	fetcher.EXPECT().FetchDetails(mock.Anything, domain.ItemID("7"), mock.Anything, true).
		Return(priced(40, 40), true)

	r := resolver.New(fetcher,
		resolver.WithCredentials("main", "backup"),
		resolver.WithPolicy(resolver.Policy{SpeedMode: resolver.SpeedTurbo, Sampling: resolver.SampleAll}),
		resolver.WithLogger(quietLogger()),
	)

	got, err := r.ResolveItem(context.Background(), "7", true)
	require.NoError(t, err)
	assert.Equal(t, pricing.Int(40), got.DisplayPrice)
	fetcher.AssertNotCalled(t, "FetchDetails", mock.Anything, mock.Anything, mock.Anything, false)
}

func TestResolver_ResolveItemDetails(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher(map[domain.Credential]*domain.PriceDetails{
		domain.Anonymous: priced(10, 10),
	})
	r := resolver.New(fetcher, resolver.WithCredentials("main"), resolver.WithLogger(quietLogger()))

	got, err := r.ResolveItem(context.Background(), "1", false)
	require.NoError(t, err)
	require.NotNil(t, got.Details)
	assert.Equal(t, "Pass", got.Details.Name)
	assert.Equal(t, resolver.StrategyAnonymous, got.Strategy)
	assert.True(t, got.UsedFallback)
}

func TestResolver_ResolveItemErrors(t *testing.T) {
	t.Parallel()

	r := resolver.New(newFakeFetcher(nil), resolver.WithLogger(quietLogger()))

	_, err := r.ResolveItem(context.Background(), "", false)
	require.ErrorIs(t, err, resolver.ErrEmptyID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.ResolveItem(ctx, "1", false)
	require.ErrorIs(t, err, context.Canceled)
}

func TestResolver_FetchDetails(t *testing.T) {
	t.Parallel()

	r := resolver.New(newFakeFetcher(map[domain.Credential]*domain.PriceDetails{
		"main": priced(5, 5),
	}))

	d := r.FetchDetails(context.Background(), "1", "main", false)
	require.NotNil(t, d)
	assert.Equal(t, domain.ItemID("1"), d.ItemID)
	assert.Nil(t, r.FetchDetails(context.Background(), "1", domain.Anonymous, false))
}
