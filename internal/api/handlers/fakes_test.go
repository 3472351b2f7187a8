package handlers_test

import (
	"context"
	"sync"

	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

func intPtr(v int) *int {
	return &v
}

// fakeResolver is a test double for PriceResolver.
type fakeResolver struct {
	prices  map[domain.ItemID]*domain.ResolvedPrice
	details map[domain.Credential]*domain.PriceDetails
	chain   []domain.Credential
	err     error

	mu     sync.Mutex
	forced []bool
}

func (f *fakeResolver) ResolveItem(_ context.Context, id domain.ItemID, force bool) (*domain.ResolvedPrice, error) {
	f.mu.Lock()
	f.forced = append(f.forced, force)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.prices[id]; ok {
		return p, nil
	}
	return &domain.ResolvedPrice{ItemID: id}, nil
}

func (f *fakeResolver) Chain(domain.Credential) []domain.Credential {
	if len(f.chain) == 0 {
		return []domain.Credential{domain.Anonymous}
	}
	return f.chain
}

func (f *fakeResolver) FetchDetails(_ context.Context, _ domain.ItemID, cred domain.Credential, _ bool) *domain.PriceDetails {
	return f.details[cred]
}

// fakeScanner is a test double for BatchScanner.
type fakeScanner struct {
	mu      sync.Mutex
	gotIDs  []domain.ItemID
	gotTrig string
	force   bool
}

func (f *fakeScanner) Run(
	_ context.Context,
	ids []domain.ItemID,
	force bool,
	trigger string,
) (*domain.ScanRun, []*domain.ScanResult) {
	f.mu.Lock()
	f.gotIDs, f.gotTrig, f.force = ids, trigger, force
	f.mu.Unlock()

	results := make([]*domain.ScanResult, len(ids))
	sum := domain.BatchSummary{ItemsScanned: len(ids)}
	for i, id := range ids {
		if i == 1 {
			continue
		}
		results[i] = &domain.ScanResult{ItemID: id, DisplayPrice: intPtr(10)}
		sum.ItemsWithPrice++
		sum.TotalPriceSum += 10
	}
	return &domain.ScanRun{ID: "run-1", Trigger: trigger, Summary: sum}, results
}

// fakeCache is a test double for Invalidator.
type fakeCache struct {
	got     string
	removed int
}

func (f *fakeCache) Invalidate(_ context.Context, substr string) int {
	f.got = substr
	return f.removed
}
