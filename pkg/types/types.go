// Package domain defines the core business types for the game pass price scanner.
package domain

import (
	"time"
)

// ItemID identifies a game pass. It is a numeric string supplied by callers.
type ItemID string

// String implements fmt.Stringer.
func (id ItemID) String() string {
	return string(id)
}

// Credential is an opaque session token presented to the upstream API.
// The Anonymous value means the request carries no credential.
type Credential string

// Anonymous denotes an unauthenticated request.
const Anonymous Credential = "none"

// IsAnonymous reports whether c carries no usable token.
func (c Credential) IsAnonymous() bool {
	return c == "" || c == Anonymous
}

// Creator identifies the owner of a game pass.
type Creator struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// PriceDetails is the parsed upstream details blob for an item.
// DefaultPrice is the base price and DisplayPrice the price shown to the
// credential that fetched the details. Both are nil when the item is off-sale
// or the price is unknown.
type PriceDetails struct {
	ItemID              ItemID   `json:"item_id"`
	Name                string   `json:"name,omitempty"`
	Description         string   `json:"description,omitempty"`
	UniverseID          int64    `json:"universe_id,omitempty"`
	DefaultPrice        *int     `json:"default_price,omitempty"`
	DisplayPrice        *int     `json:"display_price,omitempty"`
	Creator             Creator  `json:"creator"`
	EnabledFeatures     []string `json:"enabled_features,omitempty"`
	InPriceOptimization bool     `json:"in_price_optimization_experiment"`
}

// ResolvedPrice is the outcome of resolving a single item.
type ResolvedPrice struct {
	ItemID                 ItemID        `json:"item_id"`
	DisplayPrice           *int          `json:"display_price,omitempty"`
	RegionalPricingEnabled bool          `json:"regional_pricing_enabled"`
	Details                *PriceDetails `json:"details,omitempty"`
	Strategy               string        `json:"strategy,omitempty"`
	UsedFallback           bool          `json:"used_fallback"`
}

// ScanResult is the per-item output of a batch scan.
type ScanResult struct {
	ItemID                 ItemID `json:"item_id"`
	DisplayPrice           *int   `json:"display_price,omitempty"`
	AmountReceivedAfterFee *int   `json:"amount_received_after_fee,omitempty"`
}

// BatchSummary folds the results of one batch scan.
type BatchSummary struct {
	TotalPriceSum  int `json:"total_price_sum"`
	ItemsScanned   int `json:"items_scanned"`
	ItemsWithPrice int `json:"items_with_price"`
}

// ItemsWithoutPrice returns the number of items that were off-sale or unresolved.
func (s BatchSummary) ItemsWithoutPrice() int {
	return s.ItemsScanned - s.ItemsWithPrice
}

// ScanRun is a persisted record of one completed batch scan.
type ScanRun struct {
	ID          string        `json:"id"`
	Trigger     string        `json:"trigger"`
	Forced      bool          `json:"forced"`
	Summary     BatchSummary  `json:"summary"`
	Duration    time.Duration `json:"duration_ns"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
}

// PriceObservation is a persisted price sample for one item taken during a scan.
type PriceObservation struct {
	ID                     int64     `json:"id"`
	ScanRunID              string    `json:"scan_run_id"`
	ItemID                 ItemID    `json:"item_id"`
	DisplayPrice           *int      `json:"display_price,omitempty"`
	AmountReceivedAfterFee *int      `json:"amount_received_after_fee,omitempty"`
	ObservedAt             time.Time `json:"observed_at"`
}
