// Package pricing holds the pure price arithmetic and signal logic used by the
// resolver and scanner. Nothing in this package performs I/O.
package pricing

import "math"

// DefaultFeeRate is the marketplace cut taken from every sale.
const DefaultFeeRate = 0.30

// AmountAfterFee returns what a seller receives for price once the marketplace
// fee is deducted. The fee is rounded half-up to a whole unit and the result is
// never negative. A nil price yields nil.
func AmountAfterFee(price *int, feeRate float64) *int {
	if price == nil {
		return nil
	}
	received := max(*price-Fee(*price, feeRate), 0)
	return &received
}

// Fee returns round_half_up(price × feeRate). Rates are resolved to basis
// points so that halves like 1.5 always round up regardless of float error.
func Fee(price int, feeRate float64) int {
	if price <= 0 || feeRate <= 0 {
		return 0
	}
	bps := int64(math.Round(min(feeRate, 1) * 10_000))
	return int((int64(price)*bps + 5_000) / 10_000)
}
