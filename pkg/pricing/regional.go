package pricing

import (
	"strings"

	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

// RegionalPricingEnabled reports whether an item appears to be enrolled in a
// regional pricing experiment. The first matching rule wins:
//
//  1. the details explicitly flag experiment membership, or list an enabled
//     feature mentioning "regional" or "price";
//  2. prices observed under different credentials disagree;
//  3. any observed price is below the default price.
func RegionalPricingEnabled(details *domain.PriceDetails, crossPrices []int, defaultPrice *int) bool {
	if details != nil && flaggedByDetails(details) {
		return true
	}

	distinct := make(map[int]struct{}, len(crossPrices))
	for _, p := range crossPrices {
		distinct[p] = struct{}{}
	}
	if len(distinct) >= 2 {
		return true
	}

	if defaultPrice != nil {
		for _, p := range crossPrices {
			if p < *defaultPrice {
				return true
			}
		}
	}

	return false
}

func flaggedByDetails(d *domain.PriceDetails) bool {
	if d.InPriceOptimization {
		return true
	}
	for _, f := range d.EnabledFeatures {
		lower := strings.ToLower(f)
		if strings.Contains(lower, "regional") || strings.Contains(lower, "price") {
			return true
		}
	}
	return false
}
