package roblox_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/gamepass-price-scanner/internal/roblox"
	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

func TestParseDetails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    *domain.PriceDetails
		wantErr bool
	}{
		{
			name: "structured default price",
			raw: `{
				"name": "Double Coins",
				"description": "2x coins forever",
				"universeId": 987,
				"creator": {"creatorId": 55, "creatorType": "User", "name": "builder"},
				"priceInformation": {
					"defaultPriceInRobux": 399,
					"price": 299,
					"enabledFeatures": ["RegionalPricing"],
					"isInActivePriceOptimizationExperiment": true
				}
			}`,
			want: &domain.PriceDetails{
				ItemID:              "1",
				Name:                "Double Coins",
				Description:         "2x coins forever",
				UniverseID:          987,
				DefaultPrice:        pricing.Int(399),
				DisplayPrice:        pricing.Int(299),
				Creator:             domain.Creator{ID: 55, Name: "builder", Type: "User"},
				EnabledFeatures:     []string{"RegionalPricing"},
				InPriceOptimization: true,
			},
		},
		{
			name: "structured price fallback",
			raw:  `{"priceInformation": {"defaultPriceInRobux": null, "price": 120}}`,
			want: &domain.PriceDetails{
				ItemID:       "1",
				DefaultPrice: pricing.Int(120),
				DisplayPrice: pricing.Int(120),
			},
		},
		{
			name: "legacy flat price rounded",
			raw:  `{"price": 49.6, "universeID": 12, "creator": {"id": 3, "type": "Group"}}`,
			want: &domain.PriceDetails{
				ItemID:       "1",
				UniverseID:   12,
				DefaultPrice: pricing.Int(50),
				DisplayPrice: pricing.Int(50),
				Creator:      domain.Creator{ID: 3, Type: "Group"},
			},
		},
		{
			name: "off-sale has no price",
			raw:  `{"name": "Retired", "priceInformation": null}`,
			want: &domain.PriceDetails{ItemID: "1", Name: "Retired"},
		},
		{
			name: "malformed price field is no price",
			raw:  `{"priceInformation": {"defaultPriceInRobux": "free"}}`,
			want: &domain.PriceDetails{ItemID: "1"},
		},
		{name: "null payload", raw: `null`, wantErr: true},
		{name: "empty payload", raw: ``, wantErr: true},
		{name: "not an object", raw: `[1,2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := roblox.ParseDetails("1", []byte(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
