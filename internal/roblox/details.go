package roblox

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

type detailsResponse struct {
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	UniverseID       int64             `json:"universeId"`
	UniverseIDLegacy int64             `json:"universeID"`
	Price            any               `json:"price"`
	PriceInformation *priceInformation `json:"priceInformation"`
	Creator          *creatorResponse  `json:"creator"`
}

type priceInformation struct {
	DefaultPriceInRobux any      `json:"defaultPriceInRobux"`
	Price               any      `json:"price"`
	EnabledFeatures     []string `json:"enabledFeatures"`
	InExperiment        bool     `json:"isInActivePriceOptimizationExperiment"`
}

type creatorResponse struct {
	CreatorID   int64  `json:"creatorId"`
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CreatorType string `json:"creatorType"`
	Type        string `json:"type"`
}

// ParseDetails decodes a game-pass details payload. The default price is read
// from priceInformation.defaultPriceInRobux and the display price from
// priceInformation.price; each falls back to the other and then to the legacy
// top-level price field. A payload without any price yields details with nil
// prices, not an error.
func ParseDetails(id domain.ItemID, raw json.RawMessage) (*domain.PriceDetails, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, fmt.Errorf("empty details payload for %s", id)
	}

	var resp detailsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parsing details for %s: %w", id, err)
	}

	d := &domain.PriceDetails{
		ItemID:      id,
		Name:        resp.Name,
		Description: resp.Description,
		UniverseID:  resp.UniverseID,
	}
	if d.UniverseID == 0 {
		d.UniverseID = resp.UniverseIDLegacy
	}

	if pi := resp.PriceInformation; pi != nil {
		base := pricing.CoercePrice(pi.DefaultPriceInRobux)
		shown := pricing.CoercePrice(pi.Price)
		d.DefaultPrice = firstPrice(base, shown)
		d.DisplayPrice = firstPrice(shown, base)
		d.EnabledFeatures = pi.EnabledFeatures
		d.InPriceOptimization = pi.InExperiment
	}
	legacy := pricing.CoercePrice(resp.Price)
	d.DefaultPrice = firstPrice(d.DefaultPrice, legacy)
	d.DisplayPrice = firstPrice(d.DisplayPrice, legacy)

	if c := resp.Creator; c != nil {
		d.Creator = domain.Creator{
			ID:   firstNonZero(c.CreatorID, c.ID),
			Name: c.Name,
			Type: firstNonEmpty(c.CreatorType, c.Type),
		}
	}

	return d, nil
}

func firstPrice(vals ...*int) *int {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstNonZero(vals ...int64) int64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
