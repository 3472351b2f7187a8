package handlers

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

// parseItemID accepts a bare ID or a game pass URL.
func parseItemID(raw string) (domain.ItemID, error) {
	id, ok := pricing.ExtractItemID(raw)
	if !ok {
		return "", huma.Error400BadRequest("invalid game pass id: " + raw)
	}
	return id, nil
}
