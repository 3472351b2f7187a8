package render

import (
	"strings"

	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
)

// Strategy locates price text on the page with a CSS selector.
type Strategy struct {
	Name     string
	Selector string
}

// DefaultStrategies are tried in order against the game-pass page.
var DefaultStrategies = []Strategy{
	{Name: "robux-lg", Selector: "span.text-robux-lg"},
	{Name: "price-container", Selector: ".price-container-text .text-robux"},
	{Name: "item-price", Selector: "[data-testid='item-price'], .item-price-value"},
	{Name: "robux-text", Selector: ".text-robux"},
	{Name: "purchase-button", Selector: "button.PurchaseButton, .btn-growth-lg"},
}

// bodyStrategy names the full-page text scan used when no selector matched.
const bodyStrategy = "body"

// PickPrice walks strategies in order over the texts captured for each
// selector and returns the first parseable price and the strategy that found
// it. A selector's text may be a bare number ("1,250") or a phrase containing
// "<number> robux". body is scanned last.
func PickPrice(strategies []Strategy, found map[string][]string, body string) (*int, string) {
	for _, s := range strategies {
		for _, text := range found[s.Selector] {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			if p := pricing.ParseBareNumber(text); p != nil {
				return p, s.Name
			}
			if p := pricing.ParsePriceText(text); p != nil {
				return p, s.Name
			}
		}
	}
	if p := pricing.ParsePriceText(body); p != nil {
		return p, bodyStrategy
	}
	return nil, ""
}
