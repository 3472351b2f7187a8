// Package render extracts prices from the public game-pass page with a
// headless browser. It is the last resort after every API strategy has
// failed, and it is optional: callers receive an Unavailable renderer when no
// browser is installed and treat that as a normal degraded mode.
package render

import (
	"context"
	"errors"

	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

var (
	// ErrUnavailable is returned when no render engine is installed.
	ErrUnavailable = errors.New("render engine unavailable")
	// ErrNoPrice is returned when the page loaded but no price was found.
	ErrNoPrice = errors.New("no price on page")
)

// Renderer loads an item page and reads the displayed price.
type Renderer interface {
	// Available reports whether ExtractPrice can do any work.
	Available() bool
	ExtractPrice(ctx context.Context, id domain.ItemID) (*int, error)
}

// Unavailable is the Renderer used when rendering is disabled or no browser
// is installed.
type Unavailable struct{}

// Available implements Renderer.
func (Unavailable) Available() bool { return false }

// ExtractPrice implements Renderer.
func (Unavailable) ExtractPrice(context.Context, domain.ItemID) (*int, error) {
	return nil, ErrUnavailable
}
