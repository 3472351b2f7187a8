package resolver

import "fmt"

// Speed modes.
const (
	SpeedFast  = "fast"
	SpeedTurbo = "turbo"
)

// Sampling controls how many credentials are consulted when looking for
// regional price differences. Wider sampling gives a stronger signal at the
// cost of extra upstream calls.
type Sampling string

// Sampling values.
const (
	// SampleNone uses only the resolved price.
	SampleNone Sampling = "none"
	// SampleAnonymous adds the anonymous view of the item.
	SampleAnonymous Sampling = "anonymous"
	// SampleAll fetches the item under every credential in the chain.
	SampleAll Sampling = "all"
)

// Policy holds the mode switches that shape resolution.
type Policy struct {
	SpeedMode string
	// FastMode skips render fallback unless AutoRenderOnFail is set and a
	// renderer is available.
	FastMode bool
	// ForceRender goes straight to render extraction.
	ForceRender      bool
	AutoRenderOnFail bool
	Sampling         Sampling
}

// DefaultPolicy mirrors the production defaults.
func DefaultPolicy() Policy {
	return Policy{
		SpeedMode:        SpeedFast,
		FastMode:         true,
		AutoRenderOnFail: true,
		Sampling:         DefaultSampling(SpeedFast),
	}
}

// DefaultSampling returns the sampling breadth for a speed mode: turbo skips
// cross-credential checks entirely, anything else samples every credential.
func DefaultSampling(speedMode string) Sampling {
	if speedMode == SpeedTurbo {
		return SampleNone
	}
	return SampleAll
}

// ParseSampling validates a sampling name. Empty selects the default for the
// speed mode.
func ParseSampling(s, speedMode string) (Sampling, error) {
	switch Sampling(s) {
	case "":
		return DefaultSampling(speedMode), nil
	case SampleNone, SampleAnonymous, SampleAll:
		return Sampling(s), nil
	default:
		return "", fmt.Errorf("unknown signal sampling %q (want none, anonymous or all)", s)
	}
}

// AllowRender reports whether render extraction may run after every
// credential failed.
func (p Policy) AllowRender(rendererAvailable bool) bool {
	if p.SpeedMode == SpeedTurbo {
		return false
	}
	return !p.FastMode || (p.AutoRenderOnFail && rendererAvailable)
}
