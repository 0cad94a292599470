package strategy

import "github.com/dkoster/smartdca/internal/core"

// Mode is the budget deployment policy for qualifying trades
type Mode string

const (
	ModeFull   Mode = "full"   // deploy the entire accumulated budget
	ModeTiered Mode = "tiered" // scale deployment by signal confidence
)

// Settings carries the caller's strategy configuration. Optional fields
// override the selected profile when set.
type Settings struct {
	Profile           string
	Mode              Mode
	MinSignalStrength *float64
	MinTradeAmount    *float64
	FallbackThreshold *float64
}

// Resolved is the effective run configuration after applying profile
// defaults and caller overrides. Unknown profile names fall back to the
// default profile; unknown modes fall back to full deployment.
type Resolved struct {
	ProfileName       string
	Mode              Mode
	Profile           Profile
	MinSignalStrength float64
	MinTradeAmount    float64
	FallbackThreshold float64
}

// Resolve normalizes the settings into concrete run parameters
func (s Settings) Resolve() Resolved {
	name := s.Profile
	profile, ok := profiles[name]
	if !ok {
		name = DefaultProfile
		profile = profiles[name]
	}

	mode := s.Mode
	if mode != ModeFull && mode != ModeTiered {
		mode = ModeFull
	}

	r := Resolved{
		ProfileName:       name,
		Mode:              mode,
		Profile:           profile,
		MinSignalStrength: profile.MinSignalStrength,
		FallbackThreshold: profile.FallbackThreshold,
	}

	if s.MinSignalStrength != nil {
		r.MinSignalStrength = *s.MinSignalStrength
	}
	if s.MinTradeAmount != nil {
		r.MinTradeAmount = *s.MinTradeAmount
	}
	if s.FallbackThreshold != nil && *s.FallbackThreshold > 0 {
		r.FallbackThreshold = *s.FallbackThreshold
	}

	return r
}

// AllocationFraction returns the share of the accumulated budget to deploy
// for a qualifying trade. In full mode everything goes in. In tiered mode a
// boom trade scales linearly with how far the winning strength sits between
// the minimum and 100, clamped to [floor, 1]; a fallback trade uses the
// profile's flat fallback fraction.
func (r Resolved) AllocationFraction(tradeType core.TradeType, strength float64) float64 {
	if r.Mode != ModeTiered {
		return 1.0
	}

	if tradeType == core.TradeFallback {
		return r.Profile.FallbackFraction
	}

	normalized := 0.0
	if r.MinSignalStrength < 100 {
		normalized = (strength - r.MinSignalStrength) / (100 - r.MinSignalStrength)
		if normalized < 0 {
			normalized = 0
		}
		if normalized > 1 {
			normalized = 1
		}
	}

	fraction := r.Profile.TieredBase + r.Profile.TieredBonus*normalized
	if fraction < r.Profile.TieredFloor {
		fraction = r.Profile.TieredFloor
	}
	if fraction > 1 {
		fraction = 1
	}
	return fraction
}
