package strategy

// Profile is a named preset of thresholds controlling trade aggressiveness
type Profile struct {
	MinSignalStrength float64 // weakest boom signal worth acting on
	FallbackThreshold float64 // month min must sit below mean * threshold
	TieredBase        float64
	TieredBonus       float64
	TieredFloor       float64
	FallbackFraction  float64
}

// Built-in profile names
const (
	ProfileAggressive   = "aggressive"
	ProfileBalanced     = "balanced"
	ProfileConservative = "conservative"

	DefaultProfile = ProfileBalanced
)

var profiles = map[string]Profile{
	ProfileAggressive: {
		MinSignalStrength: 30,
		FallbackThreshold: 0.97, // 3% below average
		TieredBase:        0.50,
		TieredBonus:       0.45,
		TieredFloor:       0.35,
		FallbackFraction:  0.60,
	},
	ProfileBalanced: {
		MinSignalStrength: 40,
		FallbackThreshold: 0.95, // 5% below average
		TieredBase:        0.45,
		TieredBonus:       0.45,
		TieredFloor:       0.30,
		FallbackFraction:  0.50,
	},
	ProfileConservative: {
		MinSignalStrength: 55,
		FallbackThreshold: 0.93, // 7% below average
		TieredBase:        0.35,
		TieredBonus:       0.40,
		TieredFloor:       0.25,
		FallbackFraction:  0.40,
	},
}

// ProfileByName retrieves a built-in profile
func ProfileByName(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}
