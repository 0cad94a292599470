package signal

import (
	"fmt"
	"math"
	"strings"

	"github.com/dkoster/smartdca/internal/core"
)

// BoomThreshold is the combined strength at which a day classifies as a
// boom range (a significant dip opportunity).
const BoomThreshold = 40

// NoSignalReason is returned when no condition fired.
const NoSignalReason = "No boom signals"

// Result is the outcome of evaluating one bar
type Result struct {
	Boom     bool
	Strength float64
	Reason   string
}

// Detect scores one augmented bar for dip conditions. All checks evaluate
// independently and their strengths add up; a check whose input is NaN is
// skipped and contributes nothing. The function is pure.
func Detect(bar core.PriceBar) Result {
	var reasons []string
	var strength float64

	if defined(bar.PriceVsMA20) && bar.PriceVsMA20 < -5 {
		reasons = append(reasons, fmt.Sprintf("%.1f%% below MA20", bar.PriceVsMA20))
		strength += 25
	}

	if defined(bar.PriceVsMA50) && bar.PriceVsMA50 < -10 {
		reasons = append(reasons, fmt.Sprintf("%.1f%% below MA50", bar.PriceVsMA50))
		strength += 30
	}

	if defined(bar.RSI) {
		switch {
		case bar.RSI < 30:
			reasons = append(reasons, fmt.Sprintf("RSI very oversold (%.1f)", bar.RSI))
			strength += 30
		case bar.RSI < 40:
			reasons = append(reasons, fmt.Sprintf("RSI oversold (%.1f)", bar.RSI))
			strength += 15
		}
	}

	if defined(bar.PriceDrop7D) && bar.PriceDrop7D < -10 {
		reasons = append(reasons, fmt.Sprintf("7-day drop: %.1f%%", bar.PriceDrop7D))
		strength += 20
	}

	if defined(bar.PriceDrop30D) && bar.PriceDrop30D < -20 {
		reasons = append(reasons, fmt.Sprintf("30-day drop: %.1f%%", bar.PriceDrop30D))
		strength += 25
	}

	reason := NoSignalReason
	if len(reasons) > 0 {
		reason = strings.Join(reasons, " | ")
	}

	return Result{
		Boom:     strength >= BoomThreshold,
		Strength: strength,
		Reason:   reason,
	}
}

func defined(v float64) bool {
	return !math.IsNaN(v)
}
