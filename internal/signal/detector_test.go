package signal

import (
	"math"
	"strings"
	"testing"

	"github.com/dkoster/smartdca/internal/core"
)

// neutralBar returns a bar whose derived fields are all undefined
func neutralBar() core.PriceBar {
	nan := math.NaN()
	return core.PriceBar{
		Close:        100,
		MA20:         nan,
		MA50:         nan,
		RSI:          nan,
		PriceVsMA20:  nan,
		PriceVsMA50:  nan,
		PriceDrop7D:  nan,
		PriceDrop30D: nan,
	}
}

func TestDetectScoring(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*core.PriceBar)
		wantStrength float64
		wantBoom     bool
		wantInReason string
	}{
		{
			name:         "no conditions",
			mutate:       func(b *core.PriceBar) {},
			wantStrength: 0,
			wantBoom:     false,
			wantInReason: NoSignalReason,
		},
		{
			name:         "below MA20 alone",
			mutate:       func(b *core.PriceBar) { b.PriceVsMA20 = -6.2 },
			wantStrength: 25,
			wantBoom:     false,
			wantInReason: "-6.2% below MA20",
		},
		{
			name:         "below MA50 alone",
			mutate:       func(b *core.PriceBar) { b.PriceVsMA50 = -12.5 },
			wantStrength: 30,
			wantBoom:     false,
			wantInReason: "-12.5% below MA50",
		},
		{
			name:         "RSI very oversold",
			mutate:       func(b *core.PriceBar) { b.RSI = 25.3 },
			wantStrength: 30,
			wantBoom:     false,
			wantInReason: "RSI very oversold (25.3)",
		},
		{
			name:         "RSI oversold",
			mutate:       func(b *core.PriceBar) { b.RSI = 35 },
			wantStrength: 15,
			wantBoom:     false,
			wantInReason: "RSI oversold (35.0)",
		},
		{
			name:         "7-day drop alone",
			mutate:       func(b *core.PriceBar) { b.PriceDrop7D = -11 },
			wantStrength: 20,
			wantBoom:     false,
			wantInReason: "7-day drop: -11.0%",
		},
		{
			name:         "30-day drop alone",
			mutate:       func(b *core.PriceBar) { b.PriceDrop30D = -25 },
			wantStrength: 25,
			wantBoom:     false,
			wantInReason: "30-day drop: -25.0%",
		},
		{
			name: "two conditions cross the threshold",
			mutate: func(b *core.PriceBar) {
				b.PriceVsMA20 = -8
				b.PriceDrop7D = -15
			},
			wantStrength: 45,
			wantBoom:     true,
		},
		{
			name: "exactly at threshold is a boom",
			mutate: func(b *core.PriceBar) {
				b.PriceVsMA20 = -6 // +25
				b.RSI = 38         // +15
			},
			wantStrength: 40,
			wantBoom:     true,
		},
		{
			name: "all conditions stack",
			mutate: func(b *core.PriceBar) {
				b.PriceVsMA20 = -10
				b.PriceVsMA50 = -15
				b.RSI = 20
				b.PriceDrop7D = -12
				b.PriceDrop30D = -30
			},
			wantStrength: 130,
			wantBoom:     true,
		},
		{
			name: "boundary values do not fire",
			mutate: func(b *core.PriceBar) {
				b.PriceVsMA20 = -5
				b.PriceVsMA50 = -10
				b.RSI = 40
				b.PriceDrop7D = -10
				b.PriceDrop30D = -20
			},
			wantStrength: 0,
			wantBoom:     false,
			wantInReason: NoSignalReason,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := neutralBar()
			tt.mutate(&bar)

			res := Detect(bar)
			if res.Strength != tt.wantStrength {
				t.Errorf("Strength = %v, want %v", res.Strength, tt.wantStrength)
			}
			if res.Boom != tt.wantBoom {
				t.Errorf("Boom = %v, want %v", res.Boom, tt.wantBoom)
			}
			if tt.wantInReason != "" && !strings.Contains(res.Reason, tt.wantInReason) {
				t.Errorf("Reason = %q, want it to contain %q", res.Reason, tt.wantInReason)
			}
		})
	}
}

func TestDetectSkipsUndefinedFields(t *testing.T) {
	// All fields NaN: nothing fires even though NaN comparisons could
	// otherwise behave surprisingly
	res := Detect(neutralBar())
	if res.Strength != 0 || res.Boom {
		t.Errorf("Detect(neutral) = %+v, want zero strength and no boom", res)
	}
	if res.Reason != NoSignalReason {
		t.Errorf("Reason = %q, want %q", res.Reason, NoSignalReason)
	}
}

func TestDetectReasonOrderAndSeparator(t *testing.T) {
	bar := neutralBar()
	bar.PriceVsMA20 = -7
	bar.RSI = 28
	bar.PriceDrop30D = -22

	res := Detect(bar)
	want := "-7.0% below MA20 | RSI very oversold (28.0) | 30-day drop: -22.0%"
	if res.Reason != want {
		t.Errorf("Reason = %q, want %q", res.Reason, want)
	}
}
