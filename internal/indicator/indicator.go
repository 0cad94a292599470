package indicator

import (
	"math"

	"github.com/dkoster/smartdca/internal/core"
)

// Lookback periods for the derived fields
const (
	maShortPeriod = 20
	maLongPeriod  = 50
	rsiPeriod     = 14
	dropShortBars = 7
	dropLongBars  = 30
)

// Enrich computes moving averages, RSI and drop percentages over a
// chronologically ordered daily series. The input slice is not modified;
// an augmented copy is returned. Moving averages and RSI use however many
// bars are available before the window fills. Fields without enough history
// stay NaN.
func Enrich(series []core.PriceBar) ([]core.PriceBar, error) {
	if len(series) == 0 {
		return nil, core.ErrNoData
	}

	out := make([]core.PriceBar, len(series))
	copy(out, series)

	closes := make([]float64, len(out))
	for i := range out {
		closes[i] = out[i].Close
	}

	maShort := rollingMean(closes, maShortPeriod)
	maLong := rollingMean(closes, maLongPeriod)
	rsi := relativeStrength(closes, rsiPeriod)

	for i := range out {
		out[i].MA20 = maShort[i]
		out[i].MA50 = maLong[i]
		out[i].RSI = rsi[i]
		out[i].PriceVsMA20 = deviationPercent(closes[i], maShort[i])
		out[i].PriceVsMA50 = deviationPercent(closes[i], maLong[i])
		out[i].PriceDrop7D = changePercent(closes, i, dropShortBars)
		out[i].PriceDrop30D = changePercent(closes, i, dropLongBars)
	}

	return out, nil
}

// rollingMean computes a trailing simple moving average with a minimum
// period of 1: before the window fills it averages whatever is available.
func rollingMean(values []float64, period int) []float64 {
	result := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
			result[i] = sum / float64(period)
		} else {
			result[i] = sum / float64(i+1)
		}
	}
	return result
}

// relativeStrength computes the RSI from the trailing mean of positive
// deltas (gain) and the trailing mean of the magnitude of negative deltas
// (loss), with a minimum period of 1. The first bar has no delta and stays
// NaN. A window without losses is fully overbought: RSI is 100 by
// definition, not an error.
func relativeStrength(closes []float64, period int) []float64 {
	result := make([]float64, len(closes))
	if len(closes) == 0 {
		return result
	}
	result[0] = math.NaN()

	for i := 1; i < len(closes); i++ {
		start := i - period + 1
		if start < 1 {
			start = 1
		}

		var gain, loss float64
		n := 0
		for j := start; j <= i; j++ {
			delta := closes[j] - closes[j-1]
			if delta > 0 {
				gain += delta
			} else {
				loss -= delta
			}
			n++
		}
		gain /= float64(n)
		loss /= float64(n)

		if loss == 0 {
			result[i] = 100
			continue
		}
		rs := gain / loss
		result[i] = 100 - 100/(1+rs)
	}

	return result
}

// deviationPercent returns how far price sits from the reference, in percent
func deviationPercent(price, reference float64) float64 {
	if math.IsNaN(reference) || reference == 0 {
		return math.NaN()
	}
	return (price - reference) / reference * 100
}

// changePercent returns the percent change of closes[i] versus the close
// bars earlier, or NaN when there is not enough history.
func changePercent(closes []float64, i, bars int) float64 {
	if i < bars {
		return math.NaN()
	}
	prev := closes[i-bars]
	if prev == 0 {
		return math.NaN()
	}
	return (closes[i] - prev) / prev * 100
}
