package core

import (
	"math"
	"time"
)

// TradeType classifies what triggered a purchase
type TradeType string

const (
	TradeBoomRange TradeType = "boom_range"
	TradeFallback  TradeType = "fallback"
)

// PriceBar represents one daily candlestick plus derived indicator fields.
// Derived fields are NaN until computed, and stay NaN while the series is
// too short for the lookback. NaN values never fire a signal.
type PriceBar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	// Derived fields, filled in by the indicator engine
	MA20         float64
	MA50         float64
	RSI          float64
	PriceVsMA20  float64 // percent deviation of close from MA20
	PriceVsMA50  float64 // percent deviation of close from MA50
	PriceDrop7D  float64 // percent change vs the close 7 bars earlier
	PriceDrop30D float64 // percent change vs the close 30 bars earlier
}

// NewPriceBar creates a raw bar with all derived fields undefined
func NewPriceBar(t time.Time, open, high, low, close, volume float64) PriceBar {
	nan := math.NaN()
	return PriceBar{
		Time:         t,
		Open:         open,
		High:         high,
		Low:          low,
		Close:        close,
		Volume:       volume,
		MA20:         nan,
		MA50:         nan,
		RSI:          nan,
		PriceVsMA20:  nan,
		PriceVsMA50:  nan,
		PriceDrop7D:  nan,
		PriceDrop30D: nan,
	}
}

// IsValid checks if the bar has required fields
func (b PriceBar) IsValid() bool {
	return !b.Time.IsZero() && b.Close > 0
}

// Month returns the bar's calendar month in YYYY-MM form
func (b PriceBar) Month() string {
	return b.Time.Format("2006-01")
}
