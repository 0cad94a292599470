package collector

import (
	"time"

	"github.com/dkoster/smartdca/internal/core"
)

// Provider defines the interface for historical market-data sources
type Provider interface {
	// Name returns the provider identifier (e.g., "kucoin", "yahoo")
	Name() string

	// FetchDaily fetches daily OHLCV bars for the symbol, oldest first
	FetchDaily(symbol string, start, end time.Time) ([]core.PriceBar, error)
}
