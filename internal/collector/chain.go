package collector

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dkoster/smartdca/internal/core"
)

// Chain tries providers in order with strict precedence: each provider is
// given the full request, and only a total failure (error or empty series)
// moves on to the next. Results from different providers are never merged.
type Chain struct {
	providers []Provider
	logger    *zap.Logger
}

// NewChain creates an ordered provider chain
func NewChain(logger *zap.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{providers: providers, logger: logger}
}

func (c *Chain) Name() string {
	return "chain"
}

// FetchDaily fetches daily bars from the first provider that can serve the
// whole request
func (c *Chain) FetchDaily(symbol string, start, end time.Time) ([]core.PriceBar, error) {
	var lastErr error
	for _, p := range c.providers {
		bars, err := p.FetchDaily(symbol, start, end)
		if err == nil && len(bars) > 0 {
			c.logger.Debug("series fetched",
				zap.String("symbol", symbol),
				zap.String("provider", p.Name()),
				zap.Int("bars", len(bars)),
			)
			return bars, nil
		}
		if err != nil {
			c.logger.Debug("provider failed",
				zap.String("symbol", symbol),
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			lastErr = err
		}
	}

	if lastErr != nil {
		return nil, core.WrapError(core.ErrProviderFailed,
			fmt.Errorf("all providers failed for %s: %w", symbol, lastErr))
	}
	return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no data available for %s", symbol))
}
