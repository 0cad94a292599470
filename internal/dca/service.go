package dca

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dkoster/smartdca/internal/core"
	"github.com/dkoster/smartdca/internal/indicator"
	"github.com/dkoster/smartdca/internal/metrics"
	"github.com/dkoster/smartdca/internal/strategy"
)

// SeriesProvider supplies raw daily history for a symbol
type SeriesProvider interface {
	FetchDaily(symbol string, start, end time.Time) ([]core.PriceBar, error)
}

// BatchRequest describes a multi-symbol analysis run
type BatchRequest struct {
	Symbols       []string
	MonthlyAmount float64
	Months        int
	Settings      strategy.Settings
}

// SymbolError reports a per-symbol failure inside a batch
type SymbolError struct {
	Symbol string `json:"symbol"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// Performer identifies a symbol by its realized return
type Performer struct {
	Symbol        string  `json:"symbol"`
	ReturnPercent float64 `json:"return_percent"`
}

// Summary compares results across the batch
type Summary struct {
	BestPerformer  Performer `json:"best_performer"`
	WorstPerformer Performer `json:"worst_performer"`
	TotalSymbols   int       `json:"total_symbols"`
}

// BatchResult holds successes and failures of one batch run
type BatchResult struct {
	Results []*RunResult  `json:"results"`
	Errors  []SymbolError `json:"errors,omitempty"`
	Summary *Summary      `json:"summary,omitempty"`
}

// Service orchestrates fetching, enrichment and simulation per symbol.
// The data source is an injected handle; the service holds no global state.
type Service struct {
	provider SeriesProvider
	engine   *Engine
	logger   *zap.Logger
	metrics  *metrics.Registry // optional
}

// NewService creates a batch service. The metrics registry may be nil.
func NewService(provider SeriesProvider, engine *Engine, logger *zap.Logger, reg *metrics.Registry) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		engine:   engine,
		logger:   logger,
		metrics:  reg,
	}
}

// Analyze runs the Smart DCA simulation for every requested symbol.
// Failures are collected per symbol and reported alongside successes; only
// a batch with zero successes is an error to the caller.
func (s *Service) Analyze(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	if len(req.Symbols) == 0 {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("no symbols requested"))
	}

	out := &BatchResult{}

	for _, symbol := range req.Symbols {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result, err := s.RunSymbol(symbol, req.MonthlyAmount, req.Months, req.Settings)
		if err != nil {
			s.logger.Warn("symbol failed",
				zap.String("symbol", symbol),
				zap.Error(err),
			)
			out.Errors = append(out.Errors, toSymbolError(symbol, err))
			continue
		}

		s.logger.Info("symbol processed",
			zap.String("symbol", symbol),
			zap.Float64("return_percent", result.ReturnPercent),
			zap.Int("trades", len(result.Trades)),
		)
		out.Results = append(out.Results, result)
	}

	if len(out.Results) == 0 {
		return nil, core.WrapError(core.ErrCalculationFailed,
			fmt.Errorf("no successful results across %d symbol(s)", len(req.Symbols)))
	}

	out.Summary = summarize(out.Results)
	return out, nil
}

// RunSymbol fetches, enriches and simulates one symbol
func (s *Service) RunSymbol(symbol string, monthlyAmount float64, months int, settings strategy.Settings) (*RunResult, error) {
	start := time.Now()

	end := time.Now()
	// Fetch a little more than the requested span so indicator lookbacks
	// have history to work with
	from := end.AddDate(0, 0, -months*32)

	bars, err := s.provider.FetchDaily(symbol, from, end)
	if err != nil {
		s.recordSimulation("fetch_failed", start)
		if s.metrics != nil {
			s.metrics.RecordFetchFailure(providerName(s.provider))
		}
		return nil, core.WrapError(core.ErrNoData, err)
	}

	enriched, err := indicator.Enrich(bars)
	if err != nil {
		s.recordSimulation("no_data", start)
		return nil, err
	}

	result, err := s.engine.Run(enriched, symbol, monthlyAmount, months, settings)
	if err != nil {
		s.recordSimulation("failed", start)
		return nil, err
	}

	s.recordSimulation("ok", start)
	if s.metrics != nil {
		for _, t := range result.Trades {
			s.metrics.RecordTrade(string(t.TradeType))
		}
	}

	return result, nil
}

func (s *Service) recordSimulation(status string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordSimulation(status, time.Since(start).Seconds())
}

// summarize names the best and worst performer by return percent
func summarize(results []*RunResult) *Summary {
	best := results[0]
	worst := results[0]
	for _, r := range results[1:] {
		if r.ReturnPercent > best.ReturnPercent {
			best = r
		}
		if r.ReturnPercent < worst.ReturnPercent {
			worst = r
		}
	}
	return &Summary{
		BestPerformer:  Performer{Symbol: best.Symbol, ReturnPercent: best.ReturnPercent},
		WorstPerformer: Performer{Symbol: worst.Symbol, ReturnPercent: worst.ReturnPercent},
		TotalSymbols:   len(results),
	}
}

func toSymbolError(symbol string, err error) SymbolError {
	code := "INTERNAL_ERROR"
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		code = coreErr.Code
	}
	return SymbolError{Symbol: symbol, Code: code, Reason: err.Error()}
}

// providerName reports the provider identity when it exposes one
func providerName(p SeriesProvider) string {
	if n, ok := p.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "unknown"
}
