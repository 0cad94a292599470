package dca

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dkoster/smartdca/internal/core"
	"github.com/dkoster/smartdca/internal/signal"
	"github.com/dkoster/smartdca/internal/strategy"
)

// Engine runs Smart DCA simulations over enriched daily price series
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a simulation engine
func NewEngine(logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Engine{logger: l}
}

// monthState carries the running totals of one simulation
type monthState struct {
	accumulated   float64
	totalShares   float64
	totalInvested float64
	monthsBought  int
	monthsWaited  int
	trades        []Trade
	ledger        []MonthEntry
}

// candidate is the buy opportunity selected for a month
type candidate struct {
	bar       core.PriceBar
	tradeType core.TradeType
	strength  float64
	reason    string
}

// Run simulates monthly allocation for one symbol. The series must carry
// indicator fields (see indicator.Enrich). Each calendar month from the
// first bar onward, up to the requested count and the span of the data,
// produces exactly one ledger entry. All state is local to the call.
func (e *Engine) Run(series []core.PriceBar, symbol string, monthlyAmount float64, months int, settings strategy.Settings) (*RunResult, error) {
	if len(series) == 0 {
		return nil, core.ErrNoData
	}

	cfg := settings.Resolve()

	bars := make([]core.PriceBar, len(series))
	copy(bars, series)
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	byMonth := groupByMonth(bars)
	currentPrice := bars[len(bars)-1].Close

	var state monthState

	first := monthStart(bars[0].Time)
	last := monthStart(bars[len(bars)-1].Time)

	for m := first; !m.After(last) && len(state.ledger) < months; m = m.AddDate(0, 1, 0) {
		monthKey := m.Format("2006-01")
		state.accumulated += monthlyAmount

		monthBars := byMonth[monthKey]
		if len(monthBars) == 0 {
			// Gap month: budget still accumulates
			state.waitMonth(monthKey, monthlyAmount, state.accumulated)
			continue
		}

		cand := e.findCandidate(monthBars, cfg)
		if cand == nil {
			state.waitMonth(monthKey, monthlyAmount, state.accumulated)
			continue
		}

		fraction := cfg.AllocationFraction(cand.tradeType, cand.strength)
		amount := state.accumulated * fraction

		if amount < cfg.MinTradeAmount {
			// Too small to execute; budget carries forward untouched
			state.waitMonth(monthKey, monthlyAmount, round(state.accumulated, 2))
			continue
		}

		state.execute(monthKey, monthlyAmount, cand, fraction, amount, currentPrice, cfg)
	}

	e.logger.Debug("simulation complete",
		zap.String("symbol", symbol),
		zap.Int("months_simulated", len(state.ledger)),
		zap.Int("months_bought", state.monthsBought),
	)

	return aggregate(symbol, currentPrice, &state, cfg), nil
}

// findCandidate scans one month's bars for the strongest qualifying boom
// day; when no boom survives the minimum-strength cut it falls back to the
// month's deepest dip below the average. Strict two-tier precedence: a boom
// discarded for weak strength does not lower the bar for fallback detection.
func (e *Engine) findCandidate(monthBars []core.PriceBar, cfg strategy.Resolved) *candidate {
	var best *candidate
	for _, bar := range monthBars {
		res := signal.Detect(bar)
		if !res.Boom {
			continue
		}
		// Strictly greater replaces: the first-seen day wins ties
		if best == nil || res.Strength > best.strength {
			best = &candidate{
				bar:       bar,
				tradeType: core.TradeBoomRange,
				strength:  res.Strength,
				reason:    res.Reason,
			}
		}
	}

	if best != nil && best.strength < cfg.MinSignalStrength {
		best = nil
	}
	if best != nil {
		return best
	}

	mean, minBar := monthMeanAndMin(monthBars)
	if minBar.Close < mean*cfg.FallbackThreshold {
		belowAvg := (minBar.Close - mean) / mean * 100
		return &candidate{
			bar:       minBar,
			tradeType: core.TradeFallback,
			reason:    fallbackReason(belowAvg),
		}
	}

	return nil
}

// waitMonth records a non-traded ledger entry
func (s *monthState) waitMonth(month string, monthlyBudget, accumulated float64) {
	s.ledger = append(s.ledger, MonthEntry{
		Month:             month,
		Traded:            false,
		AccumulatedBudget: accumulated,
		MonthlyBudget:     monthlyBudget,
	})
	s.monthsWaited++
}

// execute performs the month's purchase and appends trade + ledger records
func (s *monthState) execute(month string, monthlyBudget float64, cand *candidate, fraction, amount, currentPrice float64, cfg strategy.Resolved) {
	amount = round(amount, 2)
	shares := amount / cand.bar.Close
	s.totalShares += shares
	s.totalInvested += amount

	tradeValue := shares * currentPrice
	tradeProfit := tradeValue - amount
	tradeProfitPct := 0.0
	if amount > 0 {
		tradeProfitPct = tradeProfit / amount * 100
	}

	var strengthField *float64
	if cand.tradeType == core.TradeBoomRange && cand.strength > 0 {
		v := round(cand.strength, 2)
		strengthField = &v
	}

	fractionField := 1.0
	if cfg.Mode == strategy.ModeTiered {
		fractionField = round(fraction, 3)
	}

	trade := Trade{
		Date:               cand.bar.Time.Format("2006-01-02"),
		Month:              month,
		EntryPrice:         round(cand.bar.Close, 4),
		AmountInvested:     amount,
		SharesBought:       round(shares, 6),
		TotalSharesAfter:   round(s.totalShares, 6),
		SignalStrength:     strengthField,
		SignalReason:       cand.reason,
		TradeType:          cand.tradeType,
		BudgetUsed:         amount,
		CurrentPrice:       round(currentPrice, 4),
		CurrentValue:       round(tradeValue, 2),
		ProfitLoss:         round(tradeProfit, 2),
		ProfitLossPercent:  round(tradeProfitPct, 2),
		AllocationFraction: fractionField,
		SignalThreshold:    round(cfg.MinSignalStrength, 2),
	}
	s.trades = append(s.trades, trade)

	s.accumulated = round(s.accumulated-amount, 2)
	if s.accumulated < 0 {
		s.accumulated = 0
	}

	s.ledger = append(s.ledger, MonthEntry{
		Month:              month,
		Traded:             true,
		Trade:              &trade,
		AccumulatedBudget:  s.accumulated,
		MonthlyBudget:      monthlyBudget,
		AllocationFraction: &trade.AllocationFraction,
	})
	s.monthsBought++
}

// monthMeanAndMin returns the month's mean close and the bar with the
// minimum close (first-seen wins ties)
func monthMeanAndMin(bars []core.PriceBar) (float64, core.PriceBar) {
	minBar := bars[0]
	var sum float64
	for _, b := range bars {
		sum += b.Close
		if b.Close < minBar.Close {
			minBar = b
		}
	}
	return sum / float64(len(bars)), minBar
}

// groupByMonth buckets bars by calendar month, preserving order
func groupByMonth(bars []core.PriceBar) map[string][]core.PriceBar {
	out := make(map[string][]core.PriceBar)
	for _, b := range bars {
		key := b.Month()
		out[key] = append(out[key], b)
	}
	return out
}

// monthStart normalizes a time to the first day of its month
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
