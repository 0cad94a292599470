package dca

import (
	"fmt"
	"math"

	"github.com/dkoster/smartdca/internal/strategy"
)

// aggregate rolls the per-month state into the final result record.
// Valuation uses the last available close of the full series, which may sit
// past the simulation window.
func aggregate(symbol string, currentPrice float64, state *monthState, cfg strategy.Resolved) *RunResult {
	currentValue := state.totalShares * currentPrice
	profitLoss := currentValue - state.totalInvested

	returnPct := 0.0
	if state.totalInvested > 0 {
		returnPct = profitLoss / state.totalInvested * 100
	}

	simulated := len(state.ledger)
	buyRate := 0.0
	if simulated > 0 {
		buyRate = float64(state.monthsBought) / float64(simulated)
	}

	return &RunResult{
		Symbol:            symbol,
		TotalInvested:     round(state.totalInvested, 2),
		TotalShares:       round(state.totalShares, 6),
		CurrentValue:      round(currentValue, 2),
		CurrentPrice:      round(currentPrice, 4),
		ProfitLoss:        round(profitLoss, 2),
		ReturnPercent:     round(returnPct, 2),
		MonthsBought:      state.monthsBought,
		MonthsWaited:      state.monthsWaited,
		BuyRate:           round(buyRate, 4),
		UnusedBudget:      round(state.accumulated, 2),
		Trades:            state.trades,
		MonthlySummary:    state.ledger,
		StrategyProfile:   cfg.ProfileName,
		AllocationMode:    string(cfg.Mode),
		MinSignalStrength: round(cfg.MinSignalStrength, 2),
		MinTradeAmount:    round(cfg.MinTradeAmount, 2),
		FallbackThreshold: round(cfg.FallbackThreshold, 2),
	}
}

func fallbackReason(belowAvgPct float64) string {
	return fmt.Sprintf("Monthly dip (%.1f%% below avg)", belowAvgPct)
}

// round to the given number of decimal places, half away from zero
func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
