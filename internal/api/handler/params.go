// internal/api/handler/params.go
package handler

import (
	"fmt"

	"github.com/dkoster/smartdca/internal/strategy"
)

// Request defaults and limits
const (
	defaultMonthlyAmount = 100.0
	defaultMonths        = 24
	minMonths            = 1
	maxMonths            = 120
)

// StrategyParams are the simulation fields shared by analyze and simulate
// requests. Pointer fields distinguish "omitted" from an explicit zero.
type StrategyParams struct {
	MonthlyAmount     *float64 `json:"monthly_amount"`
	Months            *int     `json:"months"`
	StrategyProfile   string   `json:"strategy_profile"`
	AllocationMode    string   `json:"allocation_mode"`
	MinSignalStrength *float64 `json:"min_signal_strength"`
	MinTradeAmount    *float64 `json:"min_trade_amount"`
}

// resolve validates the parameters and applies defaults
func (p StrategyParams) resolve() (monthlyAmount float64, months int, settings strategy.Settings, err error) {
	monthlyAmount = defaultMonthlyAmount
	if p.MonthlyAmount != nil {
		monthlyAmount = *p.MonthlyAmount
	}
	if monthlyAmount < 0 {
		return 0, 0, settings, fmt.Errorf("monthly_amount must be >= 0, got %g", monthlyAmount)
	}

	months = defaultMonths
	if p.Months != nil {
		months = *p.Months
	}
	if months < minMonths || months > maxMonths {
		return 0, 0, settings, fmt.Errorf("months must be between %d and %d, got %d", minMonths, maxMonths, months)
	}

	if p.StrategyProfile != "" {
		if _, ok := strategy.ProfileByName(p.StrategyProfile); !ok {
			return 0, 0, settings, fmt.Errorf("unknown strategy_profile: %s", p.StrategyProfile)
		}
	}

	mode := strategy.Mode(p.AllocationMode)
	if p.AllocationMode != "" && mode != strategy.ModeFull && mode != strategy.ModeTiered {
		return 0, 0, settings, fmt.Errorf("allocation_mode must be %q or %q, got %q",
			strategy.ModeFull, strategy.ModeTiered, p.AllocationMode)
	}

	if p.MinSignalStrength != nil && (*p.MinSignalStrength < 0 || *p.MinSignalStrength > 100) {
		return 0, 0, settings, fmt.Errorf("min_signal_strength must be between 0 and 100, got %g", *p.MinSignalStrength)
	}
	if p.MinTradeAmount != nil && *p.MinTradeAmount < 0 {
		return 0, 0, settings, fmt.Errorf("min_trade_amount must be >= 0, got %g", *p.MinTradeAmount)
	}

	settings = strategy.Settings{
		Profile:           p.StrategyProfile,
		Mode:              mode,
		MinSignalStrength: p.MinSignalStrength,
		MinTradeAmount:    p.MinTradeAmount,
	}
	return monthlyAmount, months, settings, nil
}
