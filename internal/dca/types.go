package dca

import (
	"github.com/dkoster/smartdca/internal/core"
)

// Trade is one executed purchase. Valuation fields are computed once against
// the last available close; nothing else mutates after creation.
type Trade struct {
	Date               string         `json:"trade_date"`
	Month              string         `json:"month"`
	EntryPrice         float64        `json:"entry_price"`
	AmountInvested     float64        `json:"amount_invested"`
	SharesBought       float64        `json:"shares_bought"`
	TotalSharesAfter   float64        `json:"total_shares_after"`
	SignalStrength     *float64       `json:"signal_strength"`
	SignalReason       string         `json:"signal_reason,omitempty"`
	TradeType          core.TradeType `json:"trade_type"`
	BudgetUsed         float64        `json:"accumulated_budget_used"`
	CurrentPrice       float64        `json:"current_price"`
	CurrentValue       float64        `json:"current_value"`
	ProfitLoss         float64        `json:"profit_loss"`
	ProfitLossPercent  float64        `json:"profit_loss_percent"`
	AllocationFraction float64        `json:"allocation_fraction"`
	SignalThreshold    float64        `json:"signal_threshold"`
}

// MonthEntry is one row of the monthly ledger. Exactly one entry exists per
// simulated calendar month, in chronological order.
type MonthEntry struct {
	Month              string   `json:"month"`
	Traded             bool     `json:"traded"`
	Trade              *Trade   `json:"trade,omitempty"`
	AccumulatedBudget  float64  `json:"accumulated_budget"`
	MonthlyBudget      float64  `json:"monthly_budget"`
	AllocationFraction *float64 `json:"allocation_fraction,omitempty"`
}

// RunResult aggregates one symbol's simulation.
// Invariants: MonthsBought + MonthsWaited equals the number of simulated
// months; TotalInvested and TotalShares equal the sums over Trades within
// floating rounding.
type RunResult struct {
	Symbol            string       `json:"symbol"`
	TotalInvested     float64      `json:"total_invested"`
	TotalShares       float64      `json:"total_shares"`
	CurrentValue      float64      `json:"current_value"`
	CurrentPrice      float64      `json:"current_price"`
	ProfitLoss        float64      `json:"profit_loss"`
	ReturnPercent     float64      `json:"return_percent"`
	MonthsBought      int          `json:"months_bought"`
	MonthsWaited      int          `json:"months_waited"`
	BuyRate           float64      `json:"buy_rate"`
	UnusedBudget      float64      `json:"unused_budget"`
	Trades            []Trade      `json:"trades"`
	MonthlySummary    []MonthEntry `json:"monthly_summary"`
	StrategyProfile   string       `json:"strategy_profile"`
	AllocationMode    string       `json:"allocation_mode"`
	MinSignalStrength float64      `json:"min_signal_strength"`
	MinTradeAmount    float64      `json:"min_trade_amount"`
	FallbackThreshold float64      `json:"fallback_threshold"`
}
