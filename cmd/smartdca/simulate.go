package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkoster/smartdca/internal/config"
	"github.com/dkoster/smartdca/internal/dca"
	"github.com/dkoster/smartdca/internal/logger"
	"github.com/dkoster/smartdca/internal/strategy"
)

var (
	simulateAmount      float64
	simulateMonths      int
	simulateProfile     string
	simulateMode        string
	simulateMinStrength float64
	simulateMinTrade    float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [symbol]",
	Short: "Run a Smart DCA simulation for one symbol",
	Long:  "Fetch historical prices for a symbol and simulate the monthly allocation strategy",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().Float64Var(&simulateAmount, "amount", 100, "Monthly investment budget")
	simulateCmd.Flags().IntVar(&simulateMonths, "months", 24, "Number of months to simulate (1-120)")
	simulateCmd.Flags().StringVar(&simulateProfile, "profile", strategy.DefaultProfile, "Strategy profile: aggressive, balanced, conservative")
	simulateCmd.Flags().StringVar(&simulateMode, "mode", string(strategy.ModeFull), "Allocation mode: full or tiered")
	simulateCmd.Flags().Float64Var(&simulateMinStrength, "min-strength", -1, "Override minimum boom signal strength (0-100)")
	simulateCmd.Flags().Float64Var(&simulateMinTrade, "min-trade", 0, "Skip trades below this invested amount")

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	if simulateMonths < 1 || simulateMonths > 120 {
		return fmt.Errorf("months must be between 1 and 120")
	}
	if _, ok := strategy.ProfileByName(simulateProfile); !ok {
		return fmt.Errorf("unknown profile: %s", simulateProfile)
	}

	log := logger.Must(debug)
	defer log.Sync()

	chain, err := buildChain(config.Defaults().Collectors.Providers, log)
	if err != nil {
		return err
	}

	settings := strategy.Settings{
		Profile: simulateProfile,
		Mode:    strategy.Mode(simulateMode),
	}
	if simulateMinStrength >= 0 {
		settings.MinSignalStrength = &simulateMinStrength
	}
	if simulateMinTrade > 0 {
		settings.MinTradeAmount = &simulateMinTrade
	}

	service := dca.NewService(chain, dca.NewEngine(log), log, nil)

	result, err := service.RunSymbol(symbol, simulateAmount, simulateMonths, settings)
	if err != nil {
		return fmt.Errorf("simulating %s: %w", symbol, err)
	}

	printResult(result)
	return nil
}

func printResult(r *dca.RunResult) {
	fmt.Println("=== Smart DCA Simulation ===")
	fmt.Printf("Symbol:    %s\n", r.Symbol)
	fmt.Printf("Profile:   %s (%s allocation)\n", r.StrategyProfile, r.AllocationMode)
	fmt.Printf("Months:    %d bought, %d waited (buy rate %.0f%%)\n",
		r.MonthsBought, r.MonthsWaited, r.BuyRate*100)
	fmt.Println()
	fmt.Printf("Invested:      %12.2f\n", r.TotalInvested)
	fmt.Printf("Current value: %12.2f (at %.4f)\n", r.CurrentValue, r.CurrentPrice)
	fmt.Printf("Profit/loss:   %12.2f (%.2f%%)\n", r.ProfitLoss, r.ReturnPercent)
	fmt.Printf("Unused budget: %12.2f\n", r.UnusedBudget)

	if len(r.Trades) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Trades:")
	for _, t := range r.Trades {
		strength := "-"
		if t.SignalStrength != nil {
			strength = fmt.Sprintf("%.0f", *t.SignalStrength)
		}
		fmt.Printf("  %s  %-10s  price %10.4f  invested %10.2f  strength %-4s  %s\n",
			t.Date, t.TradeType, t.EntryPrice, t.AmountInvested, strength, t.SignalReason)
	}
}
