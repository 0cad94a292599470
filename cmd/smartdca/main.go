package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "smartdca",
	Short: "smartdca - Smart Dollar-Cost-Averaging simulator",
	Long: `smartdca estimates outcomes of a Smart Dollar-Cost-Averaging strategy
over historical price series, deploying a monthly budget on detected dips.
It supports stocks/ETFs (Yahoo Finance) and crypto pairs (KuCoin).`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
