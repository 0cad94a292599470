package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dkoster/smartdca/internal/collector"
	"github.com/dkoster/smartdca/internal/collector/kucoin"
	"github.com/dkoster/smartdca/internal/collector/yahoo"
)

// buildChain constructs the ordered data-source chain from provider names
func buildChain(names []string, log *zap.Logger) (*collector.Chain, error) {
	providers := make([]collector.Provider, 0, len(names))
	for _, name := range names {
		switch name {
		case "kucoin":
			providers = append(providers, kucoin.New())
		case "yahoo":
			providers = append(providers, yahoo.New())
		default:
			return nil, fmt.Errorf("unknown collector provider: %s", name)
		}
	}
	return collector.NewChain(log, providers...), nil
}
