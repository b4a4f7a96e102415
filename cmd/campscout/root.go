package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campscout/campscout/internal/config"
	"github.com/campscout/campscout/internal/providers"
)

func newRootCmd() *cobra.Command {
	var configPath string
	var providerName string

	root := &cobra.Command{
		Use:           "campscout",
		Short:         "Find bookable campsites on outdoor reservation platforms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file (recreation area registry)")
	root.PersistentFlags().StringVar(&providerName, "provider", "goingtocamp", "booking platform to search")

	root.AddCommand(
		newAreasCmd(&configPath, &providerName),
		newCampgroundsCmd(&configPath, &providerName),
		newEquipmentTypesCmd(&configPath, &providerName),
		newSearchCmd(&configPath, &providerName),
	)
	return root
}

// loadProvider wires configuration into a fresh adapter instance. Each
// command run gets its own instance so per-search caches never leak.
func loadProvider(configPath, providerName string) (*config.Config, providers.Provider, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	registry := providers.NewRegistry()
	gtc := providers.NewGoingToCamp(cfg.GoingToCamp)
	registry.Register(gtc.Name(), gtc)

	p, ok := registry.Get(providerName)
	if !ok {
		return nil, nil, fmt.Errorf("unknown provider %q", providerName)
	}
	return cfg, p, nil
}
