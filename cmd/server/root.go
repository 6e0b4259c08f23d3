package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"daoview/internal/config"
	"daoview/internal/domain"
)

var (
	configPath string
	networkArg string
	dbPath     string

	cfg *config.Config
)

// Execute runs the root command
func Execute() error {
	root := &cobra.Command{
		Use:           "daoview",
		Short:         "Read-only viewer for Stacks DAO contracts",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}

			var (
				path string
				err  error
			)
			if configPath != "" {
				cfg, path, err = config.LoadFromPath(configPath)
				if err == nil {
					cfg.ApplyEnv()
				}
			} else {
				cfg, path, err = config.Load()
			}
			if err != nil {
				return err
			}
			if path != "" {
				log.Printf("Config loaded from %s", path)
			}

			if networkArg != "" {
				network := domain.Network(networkArg)
				if !network.Valid() {
					return fmt.Errorf("network %q must be mainnet or testnet", networkArg)
				}
				cfg.Network.Default = networkArg
			}
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: search "+config.ConfigFileName+")")
	root.PersistentFlags().StringVarP(&networkArg, "network", "n", "", "network to read from: mainnet or testnet")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path")

	root.AddCommand(
		serveCmd(),
		daosCmd(),
		treasuryCmd(),
		proposalsCmd(),
		proposalCmd(),
		validateCmd(),
		addressCmd(),
		configCmd(),
	)
	return root.Execute()
}
