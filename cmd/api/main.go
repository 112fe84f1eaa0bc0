package main

import (
	"fmt"
	"os"

	"backoffice-api/internal/config"
	"backoffice-api/internal/platform/logger"

	"github.com/spf13/cobra"
)

var Version = "dev"

// @title Backoffice API
// @version 1.0
// @description Painel operacional: clientes, lembretes de medicação y webhooks.
// @BasePath /
func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "backoffice-api",
		Short:         "Backoffice API - clientes, lembretes y webhooks",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "archivo YAML de config (default $CONFIG_FILE)")

	load := func() (config.Config, logger.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("config: %w", err)
		}
		log := logger.New(logger.Options{
			Level:  logger.ParseLevel(cfg.Log.Level),
			Format: logger.ParseFormat(cfg.Log.Format),
			App:    cfg.App,
		})
		return cfg, log, nil
	}

	rootCmd.AddCommand(serveCmd(load))
	rootCmd.AddCommand(processCmd(load))
	rootCmd.AddCommand(migrateCmd(load))
	rootCmd.AddCommand(tokenCmd(load))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type loader func() (config.Config, logger.Logger, error)
