package main

import (
	"context"
	"fmt"

	"github.com/coregate/gateway/internal/config"
	"github.com/coregate/gateway/internal/gateway"
	"github.com/coregate/gateway/internal/logging"
	"github.com/spf13/cobra"
)

func newValidateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and build the config without serving any traffic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := logging.New(false)
			defer logger.Sync()
			if _, err := gateway.Build(context.Background(), cfg, logger); err != nil {
				return err
			}
			fmt.Println("config is valid")
			return nil
		},
	}
}
