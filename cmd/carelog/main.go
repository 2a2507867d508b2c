package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/carelog-health/carelog/internal/interfaces/cli/migrate"
	"github.com/carelog-health/carelog/internal/interfaces/cli/server"
)

// @title CareLog Entitlement API
// @version 1.0
// @description Feature gating, token consumption and billing webhook processing for the CareLog apps.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	rootCmd := &cobra.Command{
		Use:   "carelog",
		Short: "CareLog - entitlement and billing service",
		Long:  `CareLog entitlement service: feature gating, token balances, and billing webhook processing for the CareLog apps.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
