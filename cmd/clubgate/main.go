package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clubgate/clubgate/internal/interfaces/cli/migrate"
	"github.com/clubgate/clubgate/internal/interfaces/cli/server"
)

// @title			ClubGate API
// @version		1.0
// @description	Paid Telegram channel access service
// @BasePath		/
func main() {
	rootCmd := &cobra.Command{
		Use:   "clubgate",
		Short: "ClubGate - paid Telegram channel access",
		Long:  `ClubGate sells access to a private Telegram channel, keeps memberships in sync with payments and handles automatic renewals.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
