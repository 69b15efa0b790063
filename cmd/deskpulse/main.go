package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/deskpulse/deskpulse/internal/interfaces/cli/migrate"
	"github.com/deskpulse/deskpulse/internal/interfaces/cli/seed"
	"github.com/deskpulse/deskpulse/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "deskpulse",
		Short: "DeskPulse - support ticketing with live chat",
		Long:  `DeskPulse serves the support ticket API and its chat delivery, with migration and seeding tools.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
