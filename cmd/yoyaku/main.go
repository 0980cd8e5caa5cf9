package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/interfaces/cli/analyze"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/interfaces/cli/rules"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/interfaces/cli/server"
)

func main() {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "yoyaku",
		Short: "Yoyaku - support ticket summarization and customer risk assist",
		Long: `Yoyaku serves the support widget backend and the ticket history summarizer,
and provides offline tools for scoring ticket exports and tuning the rule tables.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		analyze.NewCommand(),
		rules.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
