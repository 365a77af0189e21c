package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seoctl",
		Short: "seoctl - score pages for on-page SEO",
		Long: `seoctl runs the optimiser's SEO analysis against local HTML files and
inspects stored results and the suggestion catalog.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newCatalogCommand())
	cmd.AddCommand(newSuggestionsCommand())
	cmd.AddCommand(newScoreCommand())

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}

// cliLogger writes warnings to stderr, or everything when --debug is set.
func cliLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
