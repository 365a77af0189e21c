package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Optimiser/internal/checks"
	"github.com/MikeSquared-Agency/Optimiser/internal/config"
	"github.com/MikeSquared-Agency/Optimiser/internal/scoring"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

func newCatalogCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the contexts, factors and operations with their weights as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			w, err := cfg.WeightRegistry()
			if err != nil {
				return err
			}
			md := scoring.Describe(checks.DefaultRegistry(), w, suggestions.Default())

			data, err := json.MarshalIndent(md, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal catalog: %w", err)
			}
			data = append(data, '\n')
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return fmt.Errorf("failed to write catalog: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Config file with weight overrides")
	return cmd
}

func newSuggestionsCommand() *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "suggestions [code]",
		Short: "List suggestion codes, or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := suggestions.Default()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				d, ok := catalog.Get(suggestions.Code(args[0]))
				if !ok {
					return fmt.Errorf("unknown suggestion code %q", args[0])
				}
				fmt.Fprintf(out, "%s\n  %s\n  priority: %s  category: %s  threshold: %.2f\n\n%s\n",
					d.Code, d.Title, d.Priority, d.Category, d.Threshold, d.Description)
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tPRIORITY\tTITLE")
			for _, d := range catalog.All() {
				if priority != "" && string(d.Priority) != priority {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Code, d.Priority, d.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&priority, "priority", "", "Only list codes with this priority (low, medium, high, critical)")
	return cmd
}
