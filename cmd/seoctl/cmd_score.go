package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Optimiser/internal/store"
)

func newScoreCommand() *cobra.Command {
	var (
		dbPath     string
		maxScore   float64
		limit      int
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "score [subject-id]",
		Short: "Show stored scores from a SQLite database",
		Long: `Score prints the stored analysis for one subject, or lists stored
analyses lowest score first when no subject id is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return fmt.Errorf("--db is required")
			}
			db, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return fmt.Errorf("opening %s: %w", dbPath, err)
			}
			defer db.Close()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid subject id %q", args[0])
				}
				rec, err := db.GetAnalysis(cmd.Context(), id)
				if err != nil {
					return err
				}
				if rec == nil {
					return fmt.Errorf("no stored analysis for subject %d", id)
				}
				if jsonOutput {
					return writeJSON(cmd, rec)
				}
				fmt.Fprintf(out, "Subject %d: %d%% (%d suggestions, analyzed %s)\n",
					rec.SubjectID, rec.ScorePercentage, rec.SuggestionCount, rec.AnalyzedAt.Format("2006-01-02 15:04"))
				for _, code := range rec.Suggestions {
					fmt.Fprintf(out, "  %s\n", code)
				}
				return nil
			}

			filter := store.AnalysisFilter{Limit: limit}
			if cmd.Flags().Changed("max-score") {
				filter.MaxScore = &maxScore
			}
			recs, err := db.ListAnalyses(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, recs)
			}
			for _, rec := range recs {
				fmt.Fprintf(out, "%d\t%d%%\t%d suggestions\n", rec.SubjectID, rec.ScorePercentage, rec.SuggestionCount)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database written by analyze --db")
	cmd.Flags().Float64Var(&maxScore, "max-score", 1, "Only list analyses scoring at most this")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum analyses to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
