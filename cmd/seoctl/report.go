package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MikeSquared-Agency/Optimiser/internal/broker"
	"github.com/MikeSquared-Agency/Optimiser/internal/scoring"
)

func writeReport(w io.Writer, res *broker.Result) error {
	p := message.NewPrinter(language.English)

	status := "complete"
	switch {
	case res.Unchanged:
		status = "unchanged, stored result"
	case res.Partial:
		status = "partial, not stored"
	case !res.Complete:
		status = "incomplete"
	}
	p.Fprintf(w, "Subject %d: %d%% (%s)\n", res.SubjectID, res.ScorePercentage, status)
	if res.PersistError != "" {
		p.Fprintf(w, "warning: result not fully stored: %s\n", res.PersistError)
	}

	var bd scoring.Breakdown
	if len(res.Breakdown) > 0 {
		if err := json.Unmarshal(res.Breakdown, &bd); err != nil {
			return fmt.Errorf("decoding breakdown: %w", err)
		}
	}
	if len(bd.Contexts) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, c := range bd.Contexts {
			p.Fprintf(tw, "%s\t%3.0f%%\tweight %.2f\n", c.Name, c.Score*100, c.Weight)
			for _, f := range c.Factors {
				p.Fprintf(tw, "  %s\t%3.0f%%\tweight %.2f\n", f.Name, f.Score*100, f.Weight)
				for _, op := range f.Operations {
					mark := ""
					if op.State != scoring.StateScored {
						mark = " (" + string(op.State) + ")"
					}
					p.Fprintf(tw, "    %s\t%3.0f%%%s\tweight %.2f\n", op.Name, op.Score*100, mark, op.Weight)
				}
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(res.Actionable) == 0 {
		fmt.Fprintln(w, "\nNo suggestions.")
		return nil
	}
	p.Fprintf(w, "\n%d suggestions:\n", len(res.Actionable))
	for _, d := range res.Actionable {
		p.Fprintf(w, "  [%s] %s: %s\n", d.Priority, d.Code, d.Title)
	}
	return nil
}
