package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/scribe/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics from the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		recent, _ := cmd.Flags().GetInt("recent")

		s, err := openJournal(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmdContext(cmd)
		stats, err := s.EventRepo().PracticeStats(ctx)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		w := cmd.OutOrStdout()
		if len(stats) == 0 {
			fmt.Fprintln(w, "No practice recorded yet.")
			return nil
		}

		fmt.Fprintln(w, "Practice by Level")
		fmt.Fprintln(w, strings.Repeat("─", 66))
		fmt.Fprintf(w, "%-12s  %-14s  %8s  %8s  %8s  %9s\n",
			"Language", "Level", "Attempts", "Failed", "Strokes", "Formation")
		fmt.Fprintln(w, strings.Repeat("─", 66))
		for _, st := range stats {
			fmt.Fprintf(w, "%-12s  %-14s  %8d  %8d  %7.0f%%  %8.0f%%\n",
				truncate(st.Language, 12), truncate(st.Level, 14),
				st.Attempts, st.Failures, st.AvgStrokeScore, st.AvgFormationScore)
		}

		if recent <= 0 {
			return nil
		}
		events, err := s.EventRepo().QueryAnalyses(ctx, store.QueryOpts{Limit: recent})
		if err != nil {
			return fmt.Errorf("query analyses: %w", err)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Recent Attempts")
		fmt.Fprintln(w, strings.Repeat("─", 66))
		for _, e := range events {
			fmt.Fprintf(w, "%s  %-10s %-4s  %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(e.Language, 10), e.Character, attemptSummary(e))
		}
		return nil
	},
}

func attemptSummary(e store.AnalysisEvent) string {
	switch {
	case e.ErrorMessage != "":
		return "failed: " + e.ErrorMessage
	case !e.Recognized:
		return "reply not recognized"
	}
	parts := []string{fmt.Sprintf("%d strokes", e.StrokeCount)}
	if e.StrokeScore != nil {
		parts = append(parts, fmt.Sprintf("strokes %d%%", *e.StrokeScore))
	}
	if e.FormationScore != nil {
		parts = append(parts, fmt.Sprintf("formation %d%%", *e.FormationScore))
	}
	if e.OverallScore != nil {
		parts = append(parts, fmt.Sprintf("overall %d%%", *e.OverallScore))
	}
	return strings.Join(parts, ", ")
}

func init() {
	statsCmd.Flags().IntP("recent", "n", 10, "Number of recent attempts to list (0 to hide)")
}
