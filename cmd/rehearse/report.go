package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/hrygo/rehearse/plugin/ai/retention"
	"github.com/hrygo/rehearse/plugin/ai/review"
	"github.com/hrygo/rehearse/plugin/ai/session"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show progress, weak and strong topics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		days, _ := cmd.Flags().GetInt("days")
		limit, _ := cmd.Flags().GetInt("logs")

		h, err := openHost(cmd.Context(), instanceProfile)
		if err != nil {
			return err
		}
		defer h.Close()

		report, err := h.tracker().Report(cmd.Context(), days)
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), report)

		stats, err := h.facts().GetStats(cmd.Context())
		if err != nil {
			return err
		}
		printFactStats(cmd.OutOrStdout(), stats)

		if limit > 0 {
			logs, err := h.logs.ListLogs(cmd.Context(), instanceProfile.PatientID, limit)
			if err != nil {
				return err
			}
			printLogs(cmd.OutOrStdout(), logs)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().Int("days", 30, "reporting window in days, 0 for all history")
	reportCmd.Flags().Int("logs", 5, "number of recent session logs to list")
}

func printReport(w io.Writer, r *retention.Report) {
	if r.TotalSessions == 0 {
		fmt.Fprintln(w, "No sessions yet.")
	} else {
		fmt.Fprintf(w, "Sessions: %d  average %.0f%%  first %.0f%%  latest %.0f%%  (%s, %+.0f)\n",
			r.TotalSessions, r.AverageScore, r.FirstScore, r.LatestScore, r.Trend, r.Improvement)
	}
	fmt.Fprintf(w, "Next difficulty: %s\n", r.NextDifficulty)
	printRecords(w, "Needs practice", r.Weak)
	printRecords(w, "Well retained", r.Strong)
	for _, rec := range r.Recommendations {
		fmt.Fprintln(w, "-", rec)
	}
}

func printFactStats(w io.Writer, s *review.FactStats) {
	fmt.Fprintf(w, "Facts: %d total  %d new  %d mastered  %d practiced today  streak %d days\n",
		s.TotalFacts, s.NewFacts, s.MasteredFacts, s.PracticedToday, s.StreakDays)
	if s.TotalPractices > 0 {
		fmt.Fprintf(w, "Practice: %d answers  %d%% accuracy\n", s.TotalPractices, s.AverageAccuracy)
	}
}

func printRecords(w io.Writer, title string, records []*retention.Record) {
	if len(records) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, rec := range records {
		fmt.Fprintf(w, "  %-20s %3.0f%% of %d\n", rec.TopicKey, rec.RetentionRate()*100, rec.TimesAsked)
	}
}

func printLogs(w io.Writer, logs []session.LogSummary) {
	if len(logs) == 0 {
		return
	}
	fmt.Fprintln(w, "Recent sessions:")
	for _, l := range logs {
		fmt.Fprintf(w, "  %s  %s  %d/%d\n",
			time.Unix(l.UpdatedAt, 0).Format(time.DateTime), l.SessionID, l.Correct, l.Total)
	}
}
