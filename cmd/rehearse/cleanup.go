package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hrygo/rehearse/plugin/ai/session"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete session logs past retention",
	RunE: func(cmd *cobra.Command, _ []string) error {
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			days = instanceProfile.LogRetentionDays
		}

		h, err := openHost(cmd.Context(), instanceProfile)
		if err != nil {
			return err
		}
		defer h.Close()

		job := session.NewCleanupJob(h.logs, session.CleanupConfig{RetentionDays: days})
		deleted, err := job.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d session logs older than %d days\n", deleted, days)
		return nil
	},
}

func init() {
	cleanupCmd.Flags().Int("days", 0, "retention in days, 0 uses the profile setting")
}
