package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/rehearse/internal/profile"
	"github.com/hrygo/rehearse/plugin/ai/input"
	"github.com/hrygo/rehearse/plugin/ai/judge"
	"github.com/hrygo/rehearse/plugin/ai/metrics"
	"github.com/hrygo/rehearse/plugin/ai/retention"
	"github.com/hrygo/rehearse/plugin/ai/session"
	"github.com/hrygo/rehearse/plugin/ai/trainer"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one recall session on the console",
	RunE:  runSession,
}

func init() {
	runCmd.Flags().String("name", "", "patient name used in the greeting")
	runCmd.Flags().String("difficulty", "", "force a difficulty tier (easy, medium, hard)")
	runCmd.Flags().Bool("skip-warmup", false, "start with the first question")
	if err := viper.BindPFlag("skip_warmup", runCmd.Flags().Lookup("skip-warmup")); err != nil {
		panic(err)
	}
}

func runSession(cmd *cobra.Command, _ []string) error {
	p := instanceProfile
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	h, err := openHost(ctx, p)
	if err != nil {
		return err
	}
	defer h.Close()

	cfg := trainer.ConfigFromProfile(p)
	cfg.PatientName, _ = cmd.Flags().GetString("name")
	if tier, _ := cmd.Flags().GetString("difficulty"); tier != "" {
		cfg.Difficulty = retention.ParseTier(tier)
	}

	collector := metrics.NewService(24 * time.Hour)
	deps := trainer.Deps{
		Facts:     h.facts(),
		Retention: h.tracker(),
		Input:     input.NewReaderChannel(cmd.InOrStdin(), cmd.OutOrStdout()),
		Metrics:   collector,
		Logs:      h.logs,
		Logger:    logger,
	}
	wireAI(&deps, p)

	tr, err := trainer.New(deps)
	if err != nil {
		return err
	}

	cleanup := session.NewCleanupJob(h.logs, session.CleanupConfig{RetentionDays: p.LogRetentionDays})

	var result *trainer.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)
		select {
		case s := <-sig:
			slog.Info("stopping session", "signal", s.String())
			cancel()
		case <-gctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		cleanup.Start(gctx)
		defer cleanup.Stop()

		var runErr error
		result, runErr = tr.RunSession(gctx, cfg)
		return runErr
	})
	err = g.Wait()
	if result != nil {
		printResult(cmd.OutOrStdout(), result)
	}
	if stats, statsErr := collector.GetStats(context.Background(), metrics.TimeRange{}); statsErr == nil {
		slog.Debug("session metrics",
			"attempts", stats.AttemptCount,
			"latency_p50", stats.LatencyP50,
			"latency_p95", stats.LatencyP95,
			"judge_success_rate", stats.JudgeSuccessRate)
	}
	return err
}

// wireAI attaches the OpenAI judge and phraser when the profile enables them.
func wireAI(deps *trainer.Deps, p *profile.Profile) {
	if !p.IsAIEnabled() {
		return
	}
	cfg := judge.OpenAIConfig{
		APIKey:            p.AIAPIKey,
		BaseURL:           p.AIBaseURL,
		Model:             p.AIModel,
		RequestsPerSecond: p.AIRequestsPerSecond,
	}
	deps.Semantic = judge.NewOpenAIJudge(cfg)
	deps.Phraser = judge.NewOpenAIPhraser(cfg)
	slog.Info("semantic judge enabled", "model", p.AIModel)
}

func printResult(w io.Writer, r *trainer.Result) {
	fmt.Fprintf(w, "\nSession %s (%s): %d/%d correct, %.0f%%, %d hints, %s\n",
		r.SessionID, r.Difficulty, r.Correct, r.Total, r.Score(), r.HintsUsed, r.Duration().Round(time.Second))
	for _, f := range r.Facts {
		fmt.Fprintf(w, "  %-10s %d attempt(s)  %s\n", f.Outcome, f.Attempts, f.Prompt)
	}
	if !r.Complete {
		fmt.Fprintln(w, "  session ended early:", r.EndReason)
	}
}
