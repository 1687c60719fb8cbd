// Command rehearse hosts adaptive memory-recall sessions on the console.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/rehearse/internal/profile"
	"github.com/hrygo/rehearse/plugin/ai/timeout"
)

var (
	instanceProfile *profile.Profile
	logger          *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rehearse",
	Short: "Adaptive memory-recall training",
	Long: `rehearse asks a patient short questions about their own life, climbs a
hint ladder on misses and adapts the difficulty of the next session to how
well recent sessions went.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		p, err := profileFromViper()
		if err != nil {
			return err
		}
		instanceProfile = p
		logger = newLogger(p.LogLevel, p.LogFormat, cmd.ErrOrStderr())
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("mode", "dev", `mode of the host, can be "prod" or "dev" or "demo"`)
	flags.String("data", "", "data directory")
	flags.String("driver", "sqlite", "database driver (sqlite or postgres)")
	flags.String("dsn", "", "database source name")
	flags.String("patient", "default", "patient id")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text or json)")

	for key, flag := range map[string]string{
		"mode":       "mode",
		"data":       "data",
		"driver":     "driver",
		"dsn":        "dsn",
		"patient_id": "patient",
		"log_level":  "log-level",
		"log_format": "log-format",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetDefault("fact_batch_size", 0)
	viper.SetDefault("warmup_timeout", timeout.WarmupTimeout)
	viper.SetDefault("attempt_timeout", timeout.AttemptTimeout)
	viper.SetDefault("session_timeout", timeout.SessionTimeout)
	viper.SetDefault("max_attempts", timeout.MaxAttempts)
	viper.SetDefault("input_retries", timeout.InputRetries)
	viper.SetDefault("warmup_retries", timeout.WarmupRetries)
	viper.SetDefault("log_retention_days", timeout.LogRetentionDays)
	viper.SetDefault("ai_base_url", "https://api.openai.com/v1")
	viper.SetDefault("ai_model", "gpt-4o-mini")
	viper.SetDefault("ai_rps", 1.0)

	viper.SetEnvPrefix("rehearse")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(runCmd, seedCmd, reportCmd, cleanupCmd)
}

// profileFromViper builds and validates the host profile from flags and REHEARSE_* variables.
func profileFromViper() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:      viper.GetString("mode"),
		Data:      viper.GetString("data"),
		Driver:    viper.GetString("driver"),
		DSN:       viper.GetString("dsn"),
		Version:   version,
		PatientID: viper.GetString("patient_id"),
		LogLevel:  viper.GetString("log_level"),
		LogFormat: viper.GetString("log_format"),

		FactBatchSize:    viper.GetInt("fact_batch_size"),
		WarmupTimeout:    viper.GetDuration("warmup_timeout"),
		AttemptTimeout:   viper.GetDuration("attempt_timeout"),
		SessionTimeout:   viper.GetDuration("session_timeout"),
		MaxAttempts:      viper.GetInt("max_attempts"),
		InputRetries:     viper.GetInt("input_retries"),
		WarmupRetries:    viper.GetInt("warmup_retries"),
		LogRetentionDays: viper.GetInt("log_retention_days"),
		SkipWarmup:       viper.GetBool("skip_warmup"),

		AIEnabled:           viper.GetBool("ai_enabled"),
		AIAPIKey:            viper.GetString("ai_api_key"),
		AIBaseURL:           viper.GetString("ai_base_url"),
		AIModel:             viper.GetString("ai_model"),
		AIRequestsPerSecond: viper.GetFloat64("ai_rps"),

		RedisAddr:     viper.GetString("redis_addr"),
		RedisPassword: viper.GetString("redis_password"),
		RedisDB:       viper.GetInt("redis_db"),
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	return p, nil
}

func newLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
