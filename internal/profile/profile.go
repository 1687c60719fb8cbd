package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/rehearse/plugin/ai/timeout"
)

// Profile is the configuration to start a training host.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Data is the data directory
	Data string
	// DSN points to where rehearse stores facts, retention and session logs
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of the host
	Version string
	// PatientID partitions facts, retention records and history per patient
	PatientID string
	// LogLevel is one of debug, info, warn, error
	LogLevel string
	// LogFormat is text or json
	LogFormat string

	// Session defaults
	FactBatchSize       int           // REHEARSE_FACT_BATCH_SIZE (default: 0, derive from difficulty tier)
	WarmupTimeout       time.Duration // REHEARSE_WARMUP_TIMEOUT (default: 5m)
	AttemptTimeout      time.Duration // REHEARSE_ATTEMPT_TIMEOUT (default: 60s)
	SessionTimeout      time.Duration // REHEARSE_SESSION_TIMEOUT (default: 30m)
	MaxAttempts         int           // REHEARSE_MAX_ATTEMPTS (default: 3)
	InputRetries        int           // REHEARSE_INPUT_RETRIES (default: 2)
	WarmupRetries       int           // REHEARSE_WARMUP_RETRIES (default: 3)
	LogRetentionDays    int           // REHEARSE_LOG_RETENTION_DAYS (default: 90)
	SkipWarmup          bool          // REHEARSE_SKIP_WARMUP (default: false)

	// Semantic judge configuration
	AIEnabled           bool    // REHEARSE_AI_ENABLED
	AIAPIKey            string  // REHEARSE_AI_API_KEY
	AIBaseURL           string  // REHEARSE_AI_BASE_URL (default: https://api.openai.com/v1)
	AIModel             string  // REHEARSE_AI_MODEL (default: gpt-4o-mini)
	AIRequestsPerSecond float64 // REHEARSE_AI_RPS (default: 1)

	// Optional Redis L2 cache for session logs
	RedisAddr     string // REHEARSE_REDIS_ADDR (empty disables Redis)
	RedisPassword string // REHEARSE_REDIS_PASSWORD
	RedisDB       int    // REHEARSE_REDIS_DB
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if the semantic judge is enabled and has an API key.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && p.AIAPIKey != ""
}

// IsRedisEnabled returns true if a Redis address is configured.
func (p *Profile) IsRedisEnabled() bool {
	return p.RedisAddr != ""
}

// FromEnv loads configuration from REHEARSE_* environment variables.
// Fields already set on the profile are kept when the variable is absent.
func (p *Profile) FromEnv() {
	p.Mode = envString("REHEARSE_MODE", p.Mode, "dev")
	p.Data = envString("REHEARSE_DATA", p.Data, "")
	p.Driver = envString("REHEARSE_DRIVER", p.Driver, "sqlite")
	p.DSN = envString("REHEARSE_DSN", p.DSN, "")
	p.PatientID = envString("REHEARSE_PATIENT_ID", p.PatientID, "default")
	p.LogLevel = envString("REHEARSE_LOG_LEVEL", p.LogLevel, "info")
	p.LogFormat = envString("REHEARSE_LOG_FORMAT", p.LogFormat, "text")

	p.FactBatchSize = envInt("REHEARSE_FACT_BATCH_SIZE", p.FactBatchSize, 0)
	p.WarmupTimeout = envDuration("REHEARSE_WARMUP_TIMEOUT", p.WarmupTimeout, timeout.WarmupTimeout)
	p.AttemptTimeout = envDuration("REHEARSE_ATTEMPT_TIMEOUT", p.AttemptTimeout, timeout.AttemptTimeout)
	p.SessionTimeout = envDuration("REHEARSE_SESSION_TIMEOUT", p.SessionTimeout, timeout.SessionTimeout)
	p.MaxAttempts = envInt("REHEARSE_MAX_ATTEMPTS", p.MaxAttempts, timeout.MaxAttempts)
	p.InputRetries = envInt("REHEARSE_INPUT_RETRIES", p.InputRetries, timeout.InputRetries)
	p.WarmupRetries = envInt("REHEARSE_WARMUP_RETRIES", p.WarmupRetries, timeout.WarmupRetries)
	p.LogRetentionDays = envInt("REHEARSE_LOG_RETENTION_DAYS", p.LogRetentionDays, timeout.LogRetentionDays)
	if v := os.Getenv("REHEARSE_SKIP_WARMUP"); v != "" {
		p.SkipWarmup = v == "true"
	}

	if v := os.Getenv("REHEARSE_AI_ENABLED"); v != "" {
		p.AIEnabled = v == "true"
	}
	p.AIAPIKey = envString("REHEARSE_AI_API_KEY", p.AIAPIKey, "")
	p.AIBaseURL = envString("REHEARSE_AI_BASE_URL", p.AIBaseURL, "https://api.openai.com/v1")
	p.AIModel = envString("REHEARSE_AI_MODEL", p.AIModel, "gpt-4o-mini")
	if p.AIRequestsPerSecond == 0 {
		p.AIRequestsPerSecond = 1
	}
	if v := os.Getenv("REHEARSE_AI_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			p.AIRequestsPerSecond = f
		}
	}

	p.RedisAddr = envString("REHEARSE_REDIS_ADDR", p.RedisAddr, "")
	p.RedisPassword = envString("REHEARSE_REDIS_PASSWORD", p.RedisPassword, "")
	p.RedisDB = envInt("REHEARSE_REDIS_DB", p.RedisDB, 0)
}

func envString(key, current, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if current != "" {
		return current
	}
	return defaultValue
}

func envInt(key string, current, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("ignoring invalid integer env", "key", key, "value", v)
	}
	if current != 0 {
		return current
	}
	return defaultValue
}

func envDuration(key string, current, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("ignoring invalid duration env", "key", key, "value", v)
	}
	if current != 0 {
		return current
	}
	return defaultValue
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unknown driver %q: only 'sqlite' and 'postgres' are supported", p.Driver)
	}
	if p.PatientID == "" {
		return errors.New("patient id is required")
	}
	if p.MaxAttempts < 1 {
		return errors.Errorf("max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.AttemptTimeout <= 0 || p.SessionTimeout <= 0 || p.WarmupTimeout <= 0 {
		return errors.New("warm-up, attempt and session timeouts must be positive")
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "rehearse")
		} else {
			p.Data = "/var/opt/rehearse"
		}
	}
	if p.Data == "" {
		p.Data = "."
	}
	if p.Mode == "prod" {
		if _, err := os.Stat(p.Data); os.IsNotExist(err) {
			if err := os.MkdirAll(p.Data, 0770); err != nil {
				slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
				return err
			}
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("rehearse_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
