package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hrygo/rehearse/plugin/ai/timeout"
)

// CleanupConfig configures the cleanup job.
type CleanupConfig struct {
	RetentionDays   int           // default timeout.LogRetentionDays
	CleanupInterval time.Duration // default timeout.CleanupInterval
}

// CleanupJob periodically deletes expired session logs.
type CleanupJob struct {
	logs   LogService
	config CleanupConfig

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewCleanupJob creates a cleanup job over logs.
func NewCleanupJob(logs LogService, config CleanupConfig) *CleanupJob {
	if config.RetentionDays <= 0 {
		config.RetentionDays = timeout.LogRetentionDays
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = timeout.CleanupInterval
	}
	return &CleanupJob{logs: logs, config: config}
}

// Start runs one cleanup immediately, then one per interval, until Stop or
// ctx is done. Calling Start on a running job does nothing.
func (j *CleanupJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return
	}
	j.running = true
	j.stop = make(chan struct{})
	j.done = make(chan struct{})
	go j.run(ctx, j.stop, j.done)

	slog.Info("session log cleanup job started",
		"retention_days", j.config.RetentionDays,
		"interval", j.config.CleanupInterval)
}

// Stop halts the job and waits for the running pass to finish.
func (j *CleanupJob) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	close(j.stop)
	done := j.done
	j.running = false
	j.mu.Unlock()

	<-done
	slog.Info("session log cleanup job stopped")
}

// RunOnce performs a single cleanup pass.
func (j *CleanupJob) RunOnce(ctx context.Context) (int64, error) {
	return j.logs.CleanupExpired(ctx, j.config.RetentionDays)
}

// IsRunning reports whether the job loop is active.
func (j *CleanupJob) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

func (j *CleanupJob) run(ctx context.Context, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.config.CleanupInterval)
	defer ticker.Stop()

	j.pass(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			j.pass(ctx)
		}
	}
}

func (j *CleanupJob) pass(ctx context.Context) {
	deleted, err := j.RunOnce(ctx)
	if err != nil {
		slog.Error("session log cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("session log cleanup completed", "deleted", deleted)
	}
}
