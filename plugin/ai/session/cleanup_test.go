package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hrygo/rehearse/plugin/ai/timeout"
)

func TestCleanupJob(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultConfig", func(t *testing.T) {
		job := NewCleanupJob(NewMockLogService(), CleanupConfig{})
		if job.config.RetentionDays != timeout.LogRetentionDays {
			t.Errorf("expected retention days %d, got %d", timeout.LogRetentionDays, job.config.RetentionDays)
		}
		if job.config.CleanupInterval != timeout.CleanupInterval {
			t.Errorf("expected interval %v, got %v", timeout.CleanupInterval, job.config.CleanupInterval)
		}
	})

	t.Run("RunOnce", func(t *testing.T) {
		mock := NewMockLogService()
		mock.Put(&SessionLog{SessionID: "old", PatientID: "p1", CreatedAt: time.Now().AddDate(0, 0, -10).Unix()})
		if err := mock.SaveLog(ctx, &SessionLog{SessionID: "new", PatientID: "p1"}); err != nil {
			t.Fatalf("SaveLog: %v", err)
		}

		job := NewCleanupJob(mock, CleanupConfig{RetentionDays: 7})
		deleted, err := job.RunOnce(ctx)
		if err != nil {
			t.Fatalf("RunOnce: %v", err)
		}
		if deleted != 1 {
			t.Errorf("expected 1 deleted, got %d", deleted)
		}
		if log, _ := mock.LoadLog(ctx, "new"); log == nil {
			t.Error("recent log should be kept")
		}
		if mock.CleanupDays[0] != 7 {
			t.Errorf("expected retention 7 passed through, got %d", mock.CleanupDays[0])
		}
	})

	t.Run("StartStop", func(t *testing.T) {
		mock := NewMockLogService()
		job := NewCleanupJob(mock, CleanupConfig{CleanupInterval: 10 * time.Millisecond})

		job.Start(ctx)
		job.Start(ctx)
		if !job.IsRunning() {
			t.Fatal("job should be running")
		}

		deadline := time.Now().Add(time.Second)
		for mock.CleanupCalls() < 2 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		if mock.CleanupCalls() < 2 {
			t.Errorf("expected at least 2 cleanup passes, got %d", mock.CleanupCalls())
		}

		job.Stop()
		job.Stop()
		if job.IsRunning() {
			t.Error("job should be stopped")
		}
		calls := mock.CleanupCalls()
		time.Sleep(30 * time.Millisecond)
		if mock.CleanupCalls() != calls {
			t.Error("no passes should run after Stop")
		}
	})

	t.Run("ErrorsAreLogged", func(t *testing.T) {
		mock := NewMockLogService()
		mock.CleanupErr = errors.New("db down")
		job := NewCleanupJob(mock, CleanupConfig{CleanupInterval: time.Hour})

		ctx, cancel := context.WithCancel(ctx)
		job.Start(ctx)
		deadline := time.Now().Add(time.Second)
		for mock.CleanupCalls() < 1 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		cancel()
		job.Stop()
		if mock.CleanupCalls() != 1 {
			t.Errorf("expected one initial pass, got %d", mock.CleanupCalls())
		}
	})
}
