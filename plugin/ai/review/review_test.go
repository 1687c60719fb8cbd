package review

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hrygo/rehearse/internal/observability"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, n int) (*Service, []*Fact) {
	t.Helper()
	svc := NewService(NewMemoryRepository(), "p-1", WithNow(func() time.Time { return base }))
	facts := make([]*Fact, 0, n)
	for i := 0; i < n; i++ {
		f, err := svc.Add(context.Background(), &Fact{
			Prompt: fmt.Sprintf("question %d", i),
			Answer: fmt.Sprintf("answer %d", i),
		})
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		facts = append(facts, f)
	}
	return svc, facts
}

func TestSelect_OrdersByLastPracticedThenInsertion(t *testing.T) {
	svc, facts := newTestService(t, 4)
	ctx := context.Background()

	// facts[0] practiced latest, facts[2] earlier; 1 and 3 never practiced.
	if _, err := svc.RecordOutcome(ctx, facts[2].ID, true, base.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RecordOutcome(ctx, facts[0].ID, true, base.Add(2*time.Hour)); err != nil {
		t.Fatal(err)
	}

	got, err := svc.Select(ctx, 4)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	want := []string{facts[1].ID, facts[3].ID, facts[2].ID, facts[0].ID}
	for i, f := range got {
		if f.ID != want[i] {
			t.Errorf("Select()[%d] = %s, want %s", i, f.ID, want[i])
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].LastPracticedAt.Before(got[i-1].LastPracticedAt) {
			t.Errorf("Select() not ascending at %d", i)
		}
	}
}

func TestSelect_RecordedFactDoesNotReappear(t *testing.T) {
	svc, _ := newTestService(t, 4)
	ctx := context.Background()
	const k = 3

	for round := 0; round < 5; round++ {
		batch, err := svc.Select(ctx, k)
		if err != nil {
			t.Fatal(err)
		}
		practiced := batch[0].ID
		if _, err := svc.RecordOutcome(ctx, practiced, false, base.Add(time.Duration(round+1)*time.Minute)); err != nil {
			t.Fatal(err)
		}

		next, err := svc.Select(ctx, k)
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range next {
			if f.ID == practiced {
				t.Errorf("round %d: fact %s reappeared right after practice", round, practiced)
			}
		}
	}
}

func TestSelect_NonPositiveK(t *testing.T) {
	svc, _ := newTestService(t, 2)
	got, err := svc.Select(context.Background(), 0)
	if err != nil || len(got) != 0 {
		t.Errorf("Select(0) = %v, %v; want empty", got, err)
	}
}

func TestRecordOutcome_FirstCorrect(t *testing.T) {
	svc, facts := newTestService(t, 1)

	f, err := svc.RecordOutcome(context.Background(), facts[0].ID, true, base)
	if err != nil {
		t.Fatalf("RecordOutcome() error = %v", err)
	}
	if f.PracticeCount != 1 {
		t.Errorf("PracticeCount = %d, want 1", f.PracticeCount)
	}
	if f.SuccessRate != 1.0 {
		t.Errorf("SuccessRate = %f, want 1.0", f.SuccessRate)
	}
	if !f.LastPracticedAt.Equal(base) {
		t.Errorf("LastPracticedAt = %v, want %v", f.LastPracticedAt, base)
	}
}

func TestRecordOutcome_RunningAverage(t *testing.T) {
	svc, facts := newTestService(t, 1)
	ctx := context.Background()
	id := facts[0].ID

	outcomes := []bool{true, false, false, true}
	var f *Fact
	var err error
	for i, correct := range outcomes {
		f, err = svc.RecordOutcome(ctx, id, correct, base.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatal(err)
		}
	}
	if f.PracticeCount != 4 {
		t.Errorf("PracticeCount = %d, want 4", f.PracticeCount)
	}
	if f.SuccessRate != 0.5 {
		t.Errorf("SuccessRate = %f, want 0.5", f.SuccessRate)
	}
}

func TestRecordOutcome_LastPracticedOnlyMovesForward(t *testing.T) {
	svc, facts := newTestService(t, 1)
	ctx := context.Background()
	id := facts[0].ID

	later := base.Add(time.Hour)
	if _, err := svc.RecordOutcome(ctx, id, true, later); err != nil {
		t.Fatal(err)
	}
	f, err := svc.RecordOutcome(ctx, id, true, base)
	if err != nil {
		t.Fatal(err)
	}
	if !f.LastPracticedAt.Equal(later) {
		t.Errorf("LastPracticedAt moved backwards to %v", f.LastPracticedAt)
	}
	if f.PracticeCount != 2 {
		t.Errorf("PracticeCount = %d, want 2", f.PracticeCount)
	}
}

func TestRecordOutcome_NotFound(t *testing.T) {
	svc, _ := newTestService(t, 1)

	_, err := svc.RecordOutcome(context.Background(), "missing", true, base)
	if !errors.Is(err, ErrFactNotFound) {
		t.Errorf("RecordOutcome() error = %v, want ErrFactNotFound", err)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false, want true")
	}
}

func TestGet_OtherPatientIsNotFound(t *testing.T) {
	repo := NewMemoryRepository()
	alice := NewService(repo, "alice")
	bob := NewService(repo, "bob")

	f, err := alice.Add(context.Background(), &Fact{Prompt: "q", Answer: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bob.Get(context.Background(), f.ID); !errors.Is(err, ErrFactNotFound) {
		t.Errorf("bob.Get() error = %v, want ErrFactNotFound", err)
	}
	batch, _ := bob.Select(context.Background(), 5)
	if len(batch) != 0 {
		t.Errorf("bob.Select() returned %d facts of another patient", len(batch))
	}
}

func TestAdd_Validation(t *testing.T) {
	svc, _ := newTestService(t, 0)
	if _, err := svc.Add(context.Background(), &Fact{Prompt: "  ", Answer: "a"}); err == nil {
		t.Error("expected error for empty prompt")
	}
}

func TestFact_TopicKey(t *testing.T) {
	if got := (&Fact{ID: "f-1"}).TopicKey(); got != "f-1" {
		t.Errorf("TopicKey() = %s, want f-1", got)
	}
	if got := (&Fact{ID: "f-1", Topic: "family"}).TopicKey(); got != "family" {
		t.Errorf("TopicKey() = %s, want family", got)
	}
}

func TestGetStats(t *testing.T) {
	svc, facts := newTestService(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.RecordOutcome(ctx, facts[0].ID, true, base); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.RecordOutcome(ctx, facts[1].ID, false, base.AddDate(0, 0, -1)); err != nil {
		t.Fatal(err)
	}

	stats, err := svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalFacts != 3 || stats.NewFacts != 1 {
		t.Errorf("TotalFacts/NewFacts = %d/%d, want 3/1", stats.TotalFacts, stats.NewFacts)
	}
	if stats.MasteredFacts != 1 {
		t.Errorf("MasteredFacts = %d, want 1", stats.MasteredFacts)
	}
	if stats.PracticedToday != 1 {
		t.Errorf("PracticedToday = %d, want 1", stats.PracticedToday)
	}
	if stats.StreakDays != 2 {
		t.Errorf("StreakDays = %d, want 2", stats.StreakDays)
	}
	if stats.TotalPractices != 4 {
		t.Errorf("TotalPractices = %d, want 4", stats.TotalPractices)
	}
	if stats.AverageAccuracy != 50 {
		t.Errorf("AverageAccuracy = %d, want 50", stats.AverageAccuracy)
	}
}

func TestCalculateStreak(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"empty", nil, 0},
		{"today only", []string{"2026-03-10"}, 1},
		{"yesterday start", []string{"2026-03-09", "2026-03-08"}, 2},
		{"gap", []string{"2026-03-10", "2026-03-08"}, 1},
		{"stale", []string{"2026-03-01"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := make(map[string]bool)
			for _, d := range tt.dates {
				dates[d] = true
			}
			if got := calculateStreak(dates, today); got != tt.want {
				t.Errorf("calculateStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecordOutcome_LogsSessionFields(t *testing.T) {
	svc, facts := newTestService(t, 1)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sc := observability.NewSessionContextWithID(logger, "s-9", "p-1")
	ctx := observability.WithSessionContext(context.Background(), sc)

	if _, err := svc.RecordOutcome(ctx, facts[0].ID, true, base); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"session_id":"s-9"`, `"fact_id":"` + facts[0].ID + `"`, "fact outcome recorded"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %s", out, want)
		}
	}
}
