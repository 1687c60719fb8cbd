package retention

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/rehearse/internal/observability"
)

func TestUpdate_CreatesThenIncrements(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(NewMemoryRepository(), "p1")
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	rec, err := tr.Update(ctx, "f1", true, "", t0)
	require.NoError(t, err)
	assert.Equal(t, "f1", rec.TopicKey)
	assert.Equal(t, 1, rec.TimesAsked)
	assert.Equal(t, 1.0, rec.RetentionRate())
	assert.Equal(t, t0, rec.FirstAskedAt)

	t1 := t0.Add(time.Hour)
	rec, err = tr.Update(ctx, "f1", false, "", t1)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.TimesAsked)
	assert.Equal(t, 1, rec.TimesCorrect)
	assert.Equal(t, 0.5, rec.RetentionRate())
	assert.Equal(t, t0, rec.FirstAskedAt)
	assert.Equal(t, t1, rec.LastAskedAt)
}

func TestUpdate_TopicSharedAcrossFacts(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(NewMemoryRepository(), "p1")
	now := time.Now()

	_, err := tr.Update(ctx, "f1", true, "family", now)
	require.NoError(t, err)
	rec, err := tr.Update(ctx, "f2", false, "family", now)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.TimesAsked)
	assert.Equal(t, "f2", rec.FactID)

	missing, err := tr.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdate_IncorrectNeverRaisesRate(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(NewMemoryRepository(), "p1")
	now := time.Now()

	rate := 0.0
	for _, correct := range []bool{false, true, false, true, true, false} {
		rec, err := tr.Update(ctx, "f1", correct, "", now)
		require.NoError(t, err)
		if !correct {
			assert.LessOrEqual(t, rec.RetentionRate(), rate)
		}
		rate = rec.RetentionRate()
	}
}

func TestUpdate_Errors(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	tr := NewTracker(repo, "p1")

	repo.GetErr = errors.New("boom")
	_, err := tr.Update(ctx, "f1", true, "", time.Now())
	assert.Error(t, err)

	repo.GetErr = nil
	repo.SaveRecordErr = errors.New("disk full")
	_, err = tr.Update(ctx, "f1", true, "", time.Now())
	assert.EqualError(t, err, "disk full")
}

func TestClassify(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	tr := NewTracker(repo, "p1")
	now := time.Now()

	seed := map[string][]bool{
		"weak":   {false, false, true},
		"middle": {true, false, true, false, true},
		"strong": {true, true, true, true, false},
	}
	for key, outcomes := range seed {
		for _, ok := range outcomes {
			_, err := tr.Update(ctx, key, ok, "", now)
			require.NoError(t, err)
		}
	}
	_, err := NewTracker(repo, "other").Update(ctx, "foreign", false, "", now)
	require.NoError(t, err)

	c, err := tr.Classify(ctx)
	require.NoError(t, err)
	require.Len(t, c.Weak, 1)
	require.Len(t, c.Strong, 1)
	assert.Equal(t, "weak", c.Weak[0].TopicKey)
	assert.Equal(t, "strong", c.Strong[0].TopicKey)
}

func TestNextDifficultyAndRecentScores(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(NewMemoryRepository(), "p1")

	tier, err := tr.NextDifficulty(ctx)
	require.NoError(t, err)
	assert.Equal(t, Easy, tier)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, score := range []float64{20, 85, 90, 88} {
		require.NoError(t, tr.RecordSession(ctx, &SessionRecord{StartedAt: base.Add(time.Duration(i) * time.Hour), Score: score}))
	}

	scores, err := tr.RecentScores(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{85, 90, 88}, scores)

	tier, err = tr.NextDifficulty(ctx)
	require.NoError(t, err)
	assert.Equal(t, Medium, tier) // mean of 20, 85, 90, 88 is 70.75
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(NewMemoryRepository(), "p1", WithNow(func() time.Time { return now }))

	empty, err := tr.Report(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalSessions)
	assert.Equal(t, TrendStable, empty.Trend)
	assert.Len(t, empty.Recommendations, 1)

	sessions := []struct {
		daysAgo int
		score   float64
	}{
		{60, 100},
		{20, 40},
		{10, 60},
		{1, 70},
	}
	for _, s := range sessions {
		require.NoError(t, tr.RecordSession(ctx, &SessionRecord{StartedAt: now.AddDate(0, 0, -s.daysAgo), Score: s.score}))
	}
	_, err = tr.Update(ctx, "f1", false, "", now)
	require.NoError(t, err)

	r, err := tr.Report(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 3, r.TotalSessions)
	assert.Equal(t, []float64{40, 60, 70}, r.ScoreHistory)
	assert.InDelta(t, 56.67, r.AverageScore, 0.01)
	assert.Equal(t, 40.0, r.FirstScore)
	assert.Equal(t, 70.0, r.LatestScore)
	assert.Equal(t, 30.0, r.Improvement)
	assert.Equal(t, TrendImproving, r.Trend)
	assert.Equal(t, Easy, r.NextDifficulty)
	assert.Len(t, r.Weak, 1)
	assert.NotEmpty(t, r.Recommendations)

	all, err := tr.Report(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, all.TotalSessions)
	assert.Equal(t, TrendDeclining, all.Trend)
}

func TestUpdate_LogsSessionFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := observability.WithSessionContext(context.Background(),
		observability.NewSessionContextWithID(logger, "s-7", "p1"))
	tr := NewTracker(NewMemoryRepository(), "p1")

	_, err := tr.Update(ctx, "f1", true, "family", time.Now())
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "retention updated", line["msg"])
	assert.Equal(t, "s-7", line[observability.LogFieldSessionID])
	assert.Equal(t, "p1", line[observability.LogFieldPatientID])
	assert.Equal(t, "family", line["topic_key"])
}
