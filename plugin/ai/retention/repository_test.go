package retention

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/rehearse/store/test"
)

func TestStoreRepository(t *testing.T) {
	ctx := context.Background()
	ts := test.NewTestingStore(ctx, t)
	tr := NewTracker(NewStoreRepository(ts), "store-patient")

	when := time.Unix(1_750_000_000, 0)
	_, err := tr.Update(ctx, "f1", true, "family", when)
	require.NoError(t, err)
	rec, err := tr.Update(ctx, "f2", false, "family", when.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, 2, rec.TimesAsked)

	stored, err := tr.Get(ctx, "family")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, 1, stored.TimesCorrect)
	require.Equal(t, "f2", stored.FactID)
	require.Equal(t, when.Unix(), stored.FirstAskedAt.Unix())
	require.Equal(t, when.Add(time.Minute).Unix(), stored.LastAskedAt.Unix())

	missing, err := tr.Get(ctx, "pets")
	require.NoError(t, err)
	require.Nil(t, missing)

	for i, score := range []float64{85, 90, 88} {
		require.NoError(t, tr.RecordSession(ctx, &SessionRecord{
			StartedAt:  when.Add(time.Duration(i) * time.Hour),
			EndedAt:    when.Add(time.Duration(i)*time.Hour + 5*time.Minute),
			Total:      3,
			Correct:    2,
			Score:      score,
			Difficulty: Medium,
			Duration:   5 * time.Minute,
			Complete:   true,
			EndReason:  "completed",
		}))
	}

	tier, err := tr.NextDifficulty(ctx)
	require.NoError(t, err)
	require.Equal(t, Hard, tier)

	scores, err := tr.RecentScores(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{90, 88}, scores)

	sessions, err := NewStoreRepository(ts).ListSessions(ctx, "store-patient", 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, Medium, sessions[0].Difficulty)
	require.Equal(t, 5*time.Minute, sessions[0].Duration)
	require.True(t, sessions[0].Complete)
}
