package test

import (
	"context"
	"testing"

	"github.com/lithammer/shortuuid/v4"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/rehearse/store"
)

func TestTrainingSessionStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	patientID := shortuuid.New()

	for i, score := range []float64{40, 60, 80} {
		_, err := ts.CreateTrainingSession(ctx, &store.TrainingSession{
			ID:              shortuuid.New(),
			PatientID:       patientID,
			StartedTs:       int64(1000 + i*100),
			EndedTs:         int64(1050 + i*100),
			Total:           5,
			Correct:         int32(score / 20),
			ScorePercentage: score,
			Difficulty:      "easy",
			DurationSeconds: 50,
			Complete:        true,
			EndReason:       "completed",
		})
		require.NoError(t, err)
	}

	list, err := ts.ListTrainingSessions(ctx, &store.FindTrainingSession{PatientID: &patientID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, 80.0, list[0].ScorePercentage)
	require.Equal(t, 60.0, list[1].ScorePercentage)
	require.True(t, list[0].Complete)
}
