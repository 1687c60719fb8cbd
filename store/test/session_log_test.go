package test

import (
	"context"
	"testing"

	"github.com/lithammer/shortuuid/v4"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/rehearse/store"
)

func TestSessionLogStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	patientID := shortuuid.New()

	old := &store.SessionLog{SessionID: shortuuid.New(), PatientID: patientID, Payload: `{"turns":[]}`, CreatedTs: 100}
	_, err := ts.UpsertSessionLog(ctx, old)
	require.NoError(t, err)

	recent := &store.SessionLog{SessionID: shortuuid.New(), PatientID: patientID, Payload: `{"turns":[]}`, CreatedTs: 500}
	_, err = ts.UpsertSessionLog(ctx, recent)
	require.NoError(t, err)

	recent.Payload = `{"turns":[{"role":"user"}]}`
	_, err = ts.UpsertSessionLog(ctx, recent)
	require.NoError(t, err)

	list, err := ts.ListSessionLogs(ctx, &store.FindSessionLog{SessionID: &recent.SessionID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.JSONEq(t, `{"turns":[{"role":"user"}]}`, list[0].Payload)
	require.Equal(t, int64(500), list[0].CreatedTs)

	cutoff := int64(300)
	deleted, err := ts.DeleteSessionLogs(ctx, &store.DeleteSessionLog{CreatedBefore: &cutoff})
	require.NoError(t, err)
	require.GreaterOrEqual(t, deleted, int64(1))

	list, err = ts.ListSessionLogs(ctx, &store.FindSessionLog{PatientID: &patientID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, recent.SessionID, list[0].SessionID)

	_, err = ts.DeleteSessionLogs(ctx, &store.DeleteSessionLog{})
	require.Error(t, err)
}
