package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("warn", "json", &buf)

	l.Info("hidden")
	l.Warn("shown", "fact_id", "f1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "f1", entry["fact_id"])
	assert.False(t, l.Enabled(context.Background(), -4))
}

func TestProfileFromViper(t *testing.T) {
	t.Setenv("REHEARSE_ATTEMPT_TIMEOUT", "45s")
	t.Setenv("REHEARSE_MAX_ATTEMPTS", "4")
	viper.Set("data", t.TempDir())
	viper.Set("patient_id", "margaret")
	t.Cleanup(func() {
		viper.Set("data", "")
		viper.Set("patient_id", "default")
	})

	p, err := profileFromViper()
	require.NoError(t, err)
	assert.Equal(t, "margaret", p.PatientID)
	assert.Equal(t, 45*time.Second, p.AttemptTimeout)
	assert.Equal(t, 4, p.MaxAttempts)
	assert.Equal(t, "sqlite", p.Driver)
	assert.Contains(t, p.DSN, "rehearse_dev.db")
}
