package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithRequestID(context.Background(), "req-123")
	ctx = log.WithFields(ctx, map[string]any{"partner_id": 7})

	log.Error(ctx, "boom", errors.New("kaput"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, float64(7), entry["partner_id"])
	assert.Equal(t, "kaput", entry["error"])
	assert.Equal(t, "test", entry["service"])
	assert.Equal(t, "error", entry["level"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("warn"), Output: buf})

	log.Info(context.Background(), "quiet")
	assert.Zero(t, buf.Len())

	log.Warn(context.Background(), "loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestParseLevelDefaults(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("invalid"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Error(context.Background(), "nothing", errors.New("x"))
}
