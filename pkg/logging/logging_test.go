package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	ll := &slog.LevelVar{}
	ll.Set(slog.LevelWarn)

	logger := slog.New(NewHandler(&buf, ll, false))
	logger.Info("hidden")
	logger.Warn("Loaded shard", "file", "assets-0000.pxl")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Loaded shard")
	assert.Contains(t, out, "file=assets-0000.pxl")
	assert.NotContains(t, out, "\x1b[", "no escape codes without color")

	ll.Set(slog.LevelDebug)
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestSetup(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	ll, err := Setup("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, ll.Level())

	_, err = Setup("nope")
	assert.Error(t, err)
}
