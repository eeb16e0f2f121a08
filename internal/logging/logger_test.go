package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig("", "")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level)
	assert.Equal(t, FormatConsole, cfg.Format)

	cfg, err = ParseConfig("DEBUG", "json")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level)
	assert.Equal(t, FormatJSON, cfg.Format)

	_, err = ParseConfig("loud", "")
	assert.Error(t, err)
	_, err = ParseConfig("", "xml")
	assert.Error(t, err)
}

func TestComponentFieldPropagates(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.DebugLevel, Format: FormatJSON, Out: &buf})

	ctx := WithComponent(WithContext(context.Background(), logger), "dispatch")
	FromContext(ctx).Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "dispatch", line["component"])
	assert.Equal(t, "hello", line["message"])
}

func TestFromContextWithoutLoggerIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		FromContext(context.Background()).Error().Msg("dropped")
	})
}
