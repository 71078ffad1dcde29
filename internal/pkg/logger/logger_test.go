package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}

func TestConfigure_JSONOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: WarnLevel, Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true}) })

	Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	Warn().Str("component", "booking").Msg("visible")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "booking", entry["component"])
	assert.Equal(t, "visible", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: DebugLevel, Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true}) })

	l := WithField("requestId", "abc")
	l.Debug().Msg("hello")

	assert.Contains(t, buf.String(), `"requestId":"abc"`)
}
