package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_WritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "info", Pretty: true}) })

	Debug().Msg("hidden")
	Info().Str("courseCode", "CS101").Msg("Course added")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "CS101", entry["courseCode"])
	assert.Equal(t, "Course added", entry["message"])
	assert.Equal(t, ServiceName, entry["service"])
}

func TestComponent_TagsEntries(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "DEBUG", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "info", Pretty: true}) })

	lgr := Component("enrollment")
	lgr.Debug().Msg("checking")

	assert.Contains(t, buf.String(), `"component":"enrollment"`)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, LevelFor("debug"))
	assert.Equal(t, zerolog.ErrorLevel, LevelFor(" Error "))
	assert.Equal(t, zerolog.InfoLevel, LevelFor("verbose"))
	assert.Equal(t, zerolog.InfoLevel, LevelFor(""))
}
