package ringlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelStringTokens(t *testing.T) {
	cases := map[Level]string{
		LevelTrace:   "TRACE",
		LevelDebug:   "DEBUG",
		LevelInfo:    "INFO",
		LevelWarning: "WARN",
		LevelError:   "ERROR",
		LevelFatal:   "FATAL",
		LevelStep:    "STEP",
	}
	for level, token := range cases {
		assert.Equal(t, token, level.String())
	}
}

func TestLevelStringOutOfRange(t *testing.T) {
	assert.Equal(t, "UNKNOWN", Level(-1).String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"trace":   LevelTrace,
		"DEBUG":   LevelDebug,
		" Info ":  LevelInfo,
		"warn":    LevelWarning,
		"WARNING": LevelWarning,
		"error":   LevelError,
		"fatal":   LevelFatal,
		"step":    LevelStep,
	}
	for input, expected := range cases {
		lv, err := ParseLevel(input)
		require.NoError(t, err)
		assert.Equal(t, expected, lv)
	}
}

func TestParseLevelInvalid(t *testing.T) {
	_, err := ParseLevel("bogus")
	assert.Error(t, err)
}

func TestLevelOrdering(t *testing.T) {
	assert.Less(t, LevelTrace, LevelDebug)
	assert.Less(t, LevelDebug, LevelInfo)
	assert.Less(t, LevelInfo, LevelWarning)
	assert.Less(t, LevelWarning, LevelError)
	assert.Less(t, LevelError, LevelFatal)
	assert.Less(t, LevelFatal, LevelStep)
}
