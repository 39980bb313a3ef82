package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestMask(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      string
	}{
		{description: "empty", input: "", expect: ""},
		{description: "short", input: "T1", expect: "***"},
		{description: "jwt", input: "eyJhbGciOiJIUzI1NiJ9.payload.sig", expect: "eyJh....sig"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, Mask(testCase.input), testCase.description)
	}
}

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("DEBUG")
	assert.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)
	level, err = parseLevel("")
	assert.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level)
	_, err = parseLevel("verbose")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	log, err := New(&Config{Level: "warn"})
	assert.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.ErrorLevel))
	assert.NotNil(t, OrNop(nil))
}
