package logger

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var info, errs bytes.Buffer
	SetWriters(&info, &errs)
	previous := GetLevel()
	t.Cleanup(func() {
		SetWriters(os.Stdout, os.Stderr)
		SetLevel(previous)
	})
	return &info, &errs
}

func TestLevelsAreFiltered(t *testing.T) {
	info, errs := capture(t)
	SetLevel(WARN)

	Info("hidden")
	Warn("shown", 3)
	Error("failed", errors.New("boom"))

	assert.NotContains(t, info.String(), "hidden")
	assert.Contains(t, info.String(), "[WARN] logger_test.go")
	assert.Contains(t, info.String(), "shown 3")
	assert.Contains(t, errs.String(), "failed boom")
}

func TestNonPrimitiveArgumentsAreRenderedAsJSON(t *testing.T) {
	info, _ := capture(t)
	SetLevel(DEBUG)

	Debug("standing", map[string]int{"points": 7})

	out := info.String()
	assert.Contains(t, out, "[Object of type map[string]int]")
	assert.Contains(t, out, `"points": 7`)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, WARN, l)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestSetLogOutputRejectsUnknownTarget(t *testing.T) {
	assert.Error(t, SetLogOutput('x'))
}
