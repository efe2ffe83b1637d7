package logger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir stands in for t.Chdir, which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Log("dropped")
	l.Logf("dropped %d", 1)
	assert.Nil(t, l.Lines())
}

func TestLogStoresStampedLines(t *testing.T) {
	chdir(t, t.TempDir())
	l := New()
	l.Log("first")
	l.Logf("second %d", 2)

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first")
	assert.Contains(t, lines[1], "second 2")
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} `, lines[0])
}

func TestLinesReturnsCopy(t *testing.T) {
	chdir(t, t.TempDir())
	l := New()
	l.Log("one")
	lines := l.Lines()
	lines[0] = "mutated"
	assert.Contains(t, l.Lines()[0], "one")
}
