package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var entries []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var e map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	return entries
}

func TestNew_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{Output: &buf})
	logger.Info("test message", "key", "value")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "ts")
	assert.Equal(t, "test message", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
}

func TestNew_DebugLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&Config{Output: &buf}).Debug("hidden")
	assert.Empty(t, buf.String())

	New(&Config{Output: &buf, Debug: true}).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestDebugFromEnv(t *testing.T) {
	t.Setenv("SUGGESTMSG_DEBUG", "1")
	assert.True(t, DebugFromEnv())
	t.Setenv("SUGGESTMSG_DEBUG", "")
	assert.False(t, DebugFromEnv())
}

func TestWithInvocation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, id := WithInvocation(New(&Config{Output: &buf}))
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	LogPrompt(logger, "$ git commit -m \"")
	LogResponse(logger, []byte(`{"choices":[]}`), false)

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, id, e["invocation"])
	}
	assert.Equal(t, "$ git commit -m \"", entries[0]["prompt"])
	assert.Equal(t, `{"choices":[]}`, entries[1]["body"])
	assert.Equal(t, false, entries[1]["cached"])
}

func TestLogFailure_IncludesReportSite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	LogFailure(New(&Config{Output: &buf}), errors.New("boom"))

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.Equal(t, "boom", entries[0]["error"])
	assert.True(t, strings.Contains(entries[0]["report_site"].(string), "goroutine"))
	assert.NotContains(t, entries[0], "stack")
}

func TestLogFailure_RecordsErrorChain(t *testing.T) {
	t.Parallel()

	root := os.ErrNotExist
	wrapped := fmt.Errorf("completion request: %w", fmt.Errorf("reading key: %w", root))

	var buf bytes.Buffer
	LogFailure(New(&Config{Output: &buf}), wrapped)

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 1)
	chain, ok := entries[0]["chain"].([]any)
	require.True(t, ok, "chain should be a JSON array, got %T", entries[0]["chain"])
	require.Len(t, chain, 3)
	assert.Equal(t, "*fmt.wrapError: completion request: reading key: file does not exist", chain[0])
	assert.Equal(t, "*fmt.wrapError: reading key: file does not exist", chain[1])
	assert.Equal(t, "*errors.errorString: file does not exist", chain[2])
}

func TestErrorChain_Joined(t *testing.T) {
	t.Parallel()

	a, b := errors.New("a"), errors.New("b")
	chain := errorChain(fmt.Errorf("outer: %w", errors.Join(a, b)))
	require.Len(t, chain, 4)
	assert.Equal(t, "*errors.errorString: a", chain[2])
	assert.Equal(t, "*errors.errorString: b", chain[3])
}

func TestOpen_Appends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "suggestmsg.log")
	for i := 0; i < 2; i++ {
		logger, closer, err := Open(path, false)
		require.NoError(t, err)
		logger.Info("run")
		require.NoError(t, closer.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, decodeLines(t, data), 2)
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { Discard().Error("nothing") })
}
