package mdsf_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mdpipe/mdpipe/mdsf"
	"github.com/mdpipe/mdpipe/shell"
	"github.com/mdpipe/mdpipe/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() types.MdsfConfig {
	return types.MdsfConfig{Timeout: 5 * time.Second}
}

// stubMdsf installs a fake mdsf executable at the front of PATH.
func stubMdsf(t *testing.T, script string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "mdsf")

	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755)
	require.NoError(t, err)

	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// noMdsf empties PATH so any attempted lookup or spawn would fail loudly.
func noMdsf(t *testing.T) {
	t.Helper()
	t.Setenv("PATH", t.TempDir())
}

func TestFormatBlock_EmptyCodeSkipsInvocation(t *testing.T) {
	noMdsf(t)

	cfg := testConfig()
	cfg.FailOnError = true

	output, err := mdsf.FormatBlock(context.Background(), "", "python", cfg)
	require.NoError(t, err)
	assert.Equal(t, "", output)
}

func TestFormatBlock_DisabledLanguageSkipsInvocation(t *testing.T) {
	noMdsf(t)

	cfg := testConfig()
	cfg.Languages = []string{"python"}
	cfg.FailOnError = true

	output, err := mdsf.FormatBlock(context.Background(), "var x = 1;\n", "javascript", cfg)
	require.NoError(t, err)
	assert.Equal(t, "var x = 1;\n", output, "filtered block must come back byte-identical")
}

func TestFormatBlock_BinaryMissingFallsBack(t *testing.T) {
	noMdsf(t)

	output, err := mdsf.FormatBlock(context.Background(), "x = 1\n", "python", testConfig())
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", output)
}

func TestFormatBlock_BinaryMissingFailOnError(t *testing.T) {
	noMdsf(t)

	cfg := testConfig()
	cfg.FailOnError = true

	_, err := mdsf.FormatBlock(context.Background(), "x = 1\n", "python", cfg)
	require.Error(t, err)

	var missing *shell.ToolMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "mdsf", missing.Tool)
}

func TestFormatBlock_PassthroughRoundTrip(t *testing.T) {
	stubMdsf(t, "cat")

	tests := map[string]struct {
		code string
	}{
		"no trailing newline":  {code: "x=1"},
		"trailing newline":     {code: "x = 1\n"},
		"multiline":            {code: "def f():\n    return 1\n"},
		"inner blank line":     {code: "a = 1\n\nb = 2\n"},
		"fence-like content":   {code: "s = '````'\n"},
		"leading indentation":  {code: "    indented = True\n"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			output, err := mdsf.FormatBlock(context.Background(), tt.code, "python", testConfig())
			require.NoError(t, err)
			assert.Equal(t, tt.code, output)
		})
	}
}

func TestFormatBlock_TrailingNewlineRestored(t *testing.T) {
	// The stub echoes a fenced block without a trailing newline after the
	// code line; the original disposition must win.
	stubMdsf(t, `cat >/dev/null; printf '%s\n%s\n%s\n' '`+"```python' 'x = 1' '```'")

	output, err := mdsf.FormatBlock(context.Background(), "anything\n", "python", testConfig())
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", output)
}

func TestFormatBlock_FailureFallsBack(t *testing.T) {
	stubMdsf(t, "cat >/dev/null; exit 1")

	output, err := mdsf.FormatBlock(context.Background(), "x = 1\n", "python", testConfig())
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", output)
}

func TestFormatBlock_FailureFailOnError(t *testing.T) {
	stubMdsf(t, "cat >/dev/null; echo 'syntax error' >&2; exit 2")

	cfg := testConfig()
	cfg.FailOnError = true

	_, err := mdsf.FormatBlock(context.Background(), "x = 1\n", "python", cfg)
	require.Error(t, err)

	var failed *shell.CommandFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 2, failed.ExitCode)
	assert.Contains(t, failed.Stderr, "syntax error")
}

func TestFormatBlock_TimeoutFallsBack(t *testing.T) {
	stubMdsf(t, "cat >/dev/null; sleep 5")

	cfg := testConfig()
	cfg.Timeout = 200 * time.Millisecond

	output, err := mdsf.FormatBlock(context.Background(), "x = 1\n", "python", cfg)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", output)
}

func TestFormatBlock_TimeoutFailOnError(t *testing.T) {
	stubMdsf(t, "cat >/dev/null; sleep 5")

	cfg := testConfig()
	cfg.Timeout = 200 * time.Millisecond
	cfg.FailOnError = true

	_, err := mdsf.FormatBlock(context.Background(), "x = 1\n", "python", cfg)
	require.Error(t, err)

	var timedOut *shell.CommandTimedOutError
	assert.ErrorAs(t, err, &timedOut)
}

func TestFormatBlock_ConfigPathForwarded(t *testing.T) {
	// Fails unless invoked as: mdsf format --stdin --config <path>.
	stubMdsf(t, `[ "$1" = format ] && [ "$2" = --stdin ] && [ "$3" = --config ] && [ "$4" = /tmp/mdsf.json ] || exit 1
cat`)

	cfg := testConfig()
	cfg.ConfigPath = "/tmp/mdsf.json"
	cfg.FailOnError = true

	output, err := mdsf.FormatBlock(context.Background(), "x = 1\n", "python", cfg)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", output)
}

func TestFormatBlock_FormatterOutputReplacesCode(t *testing.T) {
	stubMdsf(t, "tr 'a-z' 'A-Z'")

	output, err := mdsf.FormatBlock(context.Background(), "x = value\n", "python", testConfig())
	require.NoError(t, err)
	assert.Equal(t, "X = VALUE\n", output)
}
