package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

func TestFindBinaryEnvVarWins(t *testing.T) {
	path := writeExecutable(t, t.TempDir(), "tool")
	t.Setenv("TEST_TOOL_BINARY", path)

	got, err := FindBinary("tool-that-does-not-exist", "TEST_TOOL_BINARY")
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFindBinaryEnvVarNotExecutable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	t.Setenv("TEST_TOOL_BINARY", path)

	_, err := FindBinary("tool-that-does-not-exist", "TEST_TOOL_BINARY")
	assert.Error(t, err)
}

func TestFindBinaryOnPath(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, dir, "findme")
	t.Setenv("PATH", dir)

	got, err := FindBinary("findme", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "findme"), got)
}

func TestFindBinaryMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := FindBinary("definitely-not-here", "")
	assert.Error(t, err)
}
