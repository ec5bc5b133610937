package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMonitorScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netninja-monitor.sh")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

	require.NoError(t, writeMonitorScript(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	script := string(data)
	assert.True(t, strings.HasPrefix(script, "#!/bin/bash"))
	assert.Contains(t, script, `SESSION_NAME="netninja-monitor"`)
	assert.Contains(t, script, "ss -tuln")
	assert.Contains(t, script, "ip neigh show")
}

func TestWriteMonitorScriptBadPath(t *testing.T) {
	err := writeMonitorScript(filepath.Join(t.TempDir(), "missing", "script.sh"))

	assert.ErrorContains(t, err, "failed to create monitor script")
}
