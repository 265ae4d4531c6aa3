// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
)

// setupTestEnv isolates config discovery in a temp directory and returns
// flags pointing the CLI at a fresh sqlite file.
func setupTestEnv(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	return []string{"--db-type", "sqlite", "--db-dsn", filepath.Join(dir, "uidcolumn.db")}
}

// executeCommand runs a fresh root command and captures its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// mustExecute fails the test when the command returns an error.
func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := executeCommand(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\noutput:\n%s", args, err, out)
	}
	return out
}
