// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestResolveBuildVersion_WithBuildInfo(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/toeirei/uidcolumn", Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2025-01-01T00:00:00Z"},
		},
	}

	v, c, d := resolveBuildVersion(info)
	if v != "v1.2.3" {
		t.Fatalf("expected version v1.2.3, got %s", v)
	}
	if c != "deadbeef" {
		t.Fatalf("expected commit deadbeef, got %s", c)
	}
	if d != "2025-01-01T00:00:00Z" {
		t.Fatalf("expected date set, got %s", d)
	}
}

func TestResolveBuildVersion_DependencyFallback(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/toeirei/uidcolumn", Version: "(devel)"},
		Deps: []*debug.Module{
			{Path: "github.com/toeirei/uidcolumn", Version: "v0.3.1-0.20251130131337-d1692e4643ee"},
		},
	}
	v, _, _ := resolveBuildVersion(info)
	if v != "v0.3.1-0.20251130131337-d1692e4643ee" {
		t.Fatalf("expected dependency version fallback got %s", v)
	}
}

func TestResolveBuildVersion_GitCommitFallback(t *testing.T) {
	orig := gitCommit
	defer func() { gitCommit = orig }()
	gitCommit = "deadbeef"
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/toeirei/uidcolumn", Version: "(devel)"},
	}
	v, _, _ := resolveBuildVersion(info)
	if v != "deadbeef" {
		t.Fatalf("expected gitCommit fallback got %s", v)
	}
}

func TestGetConfigPathFromCli(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{}
		cmd.Flags().String("config", "", "config file")
		return cmd
	}

	t.Run("flag not set", func(t *testing.T) {
		p, err := getConfigPathFromCli(newCmd())
		if err != nil || p != nil {
			t.Fatalf("expected nil path and no error, got %v, %v", p, err)
		}
	})

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "uidcolumn.yaml")
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatal(err)
		}
		cmd := newCmd()
		_ = cmd.Flags().Set("config", path)
		p, err := getConfigPathFromCli(cmd)
		if err != nil || p == nil || *p != path {
			t.Fatalf("expected %s, got %v, %v", path, p, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		cmd := newCmd()
		_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "nope.yaml"))
		if _, err := getConfigPathFromCli(cmd); err == nil {
			t.Fatalf("expected error for missing config file")
		}
	})
}

func TestVersionCommand(t *testing.T) {
	out := mustExecute(t, "version")
	if !strings.Contains(out, "version: ") || !strings.Contains(out, "commit: ") {
		t.Fatalf("unexpected version output: %q", out)
	}
}

func TestSetup_WritesDefaultConfig(t *testing.T) {
	flags := setupTestEnv(t)
	mustExecute(t, append(flags, "types")...)

	data, err := os.ReadFile(filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "uidcolumn", "uidcolumn.yaml"))
	if err != nil {
		t.Fatalf("expected default config to be written: %v", err)
	}
	if !strings.Contains(string(data), "language: en") {
		t.Fatalf("unexpected default config:\n%s", data)
	}
}

func TestSetup_ColumnTypeAliasesFromConfig(t *testing.T) {
	flags := setupTestEnv(t)
	path := filepath.Join(t.TempDir(), "uidcolumn.yaml")
	cfg := "language: de\ncolumn_types:\n  order_id: uuid_v4\n"
	if err := os.WriteFile(path, []byte(cfg), 0600); err != nil {
		t.Fatal(err)
	}

	out := mustExecute(t, append(flags, "--config", path, "types")...)
	if !strings.Contains(out, "order_id") || !strings.Contains(out, "(DC2Type:order_id)") {
		t.Fatalf("expected alias in types output:\n%s", out)
	}

	bad := filepath.Join(t.TempDir(), "uidcolumn.yaml")
	if err := os.WriteFile(bad, []byte("column_types:\n  uuid: ulid\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := executeCommand(t, append(flags, "--config", bad, "types")...); err == nil {
		t.Fatalf("expected rebinding a built-in type to fail")
	}
}

func TestSetup_InvalidLogLevel(t *testing.T) {
	flags := setupTestEnv(t)
	if _, err := executeCommand(t, append(flags, "--log-level", "loud", "types")...); err == nil {
		t.Fatalf("expected error for invalid log level")
	}
}
