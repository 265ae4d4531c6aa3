// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/toeirei/uidcolumn/internal/uid"
)

// createdID extracts the id from the output of "resource add".
func createdID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	for i := len(fields) - 1; i >= 0; i-- {
		if uid.IsValidUUID(fields[i]) {
			return fields[i]
		}
	}
	t.Fatalf("no id in output %q", out)
	return ""
}

func TestResourceCommands(t *testing.T) {
	flags := setupTestEnv(t)
	run := func(args ...string) string {
		t.Helper()
		return mustExecute(t, append(flags, args...)...)
	}

	if out := run("resource", "list"); !strings.Contains(out, "no resources") {
		t.Fatalf("expected empty list, got:\n%s", out)
	}

	trace := uid.NewULID()
	rootID := createdID(t, run("resource", "add", "root", "--trace", trace.String()))
	childID := createdID(t, run("resource", "add", "child", "--parent", strings.ToUpper(rootID)))

	out := run("resource", "get", rootID)
	var got struct {
		ID      string  `json:"id"`
		Name    string  `json:"name"`
		Parent  *string `json:"parent_id"`
		TraceID string  `json:"trace_id"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("resource get is not JSON: %v\n%s", err, out)
	}
	if got.ID != rootID || got.Name != "root" || got.Parent != nil || got.TraceID != trace.RFC4122() {
		t.Fatalf("unexpected resource: %+v", got)
	}

	out = run("resource", "children", rootID)
	if !strings.Contains(out, childID) || !strings.Contains(out, "child") {
		t.Fatalf("children output missing child:\n%s", out)
	}
	out = run("resource", "list", "--trace", trace.RFC4122())
	if !strings.Contains(out, rootID) || strings.Contains(out, childID) {
		t.Fatalf("trace filter output unexpected:\n%s", out)
	}

	backup := filepath.Join(t.TempDir(), "resources.jsonl.zst")
	if out := run("export", backup); !strings.Contains(out, "exported 2") {
		t.Fatalf("unexpected export output: %s", out)
	}

	run("resource", "delete", childID)
	if _, err := executeCommand(t, append(flags, "resource", "get", childID)...); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	if out := run("import", backup); !strings.Contains(out, "imported 1") {
		t.Fatalf("expected only the deleted resource to be restored: %s", out)
	}
	run("resource", "get", childID)
}

func TestResourceCommands_InvalidInput(t *testing.T) {
	flags := setupTestEnv(t)
	cases := [][]string{
		{"resource", "get", "not-a-uuid"},
		{"resource", "delete", "not-a-uuid"},
		{"resource", "add", "x", "--parent", uid.MustParseUUID("9f3b1a5c-8b3e-4e9a-9c2a-9b1e2f3a4b5c").RFC4122()},
		{"resource", "add", "x", "--trace", "nope"},
		{"resource", "list", "--trace", "nope"},
	}
	for _, args := range cases {
		if _, err := executeCommand(t, append(flags, args...)...); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestMigrateAndSchemaDiff(t *testing.T) {
	flags := setupTestEnv(t)

	out := mustExecute(t, append(flags, "migrate")...)
	if !strings.Contains(out, "000001_create_resources") || !strings.Contains(out, "sqlite") {
		t.Fatalf("unexpected migrate output:\n%s", out)
	}
	out = mustExecute(t, append(flags, "schema", "diff")...)
	if !strings.Contains(out, "schema is up to date") {
		t.Fatalf("expected clean diff:\n%s", out)
	}
	mustExecute(t, append(flags, "maintenance")...)
}
