// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/toeirei/uidcolumn/internal/uid"
)

func TestTypesCommand(t *testing.T) {
	flags := setupTestEnv(t)
	out := mustExecute(t, append(flags, "types")...)
	for _, want := range []string{"uuid", "ulid", "uuid_v7", "UUID", "CHAR(36)", "(DC2Type:ulid)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("types output missing %q:\n%s", want, out)
		}
	}
}

func TestConvertCommand(t *testing.T) {
	flags := setupTestEnv(t)
	const canonical = "9f3b1a5c-8b3e-4e9a-9c2a-9b1e2f3a4b5c"

	cases := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"to-db canonicalizes case", []string{"convert", "to-db", strings.ToUpper(canonical)}, canonical, false},
		{"to-db empty is null", []string{"convert", "to-db", ""}, "NULL", false},
		{"to-db rejects garbage", []string{"convert", "to-db", "not-a-uuid"}, "", true},
		{"to-app uuid", []string{"convert", "to-app", canonical}, canonical, false},
		{"to-app rejects garbage", []string{"convert", "to-app", "not-a-uuid"}, "", true},
		{"unknown type", []string{"convert", "to-db", "--type", "nope", canonical}, "", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := executeCommand(t, append(flags, c.args...)...)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error, got output %q", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.TrimSpace(out) != c.want {
				t.Fatalf("got %q want %q", strings.TrimSpace(out), c.want)
			}
		})
	}
}

func TestConvertCommand_ErrorNamesValue(t *testing.T) {
	flags := setupTestEnv(t)
	_, err := executeCommand(t, append(flags, "convert", "to-db", "not-a-uuid")...)
	if err == nil || !strings.Contains(err.Error(), "not-a-uuid") {
		t.Fatalf("expected error naming the value, got %v", err)
	}
}

func TestConvertCommand_ULIDForms(t *testing.T) {
	flags := setupTestEnv(t)
	u := uid.NewULID()

	out := mustExecute(t, append(flags, "convert", "to-db", "--type", "ulid", u.String())...)
	if strings.TrimSpace(out) != u.RFC4122() {
		t.Fatalf("to-db: got %q want %q", out, u.RFC4122())
	}
	out = mustExecute(t, append(flags, "convert", "to-app", "--type", "ulid", u.RFC4122())...)
	if strings.TrimSpace(out) != u.String() {
		t.Fatalf("to-app: got %q want %q", out, u.String())
	}
}

func TestGenerateCommand(t *testing.T) {
	flags := setupTestEnv(t)

	var copied string
	prev := clipboardWrite
	defer func() { clipboardWrite = prev }()
	clipboardWrite = func(s string) error { copied = s; return nil }

	out := mustExecute(t, append(flags, "generate", "--type", "uuid_v4", "--count", "3", "--copy")...)
	var values []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if uid.IsValidUUIDVersion(line, 4) {
			values = append(values, line)
		}
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 v4 values, got:\n%s", out)
	}
	if copied != strings.Join(values, "\n") {
		t.Fatalf("clipboard got %q", copied)
	}

	clipboardWrite = func(string) error { return errors.New("no clipboard") }
	if _, err := executeCommand(t, append(flags, "generate", "--copy")...); err == nil {
		t.Fatalf("expected clipboard error to surface")
	}
	if _, err := executeCommand(t, append(flags, "generate", "--count", "0")...); err == nil {
		t.Fatalf("expected error for --count 0")
	}
}

func TestInspectCommand(t *testing.T) {
	flags := setupTestEnv(t)
	v, err := uid.NewUUIDv7()
	if err != nil {
		t.Fatal(err)
	}

	out := mustExecute(t, append(flags, "inspect", v.RFC4122())...)
	for _, want := range []string{"uuid_v7", v.Base32(), "version: 7", "time:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "uuid_v4") {
		t.Fatalf("a v7 value must not be accepted by uuid_v4:\n%s", out)
	}

	if _, err := executeCommand(t, append(flags, "inspect", "not-a-uuid")...); err == nil {
		t.Fatalf("expected error for a value no type accepts")
	}
}

func TestSchemaDDLCommand(t *testing.T) {
	flags := setupTestEnv(t)
	cases := map[string]string{
		"postgres": "COMMENT ON COLUMN",
		"mysql":    "COMMENT '(DC2Type:uuid)'",
		"sqlite":   "/* (DC2Type:uuid) */",
	}
	for d, want := range cases {
		out := mustExecute(t, append(flags, "schema", "ddl", "--dialect", d)...)
		if !strings.Contains(out, want) {
			t.Fatalf("%s ddl missing %q:\n%s", d, want, out)
		}
	}
	if _, err := executeCommand(t, append(flags, "schema", "ddl", "--dialect", "oracle")...); err == nil {
		t.Fatalf("expected error for unsupported dialect")
	}
}
