// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open(context.Background(), Options{Type: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("expected error for unsupported database type")
	}
}

func TestOpen_SQLOpenFailure(t *testing.T) {
	prev := sqlOpenFunc
	defer func() { sqlOpenFunc = prev }()
	sqlOpenFunc = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }

	if _, err := Open(context.Background(), Options{Type: "sqlite", DSN: ":memory:"}); err == nil {
		t.Fatalf("expected Open to surface the sql.Open error")
	}
}

func TestDriverName(t *testing.T) {
	cases := map[string]string{"sqlite": "sqlite", "mysql": "mysql", "postgres": "pgx"}
	for in, want := range cases {
		got, err := driverName(in)
		if err != nil || got != want {
			t.Fatalf("driverName(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.RunMigrations(ctx); err != nil {
		t.Fatalf("second RunMigrations failed: %v", err)
	}
	versions, err := s.AppliedMigrations(ctx)
	if err != nil {
		t.Fatalf("AppliedMigrations failed: %v", err)
	}
	if len(versions) != len(migrations) {
		t.Fatalf("expected %d applied migrations, got %v", len(migrations), versions)
	}
	for i, m := range migrations {
		if versions[i] != m.version {
			t.Fatalf("migration %d: got %s want %s", i, versions[i], m.version)
		}
	}
}

func TestMaintain_SQLite(t *testing.T) {
	s := newTestStore(t)
	if err := s.Maintain(context.Background()); err != nil {
		t.Fatalf("Maintain failed: %v", err)
	}
}

func TestSchemaDiff_CleanAfterMigrations(t *testing.T) {
	s := newTestStore(t)
	changes, err := s.SchemaDiff(context.Background())
	if err != nil {
		t.Fatalf("SchemaDiff failed: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("expected no drift after migrations, got %+v", changes)
	}
}
