// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/toeirei/uidcolumn/internal/schema"
	"github.com/uptrace/bun"
)

// migrationRecord maps the schema_migrations ledger.
type migrationRecord struct {
	bun.BaseModel `bun:"table:schema_migrations"`
	Version       string    `bun:"version,pk,type:varchar(191)"`
	AppliedAt     time.Time `bun:"applied_at,notnull"`
}

type migration struct {
	version string
	up      func(ctx context.Context, tx bun.Tx, r *schema.Renderer) error
}

// migrations are applied in order; versions must never be renamed.
var migrations = []migration{
	{"000001_create_resources", func(ctx context.Context, tx bun.Tx, r *schema.Renderer) error {
		stmts, err := r.CreateTableSQL(ResourcesTable)
		if err != nil {
			return err
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}},
	{"000002_resources_parent_index", func(ctx context.Context, tx bun.Tx, _ *schema.Renderer) error {
		_, err := tx.NewCreateIndex().Table("resources").Index("resources_parent_id_idx").Column("parent_id").Exec(ctx)
		return err
	}},
	{"000003_resources_trace_index", func(ctx context.Context, tx bun.Tx, _ *schema.Renderer) error {
		_, err := tx.NewCreateIndex().Table("resources").Index("resources_trace_id_idx").Column("trace_id").Exec(ctx)
		return err
	}},
}

// RunMigrations applies every migration not yet recorded in
// schema_migrations, each in its own transaction.
func (s *Store) RunMigrations(ctx context.Context) error {
	start := time.Now()
	dbLogf("db: starting migrations for %s", s.dbType)

	if _, err := s.bun.NewCreateTable().Model((*migrationRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	r := s.Renderer()
	for _, m := range migrations {
		applied, err := s.migrationApplied(ctx, m.version)
		if err != nil {
			return fmt.Errorf("failed to check migration version %s: %w", m.version, err)
		}
		if applied {
			continue
		}
		err = s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := m.up(ctx, tx, r); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", m.version, err)
			}
			rec := &migrationRecord{Version: m.version, AppliedAt: time.Now().UTC()}
			if _, err := tx.NewInsert().Model(rec).Exec(ctx); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		dbLogf("db: applied migration %s", m.version)
	}
	dbLogf("db: applied migrations for %s in %s", s.dbType, time.Since(start))
	return nil
}

func (s *Store) migrationApplied(ctx context.Context, version string) (bool, error) {
	var rec migrationRecord
	err := s.bun.NewSelect().Model(&rec).Where("version = ?", version).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// AppliedMigrations lists the recorded migration versions in order.
func (s *Store) AppliedMigrations(ctx context.Context) ([]string, error) {
	var versions []string
	err := s.bun.NewSelect().Model((*migrationRecord)(nil)).Column("version").Order("version").Scan(ctx, &versions)
	return versions, err
}
