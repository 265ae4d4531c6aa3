// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package db // import "github.com/toeirei/uidcolumn/internal/db"

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/toeirei/uidcolumn/internal/schema"
	"github.com/toeirei/uidcolumn/internal/uidtype"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// Pool defaults, conservative for small deployments.
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 60 * time.Second
)

// Options configures Open. Zero pool values select the defaults.
type Options struct {
	Type            string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// Registry resolves uid column types for ids, schema rendering and
	// diffs; nil selects uidtype.Default(). uidtype.Null model fields
	// always convert through uidtype.Default() regardless of this setting.
	Registry *uidtype.Registry
}

// Store is a bun-backed store for one database.
type Store struct {
	bun      *bun.DB
	dbType   string
	registry *uidtype.Registry
}

// driverName maps a database type onto its database/sql driver name. The
// pgx stdlib registers driver name "pgx".
func driverName(dbType string) (string, error) {
	switch dbType {
	case "sqlite", "mysql":
		return dbType, nil
	case "postgres":
		return "pgx", nil
	}
	return "", fmt.Errorf("unsupported database type: '%s'", dbType)
}

// Open opens the database described by opts, applies pending migrations
// and returns a Store.
func Open(ctx context.Context, opts Options) (*Store, error) {
	drv, err := driverName(opts.Type)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	sqlDB, err := sqlOpenFunc(drv, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpen := valueOr(opts.MaxOpenConns, defaultMaxOpenConns)
	maxIdle := valueOr(opts.MaxIdleConns, defaultMaxIdleConns)
	// An in-memory sqlite database exists per connection; keep a single one
	// so schema changes stay visible.
	if opts.Type == "sqlite" && isMemoryDSN(opts.DSN) {
		maxOpen, maxIdle = 1, 1
	}
	connMax := defaultConnMaxLifetime
	if opts.ConnMaxLifetime > 0 {
		connMax = opts.ConnMaxLifetime
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(connMax)
	sqlDB.SetConnMaxIdleTime(defaultConnMaxIdleTime)
	dbLogf("db: opened %s driver in %s (conn max open=%d, idle=%d, maxLifetime=%s)", drv, time.Since(start), maxOpen, maxIdle, connMax)

	reg := opts.Registry
	if reg == nil {
		reg = uidtype.Default()
	}
	s := &Store{bun: createBunDB(sqlDB, opts.Type), dbType: opts.Type, registry: reg}

	migStart := time.Now()
	if err := s.RunMigrations(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	dbLogf("db: migrations for %s completed in %s", opts.Type, time.Since(migStart))
	return s, nil
}

func valueOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory") || strings.HasPrefix(dsn, "file::memory:")
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and dbType.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.bun.Close()
}

// Bun exposes the underlying *bun.DB.
func (s *Store) Bun() *bun.DB {
	return s.bun
}

// Type returns the database type the store was opened with.
func (s *Store) Type() string {
	return s.dbType
}

// Renderer returns a schema renderer for the store's dialect and registry.
func (s *Store) Renderer() *schema.Renderer {
	return &schema.Renderer{Registry: s.registry, Dialect: s.bun.Dialect().Name()}
}

// Maintain performs engine-specific maintenance. For SQLite this runs PRAGMA
// optimize, VACUUM and a WAL checkpoint. For Postgres it runs VACUUM ANALYZE.
// For MySQL it runs OPTIMIZE TABLE for all tables.
func (s *Store) Maintain(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	switch s.dbType {
	case "sqlite":
		// PRAGMA optimize may not be useful on in-memory databases; ignore failures.
		if _, err := s.bun.ExecContext(ctx, "PRAGMA optimize"); err != nil {
			dbLogf("db: sqlite optimize failed (ignored): %v", err)
		}
		if _, err := s.bun.ExecContext(ctx, "VACUUM"); err != nil {
			return fmt.Errorf("sqlite vacuum failed: %w", err)
		}
		_, _ = s.bun.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
		var res string
		if err := s.bun.NewRaw("PRAGMA integrity_check").Scan(ctx, &res); err != nil {
			return fmt.Errorf("sqlite integrity_check failed: %w", err)
		}
		if res != "ok" {
			return fmt.Errorf("sqlite integrity_check failed: %s", res)
		}
	case "postgres":
		if _, err := s.bun.ExecContext(ctx, "VACUUM ANALYZE"); err != nil {
			return fmt.Errorf("postgres vacuum failed: %w", err)
		}
	case "mysql":
		var tables []string
		if err := s.bun.NewRaw("SHOW TABLES").Scan(ctx, &tables); err != nil {
			return fmt.Errorf("mysql show tables failed: %w", err)
		}
		var lastErr error
		for _, table := range tables {
			if _, err := s.bun.NewRaw("OPTIMIZE TABLE ?", bun.Ident(table)).Exec(ctx); err != nil {
				// Non-fatal per table: remember the last error and continue.
				dbLogf("db: mysql optimize table %s failed: %v", table, err)
				lastErr = err
			}
		}
		if lastErr != nil {
			return fmt.Errorf("mysql optimize encountered errors: %w", lastErr)
		}
	default:
		return fmt.Errorf("unsupported db type for maintenance: %s", s.dbType)
	}
	return nil
}
