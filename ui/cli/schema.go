// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toeirei/uidcolumn/internal/db"
	"github.com/toeirei/uidcolumn/internal/i18n"
	"github.com/toeirei/uidcolumn/internal/logging"
	"github.com/toeirei/uidcolumn/internal/schema"
	"github.com/uptrace/bun/dialect"
)

// dialectFor maps a database type or dialect name onto a bun dialect.
func dialectFor(name string) (dialect.Name, error) {
	switch strings.ToLower(name) {
	case "postgres", "pg", "pgx":
		return dialect.PG, nil
	case "mysql":
		return dialect.MySQL, nil
	case "sqlite", "sqlite3":
		return dialect.SQLite, nil
	}
	return dialect.Invalid, fmt.Errorf("unsupported dialect: '%s'", name)
}

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Render and check the resources table schema",
	}

	var dialectName string
	ddl := &cobra.Command{
		Use:   "ddl",
		Short: "Print the CREATE TABLE statements with column type hints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dialectName == "" {
				dialectName = appConfig.Database.Type
			}
			d, err := dialectFor(dialectName)
			if err != nil {
				return err
			}
			r := &schema.Renderer{Registry: registry, Dialect: d}
			stmts, err := r.CreateTableSQL(db.ResourcesTable)
			if err != nil {
				return err
			}
			for _, stmt := range stmts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", stmt)
			}
			return nil
		},
	}
	ddl.Flags().StringVarP(&dialectName, "dialect", "d", "", `SQL dialect ("postgres", "mysql", "sqlite"); defaults to the configured database`)

	var apply bool
	diff := &cobra.Command{
		Use:   "diff",
		Short: "Compare the live resources table with its definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *db.Store) error {
				changes, err := s.SchemaDiff(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(changes) == 0 {
					fmt.Fprintln(out, i18n.T("schema.clean"))
					return nil
				}
				fmt.Fprintln(out, i18n.T("schema.changes", len(changes)))
				for _, ch := range changes {
					fmt.Fprintf(out, "  %s\n", ch)
				}
				fixes, err := s.Renderer().FixSQL(db.ResourcesTable, changes)
				if err != nil {
					logging.Warnf("cannot fix schema automatically: %v", err)
					return nil
				}
				for _, stmt := range fixes {
					fmt.Fprintf(out, "%s;\n", stmt)
					if !apply {
						continue
					}
					if _, err := s.Bun().ExecContext(cmd.Context(), stmt); err != nil {
						return fmt.Errorf("applying %q: %w", stmt, err)
					}
				}
				return nil
			})
		},
	}
	diff.Flags().BoolVar(&apply, "apply", false, "Execute the printed fix statements")

	cmd.AddCommand(ddl, diff)
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Open applies pending migrations.
			return withStore(cmd, func(s *db.Store) error {
				versions, err := s.AppliedMigrations(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, v := range versions {
					fmt.Fprintf(out, "  %s\n", v)
				}
				fmt.Fprintln(out, i18n.T("migrate.done", s.Type()))
				return nil
			})
		},
	}
}

func newMaintenanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "maintenance",
		Short: "Run engine-specific database maintenance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *db.Store) error {
				return s.Maintain(cmd.Context())
			})
		},
	}
}
