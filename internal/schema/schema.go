// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

// Package schema renders and inspects table definitions whose uid columns
// carry "(DC2Type:<name>)" comment hints. The hints are what allow Diff to
// tell a uid column apart from a plain GUID column with the same native
// SQL type.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/uidcolumn/internal/uidtype"
	"github.com/uptrace/bun/dialect"
)

// ErrUnsupported is returned for changes a dialect cannot apply in place.
var ErrUnsupported = errors.New("unsupported by dialect")

// Column describes one table column. Exactly one of Type and SQLType is set:
// Type names a registered uid column type, SQLType is a native type.
type Column struct {
	Name       string
	Type       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Comment    string
}

// Table is a named list of columns.
type Table struct {
	Name    string
	Columns []Column
}

// Renderer produces DDL for one dialect, resolving uid types through a
// registry.
type Renderer struct {
	Registry *uidtype.Registry
	Dialect  dialect.Name
}

// NewRenderer returns a renderer for d using the default registry.
func NewRenderer(d dialect.Name) *Renderer {
	return &Renderer{Registry: uidtype.Default(), Dialect: d}
}

// resolved is a column with its native type and final comment worked out.
type resolved struct {
	Column
	sqlType string
	comment string
}

func (r *Renderer) resolve(c Column) (resolved, error) {
	out := resolved{Column: c, sqlType: c.SQLType, comment: strings.TrimSpace(c.Comment)}
	if c.Type == "" {
		if c.SQLType == "" {
			return out, fmt.Errorf("column %s: no type", c.Name)
		}
		return out, nil
	}
	col, err := r.Registry.Lookup(c.Type)
	if err != nil {
		return out, fmt.Errorf("column %s: %w", c.Name, err)
	}
	out.sqlType = col.SQLDeclaration(r.Dialect)
	if col.RequiresSQLCommentHint() {
		out.comment = uidtype.AppendCommentHint(c.Comment, col.Name())
	}
	return out, nil
}

// CreateTableSQL returns the statements creating t. Postgres needs extra
// COMMENT ON COLUMN statements; sqlite and mysql keep comments inline.
func (r *Renderer) CreateTableSQL(t Table) ([]string, error) {
	var b strings.Builder
	var comments []string
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", r.quote(t.Name))
	for i, c := range t.Columns {
		rc, err := r.resolve(c)
		if err != nil {
			return nil, err
		}
		b.WriteString("\t")
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.columnDefinition(rc))
		b.WriteString("\n")
		if r.Dialect == dialect.PG && rc.comment != "" {
			comments = append(comments, r.commentOn(t.Name, rc))
		}
	}
	b.WriteString(")")
	return append([]string{b.String()}, comments...), nil
}

// AddColumnSQL returns the statements adding c to table.
func (r *Renderer) AddColumnSQL(table string, c Column) ([]string, error) {
	rc, err := r.resolve(c)
	if err != nil {
		return nil, err
	}
	// ALTER TABLE cannot add a primary key column in sqlite.
	rc.PrimaryKey = false
	out := []string{fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", r.quote(table), r.columnDefinition(rc))}
	if r.Dialect == dialect.PG && rc.comment != "" {
		out = append(out, r.commentOn(table, rc))
	}
	return out, nil
}

// SetCommentSQL returns the statements that rewrite the comment of an
// existing column so it carries its type hint.
func (r *Renderer) SetCommentSQL(table string, c Column) ([]string, error) {
	rc, err := r.resolve(c)
	if err != nil {
		return nil, err
	}
	switch r.Dialect {
	case dialect.PG:
		return []string{r.commentOn(table, rc)}, nil
	case dialect.MySQL:
		rc.PrimaryKey = false
		return []string{fmt.Sprintf("ALTER TABLE %s MODIFY %s", r.quote(table), r.columnDefinition(rc))}, nil
	default:
		return nil, fmt.Errorf("changing column comments on %s: %w", r.Dialect, ErrUnsupported)
	}
}

func (r *Renderer) columnDefinition(c resolved) string {
	var b strings.Builder
	b.WriteString(r.quote(c.Name))
	b.WriteString(" ")
	b.WriteString(c.sqlType)
	if c.Nullable {
		b.WriteString(" NULL")
	} else {
		b.WriteString(" NOT NULL")
	}
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if c.comment == "" {
		return b.String()
	}
	switch r.Dialect {
	case dialect.MySQL:
		b.WriteString(" COMMENT ")
		b.WriteString(quoteString(c.comment))
	case dialect.SQLite:
		// sqlite splices ADD COLUMN text in front of the closing paren of
		// the stored CREATE TABLE, so the comment must not run to end of line.
		b.WriteString(" /* ")
		b.WriteString(strings.ReplaceAll(c.comment, "*/", "* /"))
		b.WriteString(" */")
	}
	return b.String()
}

func (r *Renderer) commentOn(table string, c resolved) string {
	return fmt.Sprintf("COMMENT ON COLUMN %s.%s IS %s", r.quote(table), r.quote(c.Name), quoteString(c.comment))
}

func (r *Renderer) quote(ident string) string {
	if r.Dialect == dialect.MySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
