// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// ColumnInfo is a column as found in a live database.
type ColumnInfo struct {
	Name     string
	SQLType  string
	Nullable bool
	Comment  string
}

type columnRow struct {
	Name       string `bun:"name"`
	SQLType    string `bun:"sql_type"`
	IsNullable string `bun:"is_nullable"`
	Comment    string `bun:"comment"`
}

const (
	pgColumnsQuery = `SELECT c.column_name AS name, c.data_type AS sql_type, c.is_nullable AS is_nullable,
	COALESCE(col_description(format('%I.%I', c.table_schema, c.table_name)::regclass::oid, c.ordinal_position), '') AS comment
FROM information_schema.columns c
WHERE c.table_schema = current_schema() AND c.table_name = ?
ORDER BY c.ordinal_position`

	mysqlColumnsQuery = `SELECT COLUMN_NAME AS name, COLUMN_TYPE AS sql_type, IS_NULLABLE AS is_nullable, COLUMN_COMMENT AS comment
FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION`

	sqliteColumnsQuery = `SELECT name, type AS sql_type, CASE WHEN "notnull" = 0 AND pk = 0 THEN 'YES' ELSE 'NO' END AS is_nullable, '' AS comment
FROM pragma_table_info(?)
ORDER BY cid`

	sqliteTableSQLQuery = `SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`
)

// Inspect reads the columns of table from a live database. An empty result
// means the table does not exist.
func Inspect(ctx context.Context, db bun.IDB, table string) ([]ColumnInfo, error) {
	var query string
	switch db.Dialect().Name() {
	case dialect.PG:
		query = pgColumnsQuery
	case dialect.MySQL:
		query = mysqlColumnsQuery
	case dialect.SQLite:
		query = sqliteColumnsQuery
	default:
		return nil, fmt.Errorf("inspecting %s: %w", db.Dialect().Name(), ErrUnsupported)
	}

	var rows []columnRow
	if err := db.NewRaw(query, table).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	cols := make([]ColumnInfo, 0, len(rows))
	for _, r := range rows {
		cols = append(cols, ColumnInfo{
			Name:     r.Name,
			SQLType:  strings.ToUpper(r.SQLType),
			Nullable: strings.EqualFold(r.IsNullable, "YES"),
			Comment:  r.Comment,
		})
	}

	if db.Dialect().Name() == dialect.SQLite && len(cols) > 0 {
		var ddl string
		if err := db.NewRaw(sqliteTableSQLQuery, table).Scan(ctx, &ddl); err != nil {
			return nil, fmt.Errorf("inspect %s: %w", table, err)
		}
		comments := sqliteInlineComments(ddl)
		for i := range cols {
			cols[i].Comment = comments[strings.ToLower(cols[i].Name)]
		}
	}
	return cols, nil
}

// sqliteInlineComments maps lowercased column names to the comments found
// inside their definition in a CREATE TABLE statement. sqlite keeps the
// statement text verbatim, which is the only place such comments live.
// Both "/* */" and "--" comments are recognised; definitions are split on
// top-level commas so columns appended by ALTER TABLE ADD COLUMN, which
// may share a line with their neighbours, are attributed correctly.
func sqliteInlineComments(ddl string) map[string]string {
	out := make(map[string]string)
	open := strings.IndexByte(ddl, '(')
	if open < 0 {
		return out
	}

	var def, comment strings.Builder
	flush := func() {
		d := strings.TrimSpace(def.String())
		c := strings.TrimSpace(comment.String())
		def.Reset()
		comment.Reset()
		if d == "" || c == "" || isTableConstraint(d) {
			return
		}
		if name := columnName(d); name != "" {
			out[name] = c
		}
	}
	addComment := func(text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		if comment.Len() > 0 {
			comment.WriteString(" ")
		}
		comment.WriteString(text)
	}

	depth := 0
	for i := open + 1; i < len(ddl); i++ {
		ch := ddl[i]
		switch {
		case ch == '-' && strings.HasPrefix(ddl[i:], "--"):
			end := strings.IndexByte(ddl[i:], '\n')
			if end < 0 {
				end = len(ddl) - i
			}
			addComment(ddl[i+2 : i+end])
			i += end - 1
			continue
		case ch == '/' && strings.HasPrefix(ddl[i:], "/*"):
			end := strings.Index(ddl[i+2:], "*/")
			if end < 0 {
				addComment(ddl[i+2:])
				i = len(ddl)
				continue
			}
			addComment(ddl[i+2 : i+2+end])
			i += end + 3
			def.WriteByte(' ')
			continue
		case ch == '\'' || ch == '"' || ch == '`' || ch == '[':
			closing := ch
			if ch == '[' {
				closing = ']'
			}
			end := strings.IndexByte(ddl[i+1:], closing)
			if end < 0 {
				def.WriteString(ddl[i:])
				i = len(ddl)
				continue
			}
			def.WriteString(ddl[i : i+end+2])
			i += end + 1
			continue
		case ch == '(':
			depth++
		case ch == ')':
			if depth == 0 {
				flush()
				return out
			}
			depth--
		case ch == ',' && depth == 0:
			flush()
			continue
		}
		def.WriteByte(ch)
	}
	flush()
	return out
}

func isTableConstraint(def string) bool {
	upper := strings.ToUpper(def)
	for _, kw := range []string{"CONSTRAINT", "PRIMARY KEY", "UNIQUE", "CHECK", "FOREIGN KEY"} {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	return false
}

func columnName(def string) string {
	switch def[0] {
	case '"', '`', '[':
		closing := map[byte]byte{'"': '"', '`': '`', '[': ']'}[def[0]]
		if end := strings.IndexByte(def[1:], closing); end >= 0 {
			return strings.ToLower(def[1 : end+1])
		}
		return ""
	}
	if f := strings.Fields(def); len(f) > 0 {
		return strings.ToLower(f[0])
	}
	return ""
}
