// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package schema

import (
	"fmt"
	"strings"

	"github.com/toeirei/uidcolumn/internal/uidtype"
)

// ChangeKind classifies a difference between a desired and a live table.
type ChangeKind int

const (
	// ColumnMissing: the column does not exist.
	ColumnMissing ChangeKind = iota + 1
	// HintMissing: the column exists but its comment carries no type hint,
	// so it reads back as a plain GUID column.
	HintMissing
	// HintMismatch: the comment names another column type.
	HintMismatch
	// TypeMismatch: the native SQL type differs from the declaration.
	TypeMismatch
	// ColumnUnknown: the live table has a column the definition lacks.
	ColumnUnknown
)

func (k ChangeKind) String() string {
	switch k {
	case ColumnMissing:
		return "column missing"
	case HintMissing:
		return "type hint missing"
	case HintMismatch:
		return "type hint mismatch"
	case TypeMismatch:
		return "sql type mismatch"
	case ColumnUnknown:
		return "unknown column"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// Change is one difference found by Diff.
type Change struct {
	Kind   ChangeKind
	Column string
	Want   string
	Have   string
}

func (c Change) String() string {
	switch {
	case c.Want != "" && c.Have != "":
		return fmt.Sprintf("%s: %s (want %s, have %s)", c.Column, c.Kind, c.Want, c.Have)
	case c.Want != "":
		return fmt.Sprintf("%s: %s (want %s)", c.Column, c.Kind, c.Want)
	}
	return fmt.Sprintf("%s: %s", c.Column, c.Kind)
}

// Diff compares the desired table with the columns found by Inspect. Only
// uid columns are checked for native type and hint; other columns are only
// checked for presence.
func (r *Renderer) Diff(t Table, live []ColumnInfo) ([]Change, error) {
	have := make(map[string]ColumnInfo, len(live))
	for _, c := range live {
		have[strings.ToLower(c.Name)] = c
	}

	var changes []Change
	for _, c := range t.Columns {
		rc, err := r.resolve(c)
		if err != nil {
			return nil, err
		}
		lc, ok := have[strings.ToLower(c.Name)]
		delete(have, strings.ToLower(c.Name))
		if !ok {
			changes = append(changes, Change{Kind: ColumnMissing, Column: c.Name, Want: rc.sqlType})
			continue
		}
		if c.Type == "" {
			continue
		}
		if !sameSQLType(rc.sqlType, lc.SQLType) {
			changes = append(changes, Change{Kind: TypeMismatch, Column: c.Name, Want: rc.sqlType, Have: lc.SQLType})
		}
		col, err := r.Registry.Lookup(c.Type)
		if err != nil {
			return nil, err
		}
		if !col.RequiresSQLCommentHint() {
			continue
		}
		name, _, found := uidtype.ParseCommentHint(lc.Comment)
		switch {
		case !found:
			changes = append(changes, Change{Kind: HintMissing, Column: c.Name, Want: col.CommentHint()})
		case name != col.Name():
			changes = append(changes, Change{Kind: HintMismatch, Column: c.Name, Want: col.CommentHint(), Have: uidtype.CommentHint(name)})
		}
	}
	for _, lc := range live {
		if _, extra := have[strings.ToLower(lc.Name)]; extra {
			changes = append(changes, Change{Kind: ColumnUnknown, Column: lc.Name, Have: lc.SQLType})
		}
	}
	return changes, nil
}

// FixSQL returns statements resolving the given changes. ColumnUnknown and
// TypeMismatch changes are reported but never rewritten.
func (r *Renderer) FixSQL(t Table, changes []Change) ([]string, error) {
	byName := make(map[string]Column, len(t.Columns))
	for _, c := range t.Columns {
		byName[strings.ToLower(c.Name)] = c
	}
	var out []string
	for _, ch := range changes {
		c, ok := byName[strings.ToLower(ch.Column)]
		if !ok {
			continue
		}
		var stmts []string
		var err error
		switch ch.Kind {
		case ColumnMissing:
			stmts, err = r.AddColumnSQL(t.Name, c)
		case HintMissing, HintMismatch:
			stmts, err = r.SetCommentSQL(t.Name, c)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ch, err)
		}
		out = append(out, stmts...)
	}
	return out, nil
}

func sameSQLType(want, have string) bool {
	norm := func(s string) string {
		return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "")
	}
	return norm(want) == norm(have)
}
