// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package uidtype

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/toeirei/uidcolumn/internal/uid"
	"github.com/uptrace/bun/dialect"
)

// Column is the family-independent view of a Type, used by the Registry
// and by schema tooling.
type Column interface {
	// Name is the column type name, e.g. "uuid".
	Name() string
	// ConvertToApplication is ToApplicationValue returning the uid.UID
	// interface. A nil interface means no value.
	ConvertToApplication(raw any) (uid.UID, error)
	ToDatabaseValue(value any) (driver.Value, error)
	RequiresSQLCommentHint() bool
	CommentHint() string
	SQLDeclaration(d dialect.Name) string
	// Generate returns a fresh value of the column's family.
	Generate() (uid.UID, error)
	// WithName returns a copy of the column bound to another name.
	WithName(name string) Column
}

// Type is a GUID column adapter for the uid family T.
type Type[T uid.UID] struct {
	name   string
	family Family[T]
}

var (
	_ Column = (*Type[uid.UUID])(nil)
	_ Column = (*Type[uid.ULID])(nil)
)

// New returns a Type named name that builds values through family.
func New[T uid.UID](name string, family Family[T]) *Type[T] {
	return &Type[T]{name: name, family: family}
}

func (t *Type[T]) Name() string { return t.name }

// Family returns the family the type instantiates.
func (t *Type[T]) Family() Family[T] { return t.family }

func (t *Type[T]) WithName(name string) Column {
	return New(name, t.family)
}

// ToApplicationValue converts a raw column value into a T. It returns nil
// and no error for SQL NULL and the empty string. A T or *T is returned as
// is and values of other uid families are re-typed through their bits.
// Anything that does not parse yields a *ConversionError.
func (t *Type[T]) ToApplicationValue(raw any) (*T, error) {
	if isNil(raw) {
		return nil, nil
	}
	switch v := raw.(type) {
	case T:
		return &v, nil
	case *T:
		return v, nil
	case uid.UID:
		return t.fromBytes(raw, v.Bytes())
	case nullable:
		u, ok := v.uidValue()
		if !ok {
			return nil, nil
		}
		return t.fromBytes(raw, u.Bytes())
	case string:
		return t.fromString(raw, v)
	case []byte:
		if len(v) == 16 {
			var b [16]byte
			copy(b[:], v)
			return t.fromBytes(raw, b)
		}
		return t.fromString(raw, string(v))
	case sql.NullString:
		if !v.Valid {
			return nil, nil
		}
		return t.fromString(raw, v.String)
	case pgtype.UUID:
		if !v.Valid {
			return nil, nil
		}
		return t.fromBytes(raw, v.Bytes)
	}
	return nil, conversionFailed(raw, t.name, fmt.Errorf("unsupported source type %T", raw))
}

func (t *Type[T]) fromString(raw any, s string) (*T, error) {
	if s == "" {
		return nil, nil
	}
	if !t.family.IsValid(s) {
		return nil, conversionFailed(raw, t.name, uid.ErrInvalid)
	}
	v, err := t.family.Parse(s)
	if err != nil {
		return nil, conversionFailed(raw, t.name, err)
	}
	return &v, nil
}

func (t *Type[T]) fromBytes(raw any, b [16]byte) (*T, error) {
	v, err := t.family.FromBytes(b)
	if err != nil {
		return nil, conversionFailed(raw, t.name, err)
	}
	return &v, nil
}

// ToDatabaseValue renders value in canonical RFC 4122 form. NULL, the empty
// string and invalid Null, sql.NullString or pgtype.UUID wrappers map to
// nil. Values of unsupported types also map to nil rather than failing.
func (t *Type[T]) ToDatabaseValue(value any) (driver.Value, error) {
	if isNil(value) {
		return nil, nil
	}
	var s string
	switch v := value.(type) {
	case uid.UID:
		return v.RFC4122(), nil
	case nullable:
		u, ok := v.uidValue()
		if !ok {
			return nil, nil
		}
		return u.RFC4122(), nil
	case pgtype.UUID:
		if !v.Valid {
			return nil, nil
		}
		return t.renderBytes(value, v.Bytes)
	case sql.NullString:
		if !v.Valid || v.String == "" {
			return nil, nil
		}
		s = v.String
	case string:
		if v == "" {
			return nil, nil
		}
		s = v
	case []byte:
		if len(v) == 0 {
			return nil, nil
		}
		s = string(v)
	case fmt.Stringer:
		s = v.String()
	default:
		// TODO: confirm with callers whether unsupported input types should
		// fail instead of being stored as NULL.
		return nil, nil
	}
	if !t.family.IsValid(s) {
		return nil, renderFailed(value, t.name, uid.ErrInvalid)
	}
	u, err := t.family.Parse(s)
	if err != nil {
		return nil, renderFailed(value, t.name, err)
	}
	return u.RFC4122(), nil
}

func (t *Type[T]) renderBytes(value any, b [16]byte) (driver.Value, error) {
	u, err := t.family.FromBytes(b)
	if err != nil {
		return nil, renderFailed(value, t.name, err)
	}
	return u.RFC4122(), nil
}

// ConvertToApplication implements Column.
func (t *Type[T]) ConvertToApplication(raw any) (uid.UID, error) {
	v, err := t.ToApplicationValue(raw)
	if err != nil || v == nil {
		return nil, err
	}
	return *v, nil
}

// RequiresSQLCommentHint always reports true: a uid column must carry its
// type hint to be told apart from a plain GUID column.
func (t *Type[T]) RequiresSQLCommentHint() bool {
	return true
}

// CommentHint returns the schema comment marker for this type.
func (t *Type[T]) CommentHint() string {
	return CommentHint(t.name)
}

// SQLDeclaration returns the native GUID column type for the dialect.
func (t *Type[T]) SQLDeclaration(d dialect.Name) string {
	switch d {
	case dialect.PG:
		return "UUID"
	case dialect.MSSQL:
		return "UNIQUEIDENTIFIER"
	default:
		return "CHAR(36)"
	}
}

var errNoGenerator = errors.New("column type cannot generate values")

func (t *Type[T]) Generate() (uid.UID, error) {
	if t.family.New == nil {
		return nil, fmt.Errorf("%s: %w", t.name, errNoGenerator)
	}
	v, err := t.family.New()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// isNil reports whether v is nil or a nil pointer, slice or map.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
