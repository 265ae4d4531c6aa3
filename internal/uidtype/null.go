// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package uidtype

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"encoding/json"

	"github.com/toeirei/uidcolumn/internal/uid"
)

// Null is a nullable uid column value. It resolves its adapter from the
// Default registry using the Kind of T, so a Null[uid.UUID] goes through
// the "uuid" type and a Null[uid.ULID] through "ulid". Registries built with
// NewRegistry are never consulted; override types in Default to change how
// Null fields convert.
type Null[T uid.UID] struct {
	V     T
	Valid bool
}

var (
	_ sql.Scanner   = (*Null[uid.UUID])(nil)
	_ driver.Valuer = Null[uid.UUID]{}
)

// NullOf wraps a present value.
func NullOf[T uid.UID](v T) Null[T] {
	return Null[T]{V: v, Valid: true}
}

// nullable lets adapters unwrap a Null without knowing its type parameter.
type nullable interface {
	uidValue() (uid.UID, bool)
}

func (n Null[T]) uidValue() (uid.UID, bool) { return n.V, n.Valid }

func adapterFor[T uid.UID]() (*Type[T], error) {
	var zero T
	return TypeFor[T](Default(), zero.Kind())
}

// Scan implements sql.Scanner.
func (n *Null[T]) Scan(src any) error {
	t, err := adapterFor[T]()
	if err != nil {
		return err
	}
	v, err := t.ToApplicationValue(src)
	if err != nil {
		return err
	}
	if v == nil {
		*n = Null[T]{}
		return nil
	}
	*n = Null[T]{V: *v, Valid: true}
	return nil
}

// Value implements driver.Valuer.
func (n Null[T]) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	t, err := adapterFor[T]()
	if err != nil {
		return nil, err
	}
	return t.ToDatabaseValue(n.V)
}

// Ptr returns a pointer to the value, or nil when not valid.
func (n Null[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.V
	return &v
}

func (n Null[T]) String() string {
	if !n.Valid {
		return ""
	}
	return n.V.String()
}

func (n Null[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.V.RFC4122())
}

func (n *Null[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*n = Null[T]{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return n.Scan(s)
}
