// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package uidtype

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrConversionFailed is matched by every *ConversionError.
	ErrConversionFailed = errors.New("conversion failed")
	// ErrUnknownType is returned when a registry has no type of the given name.
	ErrUnknownType = errors.New("unknown column type")
	// ErrTypeExists is returned when registering a name twice.
	ErrTypeExists = errors.New("column type already registered")
)

// maxReportedValue bounds how much of an offending value ends up in an
// error message.
const maxReportedValue = 32

// ConversionError reports a value that could not be converted between its
// database and application representation.
type ConversionError struct {
	// Value is the offending raw value exactly as it was passed in.
	Value any
	// TypeName is the column type name of the adapter that rejected it.
	TypeName string
	// Err is the underlying parse failure, if any.
	Err error
	// ToDatabase is set when the value was on its way into the database.
	ToDatabase bool
}

func (e *ConversionError) Error() string {
	source := "database"
	if e.ToDatabase {
		source = "application"
	}
	return fmt.Sprintf("could not convert %s value %q to column type %s", source, truncate(reported(e.Value)), e.TypeName)
}

// Is makes errors.Is(err, ErrConversionFailed) hold.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversionFailed
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func conversionFailed(value any, typeName string, err error) error {
	return &ConversionError{Value: value, TypeName: typeName, Err: err}
}

func renderFailed(value any, typeName string, err error) error {
	return &ConversionError{Value: value, TypeName: typeName, Err: err, ToDatabase: true}
}

func reported(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}

// truncate shortens s to maxReportedValue runes.
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxReportedValue {
		return s
	}
	return string([]rune(s)[:maxReportedValue-3]) + "..."
}
