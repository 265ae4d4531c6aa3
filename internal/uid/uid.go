// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

// Package uid provides the immutable 128-bit identifier value objects that
// are persisted through the uidtype column adapters. Two families exist:
// RFC 4122 UUIDs (backed by google/uuid) and ULIDs (backed by oklog/ulid).
// Both render to the canonical 36-character RFC 4122 form for storage.
package uid

import (
	"errors"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ErrInvalid is returned when a textual or binary identifier cannot be
// parsed into the requested family.
var ErrInvalid = errors.New("invalid uid")

// Kinds reported by UID.Kind.
const (
	KindUUID = "uuid"
	KindULID = "ulid"
)

// UID is the behaviour shared by every identifier value object.
type UID interface {
	// String renders the family's native textual form.
	String() string
	// RFC4122 renders the canonical lowercase xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx form.
	RFC4122() string
	// Bytes returns the raw 128 bits.
	Bytes() [16]byte
	// Kind names the family the value belongs to.
	Kind() string
}

// rfc4122 renders 16 bytes in hyphenated hex form.
func rfc4122(b [16]byte) string {
	return uuid.UUID(b).String()
}

// isRFC4122 reports whether s is the strict 36-character hyphenated hex form.
// google/uuid only accepts hyphens at that length, so the length check rules
// out the braced, urn and bare hex forms. Case is not significant.
func isRFC4122(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}

// isBase32 reports whether s is a 26-character Crockford base32 string whose
// value fits in 128 bits.
func isBase32(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
