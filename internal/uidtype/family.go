// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package uidtype

import (
	"github.com/toeirei/uidcolumn/internal/uid"
)

// Family describes how to build values of one uid type T. It replaces a
// "which class to instantiate" hook with plain functions.
type Family[T uid.UID] struct {
	// Parse builds a T from its textual form.
	Parse func(string) (T, error)
	// IsValid reports whether a string is acceptable input for T.
	IsValid func(string) bool
	// FromBytes builds a T from raw 128 bits, used for binary columns and
	// for re-typing values of another uid family.
	FromBytes func([16]byte) (T, error)
	// New generates a fresh value.
	New func() (T, error)
}

// UUIDFamily accepts RFC 4122 UUIDs of any version.
var UUIDFamily = Family[uid.UUID]{
	Parse:     uid.ParseUUID,
	IsValid:   uid.IsValidUUID,
	FromBytes: func(b [16]byte) (uid.UUID, error) {
		return uid.UUIDFromBytes(b), nil
	},
	New: uid.NewUUIDv7,
}

// UUIDVersionFamily accepts only UUIDs of version v.
func UUIDVersionFamily(v int) Family[uid.UUID] {
	return Family[uid.UUID]{
		Parse: func(s string) (uid.UUID, error) {
			return uid.ParseUUIDVersion(s, v)
		},
		IsValid: func(s string) bool {
			return uid.IsValidUUIDVersion(s, v)
		},
		FromBytes: func(b [16]byte) (uid.UUID, error) {
			return uid.ParseUUIDVersion(uid.UUIDFromBytes(b).RFC4122(), v)
		},
		New: uuidGenerators[v],
	}
}

var uuidGenerators = map[int]func() (uid.UUID, error){
	1: uid.NewUUIDv1,
	4: uid.NewUUIDv4,
	6: uid.NewUUIDv6,
	7: uid.NewUUIDv7,
}

// ULIDFamily accepts ULIDs in base32 or RFC 4122 form.
var ULIDFamily = Family[uid.ULID]{
	Parse:     uid.ParseULID,
	IsValid:   uid.IsValidULID,
	FromBytes: func(b [16]byte) (uid.ULID, error) {
		return uid.ULIDFromBytes(b), nil
	},
	New: func() (uid.ULID, error) {
		return uid.NewULID(), nil
	},
}
