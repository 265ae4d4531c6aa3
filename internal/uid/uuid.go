// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package uid

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// UUID is an RFC 4122 identifier of any version.
type UUID struct {
	uuid.UUID
}

// Assert interface compliance.
var _ UID = UUID{}

// NilUUID is the all-zero UUID.
var NilUUID = UUID{uuid.Nil}

// NewUUIDv1 returns a time-based (version 1) UUID.
func NewUUIDv1() (UUID, error) {
	u, err := uuid.NewUUID()
	if err != nil {
		return UUID{}, err
	}
	return UUID{u}, nil
}

// NewUUIDv6 returns a reordered time-based (version 6) UUID.
func NewUUIDv6() (UUID, error) {
	u, err := uuid.NewV6()
	if err != nil {
		return UUID{}, err
	}
	return UUID{u}, nil
}

// NewUUIDv4 returns a random (version 4) UUID.
func NewUUIDv4() (UUID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return UUID{}, err
	}
	return UUID{u}, nil
}

// NewUUIDv7 returns a time-ordered (version 7) UUID.
func NewUUIDv7() (UUID, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return UUID{}, err
	}
	return UUID{u}, nil
}

// UUIDFromBytes builds a UUID from its raw 128 bits. Every bit pattern is a
// UUID, so it cannot fail.
func UUIDFromBytes(b [16]byte) UUID {
	return UUID{uuid.UUID(b)}
}

// ParseUUID parses s as a UUID. Besides the canonical 36-character form it
// accepts the braced and urn:uuid: forms, 32 hex digits and 26-character
// base32. Raw 16-byte values go through UUIDFromBytes.
func ParseUUID(s string) (UUID, error) {
	if len(s) == 26 {
		u, err := ulid.ParseStrict(s)
		if err != nil {
			return UUID{}, fmt.Errorf("%w: %q is not a base32 uuid", ErrInvalid, s)
		}
		return UUID{uuid.UUID(u)}, nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("%w: %q: %v", ErrInvalid, s, err)
	}
	return UUID{u}, nil
}

// MustParseUUID is like ParseUUID but panics on error.
// Use only for constants and tests.
func MustParseUUID(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// IsValidUUID reports whether s is in strict RFC 4122 textual form.
func IsValidUUID(s string) bool {
	return isRFC4122(s)
}

// IsValidUUIDVersion is IsValidUUID restricted to UUIDs whose version digit
// equals v.
func IsValidUUIDVersion(s string, v int) bool {
	if !isRFC4122(s) {
		return false
	}
	u, err := uuid.Parse(s)
	return err == nil && int(u.Version()) == v
}

func (u UUID) RFC4122() string { return rfc4122(u.UUID) }
func (u UUID) Bytes() [16]byte { return u.UUID }
func (u UUID) Kind() string    { return KindUUID }

// String renders the canonical form; google/uuid already emits lowercase.
func (u UUID) String() string { return u.UUID.String() }

// Version returns the RFC 4122 version number.
func (u UUID) Version() int { return int(u.UUID.Version()) }

// IsNil reports whether u is the all-zero UUID.
func (u UUID) IsNil() bool { return u.UUID == uuid.Nil }

// Base32 renders the 128 bits in 26-character Crockford base32.
func (u UUID) Base32() string { return ulid.ULID(u.UUID).String() }

// Time returns the embedded timestamp for time-based versions (1, 6 and 7).
func (u UUID) Time() (time.Time, bool) {
	switch u.Version() {
	case 1, 6, 7:
		sec, nsec := u.UUID.Time().UnixTime()
		return time.Unix(sec, nsec).UTC(), true
	}
	return time.Time{}, false
}

// ParseUUIDVersion parses s and rejects UUIDs that are not version v.
func ParseUUIDVersion(s string, v int) (UUID, error) {
	u, err := ParseUUID(s)
	if err != nil {
		return UUID{}, err
	}
	if u.Version() != v {
		return UUID{}, fmt.Errorf("%w: %s is version %d, want %d", ErrInvalid, u.RFC4122(), u.Version(), v)
	}
	return u, nil
}
