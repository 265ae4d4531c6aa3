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

// ULID is a lexicographically sortable identifier. It is stored in GUID
// columns using its RFC 4122 rendering.
type ULID struct {
	ulid.ULID
}

var _ UID = ULID{}

// NewULID returns a ULID for the current time with monotonic entropy.
func NewULID() ULID {
	return ULID{ulid.Make()}
}

// ULIDFromBytes builds a ULID from its raw 128 bits.
func ULIDFromBytes(b [16]byte) ULID {
	return ULID{ulid.ULID(b)}
}

// ParseULID accepts the 26-character base32 form and the RFC 4122 form.
func ParseULID(s string) (ULID, error) {
	switch len(s) {
	case 26:
		u, err := ulid.ParseStrict(s)
		if err != nil {
			return ULID{}, fmt.Errorf("%w: %q: %v", ErrInvalid, s, err)
		}
		return ULID{u}, nil
	case 36:
		if isRFC4122(s) {
			u, err := uuid.Parse(s)
			if err == nil {
				return ULID{ulid.ULID(u)}, nil
			}
		}
	}
	return ULID{}, fmt.Errorf("%w: %q is not a ulid", ErrInvalid, s)
}

// MustParseULID is like ParseULID but panics on error.
func MustParseULID(s string) ULID {
	u, err := ParseULID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// IsValidULID reports whether s is a 26-character Crockford base32 ULID or
// the RFC 4122 rendering of one.
func IsValidULID(s string) bool {
	return isBase32(s) || isRFC4122(s)
}

func (u ULID) RFC4122() string { return rfc4122(u.ULID) }
func (u ULID) Bytes() [16]byte { return u.ULID }
func (u ULID) Kind() string    { return KindULID }
func (u ULID) String() string  { return u.ULID.String() }

// Time returns the millisecond timestamp embedded in u.
func (u ULID) Time() time.Time {
	return ulid.Time(u.ULID.Time()).UTC()
}
