package uid

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseUUID_Forms(t *testing.T) {
	const canonical = "9f3b1a5c-8b3e-4e9a-9c2a-9b1e2f3a4b5c"
	base32 := MustParseUUID(canonical).Base32()

	cases := []struct {
		name string
		in   string
	}{
		{"canonical", canonical},
		{"upper", strings.ToUpper(canonical)},
		{"braced", "{" + canonical + "}"},
		{"urn", "urn:uuid:" + canonical},
		{"hex", strings.ReplaceAll(canonical, "-", "")},
		{"base32", base32},
		{"base32 lower", strings.ToLower(base32)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u, err := ParseUUID(c.in)
			if err != nil {
				t.Fatalf("ParseUUID(%q) returned error: %v", c.in, err)
			}
			if got := u.RFC4122(); got != canonical {
				t.Fatalf("RFC4122() = %q, want %q", got, canonical)
			}
		})
	}
}

func TestParseUUID_Invalid(t *testing.T) {
	for _, in := range []string{"", "not-a-uuid", "9f3b1a5c-8b3e-4e9a-9c2a-9b1e2f3a4b5", "zzzzzzzz-8b3e-4e9a-9c2a-9b1e2f3a4b5c", "8ZZZZZZZZZZZZZZZZZZZZZZZZZ"} {
		if _, err := ParseUUID(in); !errors.Is(err, ErrInvalid) {
			t.Fatalf("ParseUUID(%q) error = %v, want ErrInvalid", in, err)
		}
	}
}

func TestIsValidUUID_StrictForm(t *testing.T) {
	cases := map[string]bool{
		"9f3b1a5c-8b3e-4e9a-9c2a-9b1e2f3a4b5c":   true,
		"9F3B1A5C-8B3E-4E9A-9C2A-9B1E2F3A4B5C":   true,
		"{9f3b1a5c-8b3e-4e9a-9c2a-9b1e2f3a4b5c}": false,
		"9f3b1a5c8b3e4e9a9c2a9b1e2f3a4b5c":       false,
		"9f3b1a5c-8b3e-4e9a-9c2a_9b1e2f3a4b5c":   false,
		"9f3b1a5c8-b3e-4e9a-9c2a-9b1e2f3a4b5c":   false,
		"9f3b1a5g-8b3e-4e9a-9c2a-9b1e2f3a4b5c":   false,
		"not-a-uuid":                             false,
		"":                                       false,
	}
	for in, want := range cases {
		if got := IsValidUUID(in); got != want {
			t.Errorf("IsValidUUID(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestUUIDVersion(t *testing.T) {
	v4, err := NewUUIDv4()
	if err != nil {
		t.Fatalf("NewUUIDv4: %v", err)
	}
	v7, err := NewUUIDv7()
	if err != nil {
		t.Fatalf("NewUUIDv7: %v", err)
	}
	if v4.Version() != 4 || v7.Version() != 7 {
		t.Fatalf("unexpected versions: v4=%d v7=%d", v4.Version(), v7.Version())
	}
	if !IsValidUUIDVersion(v4.RFC4122(), 4) || IsValidUUIDVersion(v4.RFC4122(), 7) {
		t.Fatalf("IsValidUUIDVersion mismatch for %s", v4)
	}
	if IsValidUUIDVersion("{"+v4.RFC4122()+"}", 4) || IsValidUUIDVersion(v4.Base32(), 4) {
		t.Fatalf("IsValidUUIDVersion must only accept the hyphenated form")
	}
	if _, err := ParseUUIDVersion(v7.String(), 4); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected version mismatch error, got %v", err)
	}
	if _, ok := v4.Time(); ok {
		t.Fatalf("v4 uuid should not carry a timestamp")
	}
	ts, ok := v7.Time()
	if !ok {
		t.Fatalf("v7 uuid should carry a timestamp")
	}
	if d := time.Since(ts); d < -time.Minute || d > time.Minute {
		t.Fatalf("v7 timestamp %s too far from now", ts)
	}
}

func TestULID_RoundTripForms(t *testing.T) {
	u := NewULID()
	if !IsValidULID(u.String()) {
		t.Fatalf("IsValidULID(%q) = false", u.String())
	}
	if !IsValidULID(u.RFC4122()) {
		t.Fatalf("IsValidULID(%q) = false", u.RFC4122())
	}

	fromRFC, err := ParseULID(u.RFC4122())
	if err != nil {
		t.Fatalf("ParseULID(rfc4122): %v", err)
	}
	if fromRFC != u {
		t.Fatalf("ParseULID(rfc4122) = %s, want %s", fromRFC, u)
	}
	fromLower, err := ParseULID(strings.ToLower(u.String()))
	if err != nil || fromLower != u {
		t.Fatalf("ParseULID(lower) = %s, %v", fromLower, err)
	}
	if d := time.Since(u.Time()); d < -time.Minute || d > time.Minute {
		t.Fatalf("ulid timestamp %s too far from now", u.Time())
	}
}

func TestULID_Invalid(t *testing.T) {
	for _, in := range []string{"", "not-a-ulid", "8ZZZZZZZZZZZZZZZZZZZZZZZZZ", "01ARZ3NDEKTSV4RRFFQ69G5FA"} {
		if IsValidULID(in) {
			t.Errorf("IsValidULID(%q) = true", in)
		}
		if _, err := ParseULID(in); !errors.Is(err, ErrInvalid) {
			t.Errorf("ParseULID(%q) error = %v, want ErrInvalid", in, err)
		}
	}
}

func TestRFC4122_LowercaseRendering(t *testing.T) {
	u := MustParseUUID("9F3B1A5C-8B3E-4E9A-9C2A-9B1E2F3A4B5C")
	if got := u.RFC4122(); got != "9f3b1a5c-8b3e-4e9a-9c2a-9b1e2f3a4b5c" {
		t.Fatalf("RFC4122() = %q", got)
	}
	l := MustParseULID("01arz3ndektsv4rrffq69g5fav")
	if !IsValidULID("01arz3ndektsv4rrffq69g5fav") {
		t.Fatalf("lowercase base32 should be valid")
	}
	if got := l.RFC4122(); got != UUIDFromBytes(l.Bytes()).RFC4122() || got != strings.ToLower(got) {
		t.Fatalf("RFC4122() = %q", got)
	}
}

func TestFromBytes_SharesBits(t *testing.T) {
	u := MustParseUUID("01890a5d-ac96-774b-bcce-b302099a8057")
	l := ULIDFromBytes(u.Bytes())
	if l.RFC4122() != u.RFC4122() {
		t.Fatalf("rfc4122 mismatch: %s vs %s", l.RFC4122(), u.RFC4122())
	}
	back := UUIDFromBytes(l.Bytes())
	if back != u {
		t.Fatalf("UUIDFromBytes = %s, want %s", back, u)
	}
	if u.Kind() != KindUUID || l.Kind() != KindULID {
		t.Fatalf("unexpected kinds %q %q", u.Kind(), l.Kind())
	}
}
