package i18n

import (
	"strings"
	"testing"
)

func TestT_EnglishAndGerman(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := T("resource.created", "abc"); got != "created resource abc" {
		t.Fatalf("T(en) = %q", got)
	}
	if err := Init("de"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer func() { _ = Init("en") }()
	if got := T("resource.created", "abc"); got != "Ressource abc angelegt" {
		t.Fatalf("T(de) = %q", got)
	}
	if Lang() != "de" {
		t.Fatalf("Lang() = %q", Lang())
	}
}

func TestT_Fallbacks(t *testing.T) {
	if err := Init("fr"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer func() { _ = Init("en") }()
	if got := T("schema.clean"); got != "schema is up to date" {
		t.Fatalf("unknown language should fall back to English, got %q", got)
	}
	if got := T("no.such.message"); got != "no.such.message" {
		t.Fatalf("missing message should return its id, got %q", got)
	}
}

func TestLanguages(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	langs := strings.Join(Languages(), ",")
	if !strings.Contains(langs, "en") || !strings.Contains(langs, "de") {
		t.Fatalf("Languages() = %s", langs)
	}
}
