// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

// package i18n provides the translated messages printed by the uidcolumn
// command line. It uses the go-i18n library to load the embedded locale
// files.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

var (
	mu        sync.RWMutex
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	lang      string
)

// Init loads all embedded locale files and selects lang. Unknown languages
// fall back to English.
func Init(l string) error {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return err
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			return err
		}
		if _, err := b.ParseMessageFileBytes(data, f.Name()); err != nil {
			return fmt.Errorf("locale %s: %w", f.Name(), err)
		}
	}

	mu.Lock()
	bundle = b
	localizer = i18n.NewLocalizer(b, l, language.English.String())
	lang = l
	mu.Unlock()
	return nil
}

// Lang returns the active language.
func Lang() string {
	mu.RLock()
	defer mu.RUnlock()
	return lang
}

// Languages lists the languages that have a locale file.
func Languages() []string {
	mu.RLock()
	defer mu.RUnlock()
	if bundle == nil {
		return nil
	}
	var out []string
	for _, tag := range bundle.LanguageTags() {
		out = append(out, tag.String())
	}
	return out
}

// T translates messageID and formats args into it with fmt.Sprintf. If the
// package has not been initialized it defaults to English. A missing
// message yields messageID itself.
func T(messageID string, args ...any) string {
	mu.RLock()
	loc := localizer
	mu.RUnlock()
	if loc == nil {
		if err := Init("en"); err != nil {
			return messageID
		}
		mu.RLock()
		loc = localizer
		mu.RUnlock()
	}
	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
