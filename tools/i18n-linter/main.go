// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks that every message id passed to i18n.T exists in the
// primary locale, that every other locale carries the same ids and reports
// ids nothing uses.
//
// Usage:
//
//	go run ./tools/i18n-linter [project root]
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
)

// report is the outcome of one lint run.
type report struct {
	Undefined []string            // used in code, absent from the primary locale
	Orphaned  []string            // in the primary locale, unused
	Missing   map[string][]string // locale file -> ids absent from it
}

func (r report) failed() bool {
	if len(r.Undefined) > 0 {
		return true
	}
	for _, ids := range r.Missing {
		if len(ids) > 0 {
			return true
		}
	}
	return false
}

func main() {
	root := "."
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	r, err := lint(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18n-linter: %v\n", err)
		os.Exit(2)
	}
	printReport(os.Stdout, r)
	if r.failed() {
		os.Exit(1)
	}
}

func lint(root string) (report, error) {
	used, err := findUsedKeys(root)
	if err != nil {
		return report{}, err
	}
	dir := filepath.Join(root, localesDir)
	primary, err := loadKeysFromLocale(filepath.Join(dir, primaryLocale))
	if err != nil {
		return report{}, fmt.Errorf("primary locale: %w", err)
	}

	r := report{
		Undefined: difference(used, primary),
		Orphaned:  difference(primary, used),
		Missing:   make(map[string][]string),
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return report{}, err
	}
	for _, f := range files {
		if filepath.Base(f) == primaryLocale {
			continue
		}
		keys, err := loadKeysFromLocale(f)
		if err != nil {
			return report{}, fmt.Errorf("%s: %w", f, err)
		}
		r.Missing[filepath.Base(f)] = difference(primary, keys)
	}
	return r, nil
}

func printReport(w io.Writer, r report) {
	section := func(title string, ids []string) {
		fmt.Fprintf(w, "--- %s ---\n", title)
		if len(ids) == 0 {
			fmt.Fprintln(w, "  none")
		}
		for _, id := range ids {
			fmt.Fprintf(w, "  - %s\n", id)
		}
	}
	section("Undefined (used in code, not in "+primaryLocale+")", r.Undefined)
	section("Orphaned (in "+primaryLocale+", not used in code)", r.Orphaned)

	locales := make([]string, 0, len(r.Missing))
	for l := range r.Missing {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	for _, l := range locales {
		section("Missing in "+l, r.Missing[l])
	}
}

// difference returns the sorted keys of a that are not in b.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

var usedKeyRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)

// findUsedKeys scans non-test .go files for i18n.T("id") calls. Hidden
// directories, directories starting with an underscore and tools/ are
// skipped.
func findUsedKeys(root string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range usedKeyRe.FindAllStringSubmatch(string(content), -1) {
			keys[m[1]] = struct{}{}
		}
		return nil
	})
	return keys, err
}

// loadKeysFromLocale reads a YAML file and returns a flat set of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML converts a nested map into dot-separated keys. Flat files
// with dotted keys come out unchanged.
func flattenYAML(prefix string, node any, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]any:
		for k, val := range v {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenYAML(next, val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
