// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"strings"
	"testing"
)

// newTestStore opens an in-memory sqlite Store private to the test.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	return newTestStoreWith(t, Options{})
}

// newTestStoreWith is newTestStore with caller supplied options; Type and
// DSN are always overridden.
func newTestStoreWith(t *testing.T, opts Options) *Store {
	t.Helper()
	opts.Type = "sqlite"
	opts.DSN = "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	s, err := Open(context.Background(), opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
