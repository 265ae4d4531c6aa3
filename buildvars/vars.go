// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

// Package buildvars holds values injected at link time.
package buildvars

// Version is set with
// -ldflags "-X github.com/toeirei/uidcolumn/buildvars.Version=v1.2.3".
// It is empty for local builds.
var Version string

// VersionOrDefault returns Version if set, otherwise def.
func VersionOrDefault(def string) string {
	if Version != "" {
		return Version
	}
	return def
}
