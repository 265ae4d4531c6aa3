// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for uidcolumn.
//
// Usage:
//
//	go run . [flags] <command>
//	./uidcolumn types
//	./uidcolumn convert to-db --type ulid 01HZY3J5Q8R2N4V6W7X8Y9Z0AB
//
// See --help for the full command list.
package main

import (
	"os"

	"github.com/toeirei/uidcolumn/internal/logging"
	"github.com/toeirei/uidcolumn/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("uidcolumn: %v", err)
		os.Exit(1)
	}
}
