// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "github.com/toeirei/uidcolumn/internal/logging"

// dbLogf emits debug output through the shared logger; it is silent unless
// the log level is debug.
func dbLogf(format string, v ...any) {
	logging.Debugf(format, v...)
}
