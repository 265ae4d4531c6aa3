// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

// Package uidtype teaches database/sql and bun how to persist uid value
// objects in GUID columns.
//
// A Type binds a column type name (for example "uuid" or "ulid") to a uid
// Family. It converts raw column values into value objects on read and
// renders value objects, strings and fmt.Stringer values into the canonical
// RFC 4122 form on write. Types are stateless and safe for concurrent use.
//
// Registration
//   - Types are bound to names through a Registry. Default returns the
//     process-wide registry preloaded with uuid, ulid and the versioned
//     uuid_v1/v4/v6/v7 types.
//   - Alias binds an additional name to an existing type, which is how
//     configuration maps project specific column names onto a family.
//
// Schema hints
//   - Every Type requires an SQL comment hint of the form "(DC2Type:<name>)"
//     so that schema diffing can tell a uid column apart from a plain GUID
//     column. See CommentHint and ParseCommentHint.
package uidtype
