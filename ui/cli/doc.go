// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the uidcolumn command line using Cobra. It loads
// configuration, builds the column type registry and delegates to the
// uidtype, schema and db packages. Commands stay thin.
package cli
