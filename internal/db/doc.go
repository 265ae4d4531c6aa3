// Package db contains the data-access layer of uidcolumn.
//
// A Store wraps a long-lived *bun.DB for sqlite, postgres or mysql. Its
// schema is rendered through internal/schema so every uid column carries
// its "(DC2Type:<name>)" comment hint, and its models carry uid values in
// uidtype.Null fields so every read and write goes through the registered
// column adapters.
//
// Testing notes
//   - Prefer Open(ctx, Options{Type: "sqlite", DSN: ":memory:"}) in tests
//     that need real DB semantics and migrations.
package db
