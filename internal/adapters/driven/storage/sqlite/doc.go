// Package sqlite provides the SQLite-backed credential store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Tokens are rows of a scoped key-value
// table; Store.TokenStore returns a driven.TokenStore bound to one scope (profile).
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.storefront/data/credentials.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. Separate processes sharing a scope are not coordinated
// beyond SQLite's own locking.
package sqlite
