// Package sqlite provides the SQLite-backed implementation of the
// relational LegalStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The schema (documents, articles, document_tags, amendments,
// amendment_affected_articles) is managed through versioned migrations
// embedded from the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.legal-assistant/data/legal.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode; single-document writes are wrapped in a
// transaction so partial documents are never observable.
package sqlite
