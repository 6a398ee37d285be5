// Package sqlite provides the default on-disk point store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// Collections and points live in two tables managed through versioned migrations
// stored in the migrations/ directory. Payloads are JSON text, vectors are
// little-endian float32 blobs. Search is brute-force cosine over the rows that
// pass the json_extract payload filter.
//
// # Data Location
//
// By default, the database is stored at data/vector_db/points.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
