// Package store provides SQLite-backed durable storage for the asset
// registry and the trade offer engine.
//
// Tables:
//   - assets: authoritative (owner, emitter, data) per asset id
//   - offers: authoritative offer records and lifecycle state
//   - holdings: derived per-principal owned-asset counts
//   - offer_index: derived sent/received offer-id lists per principal
//   - events: append-only notification log (seq is the logical clock)
//
// # Invariants
//
// Id allocation: assets and offers use INTEGER PRIMARY KEY AUTOINCREMENT,
// so ids are strictly increasing and never reused - even after a retraction
// deletes the asset row (SQLite's sqlite_sequence table retains the high
// water mark).
//
// Atomicity: every state-changing operation runs inside a single write
// transaction via [Store.Update], spanning both its validation reads and
// its mutation writes. The connection pool is capped at one connection, so
// transactions serialize and no operation can observe another mid-flight.
//
// Derived tables (holdings, offer_index) are mutated in the same
// transaction as the authoritative row they derive from, never recomputed
// lazily.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
