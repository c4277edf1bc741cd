// Package store provides SQLite-backed storage for the game collection.
//
// The store owns a single table, records, keyed by id with:
//   - idx_records_created_at: ordering index for ListAll (newest first)
//   - idx_records_name_console: secondary index on (name_key, console)
//
// # Uniqueness
//
// The (name, console) pair is indexed but NOT unique. Duplicates remain
// insertable through Add, Update and Put; the v2 migration removes
// pre-existing duplicates once, keeping the oldest row of each group.
// FindByNameConsole lets callers detect duplicates before writing.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// No transaction spans more than one record.
package store
