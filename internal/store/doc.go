// Package store provides a SQLite-backed ledger of generation runs.
//
// Each run records the feature gate it used, the composite artifact hash,
// its diagnostics, and one row per emitted fragment. The ledger answers two
// questions for the CLI: what did the last run produce, and what changed
// since then.
//
// # Ordering
//
//   - Runs are ordered by seq, a logical counter assigned on insert. Wall
//     clock time is recorded but never used for ordering.
//   - Fragments are ordered by their position in the artifact.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
