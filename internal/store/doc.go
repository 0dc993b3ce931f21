// Package store provides SQLite-backed durable storage for slider runs.
//
// A run is one session of input against a configured set of sliders. The
// store keeps, per run:
//   - the configuration the sliders were built from
//   - every applied event, stamped with its sequence number
//   - every notification, positioned by (seq, idx)
//
// Ordering uses seq and idx only, never wall time, so a run read back from
// the store can be replayed and compared notification by notification.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
