// Package spellcount keeps roles.num_spells equal to the number of role_spells rows
// referencing each role.
//
// Three write paths update the counter:
//  1. Service.RecomputeAll: sweeps every role in id order (BulkRecompute).
//  2. Service.RecomputeRole: recomputes one role by name (CounterRecompute).
//  3. Maintainer: a gorm create callback on role_spells that recounts the affected
//     roles inside the inserting transaction (IncrementalMaintainer).
//
// Every path ends in an overwrite with a fresh COUNT(*), so the counter converges no
// matter which path ran last. Maintenance is insert-only; deletes of role_spells rows
// are only reflected by the next recompute.
//
// # Concurrency
//
// Recounts run in a transaction that first locks the role row (SELECT ... FOR UPDATE
// on MySQL). Every create on role_spells takes the same locks in a callback that runs
// before the INSERT, in ascending role id order. Two writers on the same role serialise;
// different roles do not block each other. SQLite has no row locks and serialises all
// writers instead.
//
// # HTTP Endpoints
//
//   - GET  /roles/:name : Role with its stored num_spells.
//   - POST /roles/:name/recompute : Recompute one role.
//   - POST /roles/recompute : Recompute every role.
//   - POST /associations : Insert a role_spells row by role and spell name.
package spellcount
