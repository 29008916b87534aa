// Package integrity provides database health checks for the spellbook schema.
//
// Unlike the 'spellcount' package, which keeps roles.num_spells current on every write,
// this package audits the stored state after the fact.
//
// # Checks Provided
//
//   - Schema: Validates that roles, spells and role_spells match the GORM models (columns, types).
//   - Counters: Compares every role's num_spells with the live COUNT(*) of its role_spells rows
//     through the core/reconcile engine, and optionally repairs drifted roles.
//
// Counter reports can be exported as JSON to the object storage bucket under
// <report_prefix>/counters-<unix>.json.
//
// # HTTP Endpoints
//
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/counters : Runs the counter check (supports ?fix=true and ?export=true).
//   - GET /integrity/reports : Lists exported counter reports.
package integrity
