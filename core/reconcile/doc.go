// Package reconcile compares a stored, derived value with the value recomputed from
// its base rows, and plans and applies repairs for the entities that drifted.
//
// The engine is model-agnostic. An Adapter supplies two indices keyed by entity key:
// the cached index (what is stored, e.g. roles.num_spells) and the live index (what the
// base rows say, e.g. COUNT(*) of role_spells per role). The engine builds both
// concurrently, unions the keys and reports one ReconcileResult per entity.
//
// # Components
//
// 1. Engine: ReconcileAll and ReconcileOne build results with presence flags and mismatches.
//
// 2. Plan: ReconcileWithPlan turns results into a summary plus repair actions.
// ApplyPlan executes them through the adapter's Mutator (or BatchRepairer) only when the
// options are confirmed and not a dry run.
//
// 3. Cache: TTL-based index cache with singleflight stampede protection for targeted
// lookups. Applying a plan invalidates the cache of its spec.
//
// # Usage Example
//
//	spec := &reconcile.Spec{Adapter: adapter}
//
//	plan, err := reconcile.ReconcileWithPlan(ctx, spec, reconcile.ReconcileOptions{DoRepair: true})
//	executed, err := reconcile.ApplyPlan(ctx, spec, plan, reconcile.ReconcileOptions{DoRepair: true, Confirmed: true})
package reconcile
