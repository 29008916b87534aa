package reconcile

import (
	"context"
	"fmt"
)

// ReconcileWithPlan performs reconciliation and returns a plan with results and actions.
// It does NOT execute actions; use ApplyPlan for that.
func ReconcileWithPlan(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcilePlan, error) {
	cache, err := GetOrBuildCache(ctx, spec)
	if err != nil {
		return nil, err
	}

	results := reconcileFromCache(cache, spec.Adapter)
	summary, actions := buildPlanFromResults(results, opts)

	return &ReconcilePlan{
		Results: results,
		Actions: actions,
		Summary: summary,
	}, nil
}

// ApplyPlan executes the actions in a reconcile plan.
// Returns the number of actions executed and any error encountered.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func ApplyPlan(ctx context.Context, spec *Spec, plan *ReconcilePlan, opts ReconcileOptions) (executed int, err error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	mutator, ok := spec.Adapter.(Mutator)
	if !ok {
		return 0, fmt.Errorf("adapter %s does not implement Mutator interface", spec.Adapter.Name())
	}

	var keys []string
	for _, action := range plan.Actions {
		if action.Type == ActionRepair {
			keys = append(keys, action.Key)
		}
	}
	if len(keys) == 0 {
		return 0, nil
	}

	// Stored values change below; later plans must rebuild their indices.
	defer InvalidateCache(spec)

	if batch, ok := mutator.(BatchRepairer); ok {
		executed, err = batch.RepairBatch(ctx, keys)
		if err != nil {
			return executed, fmt.Errorf("failed to batch repair: %w", err)
		}
		return executed, nil
	}

	for _, key := range keys {
		if err := mutator.Repair(ctx, key); err != nil {
			return executed, fmt.Errorf("failed to repair key %s: %w", key, err)
		}
		executed++
	}
	return executed, nil
}

// ReconcileAndApply is a convenience wrapper that plans and optionally applies actions.
func ReconcileAndApply(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcilePlan, int, error) {
	plan, err := ReconcileWithPlan(ctx, spec, opts)
	if err != nil {
		return nil, 0, err
	}

	executed, err := ApplyPlan(ctx, spec, plan, opts)
	return plan, executed, err
}

// buildPlanFromResults generates a summary and action plan from reconciliation results.
// Orphans (live rows without a stored entity) are counted but never repaired.
func buildPlanFromResults(results []ReconcileResult, opts ReconcileOptions) (PlanSummary, []Action) {
	var summary PlanSummary
	var actions []Action

	summary.TotalItems = len(results)

	for _, result := range results {
		if !result.CachedPresent {
			summary.Orphans++
			continue
		}
		if !result.Drifted() {
			continue
		}
		summary.Drifted++

		if opts.DoRepair {
			actions = append(actions, Action{
				Type:   ActionRepair,
				Key:    result.Key,
				Name:   result.Name,
				Reason: fmt.Sprintf("mismatch: %v", result.Mismatch),
			})
			summary.RepairActions++
		}
	}

	return summary, actions
}
