package checks

import (
	"context"

	"spellbook/core/reconcile"
)

// CounterReport is the result of a derived counter drift check.
type CounterReport struct {
	Field   string                      `json:"field"`
	Summary reconcile.PlanSummary       `json:"summary"`
	Drifted []reconcile.ReconcileResult `json:"drifted"`
	Actions []reconcile.Action          `json:"actions"`
	// Repaired is the number of repair actions executed.
	Repaired int  `json:"repaired"`
	DryRun   bool `json:"dry_run"`
}

// CheckCounters compares stored counters with live counts. With opts.DoRepair and
// opts.Confirmed set (and not a dry run) the drifted entities are repaired.
func CheckCounters(ctx context.Context, spec *reconcile.Spec, opts reconcile.ReconcileOptions) (*CounterReport, error) {
	plan, err := reconcile.ReconcileWithPlan(ctx, spec, opts)
	if err != nil {
		return nil, err
	}

	report := &CounterReport{
		Field:   spec.Adapter.Field(),
		Summary: plan.Summary,
		Drifted: []reconcile.ReconcileResult{},
		Actions: plan.Actions,
		DryRun:  opts.DryRun,
	}
	if report.Actions == nil {
		report.Actions = []reconcile.Action{}
	}
	for _, r := range plan.Results {
		if r.Drifted() {
			report.Drifted = append(report.Drifted, r)
		}
	}

	if opts.DoRepair {
		executed, err := reconcile.ApplyPlan(ctx, spec, plan, opts)
		report.Repaired = executed
		if err != nil {
			return report, err
		}
	}

	return report, nil
}
