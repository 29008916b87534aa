package reconcile

import (
	"fmt"
	"time"
)

// Entry is one indexed value of a source: a display name and the number it holds.
type Entry struct {
	Name  string
	Value int64
}

// ReconcileResult is the reconciliation output for a single entity.
type ReconcileResult struct {
	// Key is the unique identifier for the entity.
	Key string `json:"key"`

	// Name is the display name of the entity.
	Name string `json:"name"`

	// CachedPresent indicates the entity has a stored (derived) value.
	CachedPresent bool `json:"cached_present"`

	// LivePresent indicates the entity appears in the live aggregate.
	LivePresent bool `json:"live_present"`

	// Cached is the stored value; zero when CachedPresent is false.
	Cached int64 `json:"cached"`

	// Live is the value recomputed from the base rows; zero when LivePresent is false.
	Live int64 `json:"live"`

	// Mismatch describes each discrepancy, e.g. "num_spells: cached=3 live=2".
	Mismatch []string `json:"mismatch"`
}

// Drifted reports whether the stored value disagrees with the live one.
func (r ReconcileResult) Drifted() bool {
	return len(r.Mismatch) > 0
}

// Query represents a search query for targeted reconciliation.
// The adapter decides how to translate query fields into lookups.
type Query struct {
	// Key is the entity key to search for.
	Key string

	// Name is the entity name to search for.
	Name string
}

// Spec bundles the adapter with cache settings.
type Spec struct {
	// Adapter provides model-specific reconciliation logic.
	Adapter Adapter

	// CacheTTL is the time-to-live for cached indices.
	// If zero, caching is disabled.
	CacheTTL time.Duration
}

// CacheKey returns a unique key for caching based on spec parameters.
func (s *Spec) CacheKey() string {
	return s.Adapter.Name() + "|" + s.Adapter.Field()
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionRepair recomputes the stored value from the live rows.
	ActionRepair ActionType = "repair"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the entity identifier.
	Key string `json:"key"`

	// Name is the display name of the entity.
	Name string `json:"name"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// ReconcilePlan contains reconciliation results and planned actions.
type ReconcilePlan struct {
	// Results contains per-entity reconciliation data, sorted by key.
	Results []ReconcileResult `json:"results"`

	// Actions contains planned mutation operations.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// TotalItems is the total number of unique entities.
	TotalItems int `json:"total_items"`

	// Drifted counts entities whose stored value differs from the live value.
	Drifted int `json:"drifted"`

	// Orphans counts entities present only in the live aggregate.
	Orphans int `json:"orphans"`

	// RepairActions counts planned repair actions.
	RepairActions int `json:"repair_actions"`
}

// ReconcileOptions controls reconcile behavior for repair operations.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// DoRepair plans repair actions for drifted entities.
	DoRepair bool

	// Confirmed indicates the caller accepted the mutations.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}

func mismatch(field string, cached, live int64) string {
	return fmt.Sprintf("%s: cached=%d live=%d", field, cached, live)
}
