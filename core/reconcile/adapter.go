package reconcile

import "context"

// Adapter defines the model-specific side of a reconciliation between a stored
// (derived) value and the value recomputed from its base rows.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "role_spells").
	Name() string

	// Field is the label of the derived column, used in mismatch descriptions.
	Field() string

	// LoadCachedIndex loads every stored value indexed by entity key.
	LoadCachedIndex(ctx context.Context) (map[string]Entry, error)

	// LoadLiveIndex aggregates the base rows and returns the live value per entity key.
	// Entities without base rows may be omitted; they are treated as a live value of zero
	// when the entity has a stored value.
	LoadLiveIndex(ctx context.Context) (map[string]Entry, error)

	// QueryOne resolves a single entity without building the full indices.
	// It returns an empty key when nothing matches.
	QueryOne(ctx context.Context, query Query) (key string, cached, live *Entry, err error)
}

// Mutator is implemented by adapters that can repair a drifted stored value.
type Mutator interface {
	// Repair recomputes the stored value of one entity from its base rows.
	Repair(ctx context.Context, key string) error
}

// BatchRepairer is an optional Mutator extension that repairs many keys at once.
type BatchRepairer interface {
	// RepairBatch repairs keys and returns how many were repaired before any error.
	RepairBatch(ctx context.Context, keys []string) (int, error)
}
