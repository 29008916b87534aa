package reconcile

import (
	"context"
	"errors"
	"fmt"

	"spellbook/core/reconcile"
	"spellbook/core/utils"
	"spellbook/feature/spellcount"
	"spellbook/feature/spellcount/models"

	"gorm.io/gorm"
)

// CounterAdapter reconciles roles.num_spells against COUNT(*) of role_spells.
// Keys are role ids in decimal.
type CounterAdapter struct {
	store *spellcount.Store
}

// NewAdapter creates a counter adapter over store.
func NewAdapter(store *spellcount.Store) *CounterAdapter {
	return &CounterAdapter{store: store}
}

// Name returns the unique name of this adapter.
func (a *CounterAdapter) Name() string {
	return models.RoleSpellTable
}

// Field returns the derived column checked by this adapter.
func (a *CounterAdapter) Field() string {
	return "num_spells"
}

type cachedRow struct {
	ID        int64
	Name      string
	NumSpells int64
}

type liveRow struct {
	RoleID int64
	Name   string
	Total  int64
}

// LoadCachedIndex loads the stored num_spells of every role.
func (a *CounterAdapter) LoadCachedIndex(ctx context.Context) (map[string]reconcile.Entry, error) {
	var rows []cachedRow
	err := a.store.DB().WithContext(ctx).
		Model(&models.Role{}).
		Select("id, name, num_spells").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load stored counters: %w", err)
	}

	index := make(map[string]reconcile.Entry, len(rows))
	for _, r := range rows {
		index[utils.FormatID(r.ID)] = reconcile.Entry{Name: r.Name, Value: r.NumSpells}
	}
	return index, nil
}

// LoadLiveIndex counts role_spells rows per role. Roles without rows are omitted.
func (a *CounterAdapter) LoadLiveIndex(ctx context.Context) (map[string]reconcile.Entry, error) {
	var rows []liveRow
	err := a.store.DB().WithContext(ctx).
		Table(models.RoleSpellTable + " AS rs").
		Select("rs.role_id AS role_id, COALESCE(r.name, '') AS name, COUNT(*) AS total").
		Joins("LEFT JOIN " + models.RoleTable + " r ON r.id = rs.role_id").
		Group("rs.role_id, r.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count associations: %w", err)
	}

	index := make(map[string]reconcile.Entry, len(rows))
	for _, r := range rows {
		index[utils.FormatID(r.RoleID)] = reconcile.Entry{Name: r.Name, Value: r.Total}
	}
	return index, nil
}

// QueryOne resolves a role by id or name and loads its stored and live counts.
func (a *CounterAdapter) QueryOne(ctx context.Context, query reconcile.Query) (string, *reconcile.Entry, *reconcile.Entry, error) {
	var role *models.Role
	switch {
	case query.Key != "":
		id, err := utils.ParseID(query.Key)
		if err != nil {
			return "", nil, nil, err
		}
		r, err := a.store.FindRoleByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, nil, nil
		}
		if err != nil {
			return "", nil, nil, err
		}
		role = r
	case query.Name != "":
		r, err := a.store.FindRoleByName(ctx, query.Name)
		if errors.Is(err, spellcount.ErrNotFound) {
			return "", nil, nil, nil
		}
		if err != nil {
			return "", nil, nil, err
		}
		role = r
	default:
		return "", nil, nil, nil
	}

	n, err := a.store.CountAssociationsForRole(ctx, role.ID)
	if err != nil {
		return "", nil, nil, err
	}

	key := utils.FormatID(role.ID)
	cached := &reconcile.Entry{Name: role.Name, Value: role.NumSpells}
	live := &reconcile.Entry{Name: role.Name, Value: n}
	return key, cached, live, nil
}

// Repair recounts one role.
func (a *CounterAdapter) Repair(ctx context.Context, key string) error {
	id, err := utils.ParseID(key)
	if err != nil {
		return err
	}
	_, err = a.store.Recount(ctx, id)
	return err
}

// RepairBatch recounts each role in its own transaction, so one failure keeps
// the earlier repairs.
func (a *CounterAdapter) RepairBatch(ctx context.Context, keys []string) (int, error) {
	repaired := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return repaired, err
		}
		if err := a.Repair(ctx, key); err != nil {
			return repaired, fmt.Errorf("key %s: %w", key, err)
		}
		repaired++
	}
	return repaired, nil
}
