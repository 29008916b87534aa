package spellcount

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"spellbook/feature/spellcount/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaintainerHookName is the name the maintainer registers its insert hook under.
const MaintainerHookName = "num_spells"

// Maintainer keeps roles.num_spells current on every association insert.
// It recounts in the inserting transaction and never decrements: deleting
// role_spells rows leaves the counter stale until the next recompute.
type Maintainer struct {
	logger *zap.Logger
}

// NewMaintainer creates a maintainer.
func NewMaintainer(logger *zap.Logger) *Maintainer {
	return &Maintainer{logger: logger}
}

// Register installs the maintainer on the store's connection. Every create on
// role_spells locks its roles before the insert and recounts them after it.
func (m *Maintainer) Register(store *Store) error {
	if err := store.BeforeAssociationInsert(MaintainerHookName, m.BeforeInsert); err != nil {
		return err
	}
	return store.OnAssociationInsert(MaintainerHookName, m.AfterInsert)
}

// BeforeInsert locks every distinct role referenced by the rows about to be written,
// in ascending id order, so same-role inserts queue instead of deadlocking on the
// foreign-key check. A missing role fails the insert.
func (m *Maintainer) BeforeInsert(ctx context.Context, tx *Store, inserted []models.RoleSpell) error {
	for _, roleID := range distinctRoleIDs(inserted) {
		if err := tx.lockRole(ctx, roleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ConstraintViolation{Column: "role_id", Value: roleID, Err: err}
			}
			return fmt.Errorf("failed to lock role %d: %w", roleID, err)
		}
	}
	return nil
}

// AfterInsert recounts every distinct role referenced by the inserted rows.
func (m *Maintainer) AfterInsert(ctx context.Context, tx *Store, inserted []models.RoleSpell) error {
	for _, roleID := range distinctRoleIDs(inserted) {
		n, err := tx.CountAssociationsForRole(ctx, roleID)
		if err != nil {
			return err
		}
		if err := tx.SetRoleSpellCount(ctx, roleID, n); err != nil {
			return err
		}
		m.logger.Debug("Maintained num_spells",
			zap.Int64("role_id", roleID),
			zap.Int64("num_spells", n))
	}
	return nil
}

func distinctRoleIDs(rows []models.RoleSpell) []int64 {
	ids := make([]int64, 0, len(rows))
	for _, rs := range rows {
		ids = append(ids, rs.RoleID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
