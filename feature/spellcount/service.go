package spellcount

import (
	"context"
	"errors"
	"fmt"

	"spellbook/feature/spellcount/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BulkResult summarises a RecomputeAll sweep.
type BulkResult struct {
	Processed int      `json:"processed"`
	Skipped   []string `json:"skipped,omitempty"`
}

// Service exposes the counter recompute operations.
type Service struct {
	store  *Store
	logger *zap.Logger
}

// NewService creates a new spellcount service.
func NewService(store *Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Store returns the underlying store.
func (s *Service) Store() *Store {
	return s.store
}

// GetRole returns the role with its stored counter.
func (s *Service) GetRole(ctx context.Context, name string) (*models.Role, error) {
	return s.store.FindRoleByName(ctx, name)
}

// RecomputeRole overwrites num_spells of the named role with its association count
// and returns the new value. An unknown name writes nothing.
func (s *Service) RecomputeRole(ctx context.Context, name string) (int64, error) {
	role, err := s.store.FindRoleByName(ctx, name)
	if err != nil {
		return 0, err
	}

	n, err := s.store.Recount(ctx, role.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Deleted between lookup and lock.
		return 0, &NotFoundError{Kind: "role", Name: name}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to recompute %q: %w", name, err)
	}

	s.logger.Debug("Recomputed num_spells",
		zap.String("role", name),
		zap.Int64("role_id", role.ID),
		zap.Int64("num_spells", n))
	return n, nil
}

// RecomputeAll recomputes every role present when the sweep starts, in listing order.
// Roles that vanish mid-sweep are skipped; any other failure stops the sweep and
// the result reports the roles processed so far.
func (s *Service) RecomputeAll(ctx context.Context) (BulkResult, error) {
	var result BulkResult

	names, err := s.store.AllRoleNames(ctx)
	if err != nil {
		return result, err
	}

	for name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := s.RecomputeRole(ctx, name); err != nil {
			if errors.Is(err, ErrNotFound) {
				s.logger.Warn("Role disappeared during sweep, skipping", zap.String("role", name))
				result.Skipped = append(result.Skipped, name)
				continue
			}
			return result, err
		}
		result.Processed++
	}

	s.logger.Info("Recomputed num_spells for all roles",
		zap.Int("processed", result.Processed),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

// AddAssociation links a role to a spell and returns the role's refreshed counter.
func (s *Service) AddAssociation(ctx context.Context, roleName, spellName string) (*models.RoleSpell, int64, error) {
	rs, err := s.store.AddAssociation(ctx, roleName, spellName)
	if err != nil {
		return nil, 0, err
	}
	role, err := s.store.FindRoleByID(ctx, rs.RoleID)
	if err != nil {
		return rs, 0, err
	}
	return rs, role.NumSpells, nil
}
