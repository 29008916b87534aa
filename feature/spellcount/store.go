package spellcount

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"

	"spellbook/core/utils"
	"spellbook/feature/spellcount/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsertHook observes association inserts. It runs inside the inserting transaction,
// after the rows are written and before commit; tx is bound to that transaction.
// A returned error rolls the insert back.
type InsertHook func(ctx context.Context, tx *Store, inserted []models.RoleSpell) error

// Store is the data access layer over roles, spells and role_spells.
// It owns the association rows and the roles.num_spells column.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a store and registers the num_spells maintainer on the connection.
// The maintainer is registered exactly once per gorm connection.
func NewStore(db *gorm.DB, logger *zap.Logger) (*Store, error) {
	s := &Store{db: db, logger: logger}
	if err := NewMaintainer(logger).Register(s); err != nil {
		return nil, err
	}
	return s, nil
}

// DB returns the underlying connection (or transaction) of this store.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) withDB(db *gorm.DB) *Store {
	return &Store{db: db, logger: s.logger}
}

// FindRoleByName returns the role with the given name.
// If several rows share the name the lowest id wins and a warning is logged.
func (s *Store) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var roles []models.Role
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		Order("id ASC").
		Limit(2).
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find role %q: %w", name, err)
	}
	if len(roles) == 0 {
		return nil, &NotFoundError{Kind: "role", Name: name}
	}
	if len(roles) > 1 {
		s.logger.Warn("Duplicate role name, using lowest id",
			zap.String("name", name),
			zap.Int64("id", roles[0].ID),
			zap.Int64("other_id", roles[1].ID))
	}
	return &roles[0], nil
}

// FindRoleByID returns the role with the given id.
// The error wraps gorm.ErrRecordNotFound if there is none.
func (s *Store) FindRoleByID(ctx context.Context, id int64) (*models.Role, error) {
	var role models.Role
	if err := s.db.WithContext(ctx).Take(&role, id).Error; err != nil {
		return nil, fmt.Errorf("failed to load role %d: %w", id, err)
	}
	return &role, nil
}

// FindSpellByName returns the spell with the given name, lowest id first.
func (s *Store) FindSpellByName(ctx context.Context, name string) (*models.Spell, error) {
	var spell models.Spell
	err := s.db.WithContext(ctx).Where("name = ?", name).Order("id ASC").Take(&spell).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Kind: "spell", Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find spell %q: %w", name, err)
	}
	return &spell, nil
}

// CountAssociationsForRole counts the role_spells rows referencing roleID.
func (s *Store) CountAssociationsForRole(ctx context.Context, roleID int64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.RoleSpell{}).
		Where("role_id = ?", roleID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count associations for role %d: %w", roleID, err)
	}
	return n, nil
}

// AllRoleNames snapshots every role name in id order.
// Ranging over the result again replays the same snapshot.
func (s *Store) AllRoleNames(ctx context.Context) (iter.Seq[string], error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&models.Role{}).
		Order("id ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list role names: %w", err)
	}
	return slices.Values(names), nil
}

// SetRoleSpellCount overwrites roles.num_spells for one role.
func (s *Store) SetRoleSpellCount(ctx context.Context, roleID, count int64) error {
	err := s.db.WithContext(ctx).
		Model(&models.Role{}).
		Where("id = ?", roleID).
		Update("num_spells", count).Error
	if err != nil {
		return fmt.Errorf("failed to set num_spells for role %d: %w", roleID, err)
	}
	return nil
}

// lockRole takes a row lock on the role for the rest of the transaction.
// SQLite has no row locks; its database-level write lock serialises writers instead.
// Returns gorm.ErrRecordNotFound if the role does not exist.
func (s *Store) lockRole(ctx context.Context, roleID int64) error {
	var role models.Role
	return s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", roleID).
		Take(&role).Error
}

// Recount recomputes roles.num_spells for one role in a single transaction:
// lock the role row, count its associations, write the count.
// Returns an error wrapping gorm.ErrRecordNotFound if the role no longer exists.
func (s *Store) Recount(ctx context.Context, roleID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ts := s.withDB(tx)
		if err := ts.lockRole(ctx, roleID); err != nil {
			return fmt.Errorf("failed to lock role %d: %w", roleID, err)
		}
		n, err := ts.CountAssociationsForRole(ctx, roleID)
		if err != nil {
			return err
		}
		if err := ts.SetRoleSpellCount(ctx, roleID, n); err != nil {
			return err
		}
		count = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// InsertAssociation inserts one role_spells row. The registered insert hooks run
// inside the insert's transaction.
func (s *Store) InsertAssociation(ctx context.Context, rs *models.RoleSpell) error {
	return translateInsertError(s.db.WithContext(ctx).Create(rs).Error)
}

// AddAssociation links the named role to the named spell.
func (s *Store) AddAssociation(ctx context.Context, roleName, spellName string) (*models.RoleSpell, error) {
	if strings.TrimSpace(roleName) == "" {
		return nil, &ValidationError{Field: "role", Message: "must not be empty"}
	}
	if strings.TrimSpace(spellName) == "" {
		return nil, &ValidationError{Field: "spell", Message: "must not be empty"}
	}

	role, err := s.FindRoleByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	spell, err := s.FindSpellByName(ctx, spellName)
	if err != nil {
		return nil, err
	}

	rs := &models.RoleSpell{RoleID: role.ID, SpellID: spell.ID}
	if err := s.InsertAssociation(ctx, rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// OnAssociationInsert registers hook as a gorm create callback on role_spells.
// The callback sits after gorm:after_create and before the commit, so it shares the
// insert's transaction and sees the new rows. Registering an existing name replaces the hook.
func (s *Store) OnAssociationInsert(name string, hook InsertHook) error {
	return s.registerInsertHook("spellcount:"+name,
		"gorm:after_create", "gorm:commit_or_rollback_transaction", hook)
}

// BeforeAssociationInsert registers hook to run inside the insert's transaction
// before the rows are written. An error aborts the insert.
func (s *Store) BeforeAssociationInsert(name string, hook InsertHook) error {
	return s.registerInsertHook("spellcount:before:"+name,
		"gorm:begin_transaction", "gorm:create", hook)
}

func (s *Store) registerInsertHook(callbackName, after, before string, hook InsertHook) error {
	fn := func(db *gorm.DB) {
		if db.Error != nil || !insertsRoleSpells(db.Statement) {
			return
		}
		inserted := collectRoleSpells(db.Statement.ReflectValue)
		if len(inserted) == 0 {
			return
		}
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		if err := hook(ctx, s.boundTo(ctx, db.Statement.ConnPool), inserted); err != nil {
			_ = db.AddError(err)
		}
	}

	create := s.db.Callback().Create()
	if create.Get(callbackName) != nil {
		return create.Replace(callbackName, fn)
	}
	return create.After(after).Before(before).Register(callbackName, fn)
}

// boundTo returns a store running on pool with a clean statement.
// Sessions derived from a running statement would reuse its built SQL.
func (s *Store) boundTo(ctx context.Context, pool gorm.ConnPool) *Store {
	conn := s.db.WithContext(ctx)
	conn.Statement.ConnPool = pool
	return s.withDB(conn)
}

// insertsRoleSpells reports whether stmt writes role_spells rows, aliased or not.
func insertsRoleSpells(stmt *gorm.Statement) bool {
	if stmt.Schema != nil {
		return stmt.Schema.Table == models.RoleSpellTable
	}
	if stmt.Table == models.RoleSpellTable {
		return true
	}
	if stmt.TableExpr == nil {
		return false
	}
	fields := strings.Fields(stmt.TableExpr.SQL)
	return len(fields) > 0 && strings.Trim(fields[0], "`\"") == models.RoleSpellTable
}

// collectRoleSpells extracts the inserted rows from a create statement.
// Structs, pointers, slices and map-based creates are supported.
func collectRoleSpells(rv reflect.Value) []models.RoleSpell {
	rv = reflect.Indirect(rv)
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		var out []models.RoleSpell
		for i := 0; i < rv.Len(); i++ {
			out = append(out, collectRoleSpells(rv.Index(i))...)
		}
		return out
	case reflect.Struct:
		if rs, ok := rv.Interface().(models.RoleSpell); ok {
			return []models.RoleSpell{rs}
		}
	case reflect.Map:
		if m, ok := rv.Interface().(map[string]interface{}); ok {
			return roleSpellFromMap(m)
		}
	case reflect.Interface:
		return collectRoleSpells(rv.Elem())
	}
	return nil
}

func roleSpellFromMap(m map[string]interface{}) []models.RoleSpell {
	var rs models.RoleSpell
	for _, key := range []string{"role_id", "RoleID"} {
		if v, ok := m[key]; ok {
			if id, ok := utils.ToInt64(v); ok {
				rs.RoleID = id
				break
			}
		}
	}
	for _, key := range []string{"spell_id", "SpellID"} {
		if v, ok := m[key]; ok {
			if id, ok := utils.ToInt64(v); ok {
				rs.SpellID = id
				break
			}
		}
	}
	if rs.RoleID == 0 {
		return nil
	}
	return []models.RoleSpell{rs}
}

// translateInsertError maps driver foreign-key failures to ConstraintViolation.
func translateInsertError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConstraintViolation) {
		return err
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) ||
		strings.Contains(strings.ToLower(err.Error()), "foreign key constraint") {
		return &ConstraintViolation{Err: err}
	}
	return fmt.Errorf("failed to insert association: %w", err)
}
