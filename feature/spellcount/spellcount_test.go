package spellcount_test

import (
	"context"
	"testing"

	"spellbook/core/database"
	"spellbook/feature/spellcount"
	"spellbook/feature/spellcount/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	store   *spellcount.Store
	service *spellcount.Service
	roles   map[string]int64
	spells  map[string]int64
}

// newFixture opens an in-memory database with three roles and four spells.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))

	logger := zap.NewNop()
	store, err := spellcount.NewStore(db, logger)
	require.NoError(t, err)

	f := &fixture{
		db:      db,
		store:   store,
		service: spellcount.NewService(store, logger),
		roles:   map[string]int64{},
		spells:  map[string]int64{},
	}

	for _, r := range []models.Role{
		{Name: "Draco Malfoy", House: "Slytherin", Gender: "Male"},
		{Name: "Harry Potter", House: "Gryffindor", Gender: "Male"},
		{Name: "Hermione Granger", House: "Gryffindor", Gender: "Female"},
	} {
		require.NoError(t, db.Create(&r).Error)
		f.roles[r.Name] = r.ID
	}
	for _, s := range []models.Spell{
		{Name: "Accio", SpellType: "Charm"},
		{Name: "Expelliarmus", SpellType: "Charm"},
		{Name: "Lumos", SpellType: "Charm"},
		{Name: "Stupefy", SpellType: "Spell"},
	} {
		require.NoError(t, db.Create(&s).Error)
		f.spells[s.Name] = s.ID
	}
	return f
}

// rawInsert writes a role_spells row without going through gorm's create callbacks,
// the way a bulk loader would.
func (f *fixture) rawInsert(t *testing.T, role, spell string) {
	t.Helper()
	err := f.db.Exec("INSERT INTO role_spells (role_id, spell_id) VALUES (?, ?)",
		f.roles[role], f.spells[spell]).Error
	require.NoError(t, err)
}

func (f *fixture) numSpells(t *testing.T, role string) int64 {
	t.Helper()
	var r models.Role
	require.NoError(t, f.db.First(&r, f.roles[role]).Error)
	return r.NumSpells
}

func (f *fixture) liveCount(t *testing.T, role string) int64 {
	t.Helper()
	n, err := f.store.CountAssociationsForRole(context.Background(), f.roles[role])
	require.NoError(t, err)
	return n
}
