package spellcount_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"spellbook/feature/spellcount"
	"spellbook/feature/spellcount/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestFindRoleByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	role, err := f.store.FindRoleByName(ctx, "Harry Potter")
	require.NoError(t, err)
	assert.Equal(t, f.roles["Harry Potter"], role.ID)
	assert.Equal(t, "Gryffindor", role.House)

	_, err = f.store.FindRoleByName(ctx, "Tom Riddle")
	assert.ErrorIs(t, err, spellcount.ErrNotFound)

	var nf *spellcount.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "role", nf.Kind)
	assert.Equal(t, "role name not found: Tom Riddle", err.Error())
}

func TestFindRoleByName_ExactMatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.FindRoleByName(context.Background(), "harry potter ")
	assert.ErrorIs(t, err, spellcount.ErrNotFound)
}

func TestAllRoleNames_SnapshotInIDOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	names, err := f.store.AllRoleNames(ctx)
	require.NoError(t, err)

	// Rows added after the snapshot are not visible to it.
	require.NoError(t, f.db.Create(&models.Role{Name: "Ron Weasley"}).Error)

	want := []string{"Draco Malfoy", "Harry Potter", "Hermione Granger"}
	assert.Equal(t, want, slices.Collect(names))
	assert.Equal(t, want, slices.Collect(names), "ranging twice replays the snapshot")
}

func TestAllRoleNames_Empty(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Exec("DELETE FROM roles").Error)

	names, err := f.store.AllRoleNames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, slices.Collect(names))
}

func TestFindRoleByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	role, err := f.store.FindRoleByID(ctx, f.roles["Hermione Granger"])
	require.NoError(t, err)
	assert.Equal(t, "Hermione Granger", role.Name)

	_, err = f.store.FindRoleByID(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetRoleSpellCount(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.store.SetRoleSpellCount(context.Background(), f.roles["Draco Malfoy"], 42))
	assert.EqualValues(t, 42, f.numSpells(t, "Draco Malfoy"))
	assert.EqualValues(t, 0, f.numSpells(t, "Harry Potter"))
}

func TestRecount(t *testing.T) {
	f := newFixture(t)
	f.rawInsert(t, "Hermione Granger", "Accio")
	f.rawInsert(t, "Hermione Granger", "Lumos")
	require.NoError(t, f.store.SetRoleSpellCount(context.Background(), f.roles["Hermione Granger"], 9))

	n, err := f.store.Recount(context.Background(), f.roles["Hermione Granger"])
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.EqualValues(t, 2, f.numSpells(t, "Hermione Granger"))
}

func TestInsertAssociation_MaintainsCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.store.InsertAssociation(ctx, &models.RoleSpell{RoleID: f.roles["Draco Malfoy"], SpellID: f.spells["Accio"]})
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.numSpells(t, "Draco Malfoy"))

	err = f.store.InsertAssociation(ctx, &models.RoleSpell{RoleID: f.roles["Draco Malfoy"], SpellID: f.spells["Expelliarmus"]})
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.numSpells(t, "Draco Malfoy"))

	// Other roles are untouched.
	assert.EqualValues(t, 0, f.numSpells(t, "Harry Potter"))
}

func TestInsertAssociation_CorrectsPreexistingDrift(t *testing.T) {
	f := newFixture(t)
	f.rawInsert(t, "Harry Potter", "Accio")
	f.rawInsert(t, "Harry Potter", "Lumos")
	assert.EqualValues(t, 0, f.numSpells(t, "Harry Potter"))

	err := f.store.InsertAssociation(context.Background(),
		&models.RoleSpell{RoleID: f.roles["Harry Potter"], SpellID: f.spells["Expelliarmus"]})
	require.NoError(t, err)
	assert.EqualValues(t, 3, f.numSpells(t, "Harry Potter"))
}

func TestInsertAssociation_DanglingRole(t *testing.T) {
	f := newFixture(t)

	err := f.store.InsertAssociation(context.Background(), &models.RoleSpell{RoleID: 999, SpellID: f.spells["Accio"]})
	require.Error(t, err)
	assert.ErrorIs(t, err, spellcount.ErrConstraintViolation)

	var cv *spellcount.ConstraintViolation
	require.True(t, errors.As(err, &cv))
	assert.Equal(t, "role_id", cv.Column)
	assert.EqualValues(t, 999, cv.Value)

	var total int64
	require.NoError(t, f.db.Model(&models.RoleSpell{}).Count(&total).Error)
	assert.Zero(t, total)
	for name := range f.roles {
		assert.EqualValues(t, 0, f.numSpells(t, name))
	}
}

func TestInsertAssociation_DanglingSpell(t *testing.T) {
	f := newFixture(t)

	err := f.store.InsertAssociation(context.Background(), &models.RoleSpell{RoleID: f.roles["Draco Malfoy"], SpellID: 999})
	assert.ErrorIs(t, err, spellcount.ErrConstraintViolation)

	var total int64
	require.NoError(t, f.db.Model(&models.RoleSpell{}).Count(&total).Error)
	assert.Zero(t, total)
	assert.EqualValues(t, 0, f.numSpells(t, "Draco Malfoy"))
}

func TestCreate_BatchRecountsEachRole(t *testing.T) {
	f := newFixture(t)

	batch := []models.RoleSpell{
		{RoleID: f.roles["Harry Potter"], SpellID: f.spells["Accio"]},
		{RoleID: f.roles["Hermione Granger"], SpellID: f.spells["Lumos"]},
		{RoleID: f.roles["Harry Potter"], SpellID: f.spells["Expelliarmus"]},
		{RoleID: f.roles["Harry Potter"], SpellID: f.spells["Stupefy"]},
	}
	require.NoError(t, f.db.Create(&batch).Error)

	assert.EqualValues(t, 3, f.numSpells(t, "Harry Potter"))
	assert.EqualValues(t, 1, f.numSpells(t, "Hermione Granger"))
	assert.EqualValues(t, 0, f.numSpells(t, "Draco Malfoy"))
}

func TestCreate_SingleRowWrittenOnce(t *testing.T) {
	f := newFixture(t)

	rs := models.RoleSpell{RoleID: f.roles["Draco Malfoy"], SpellID: f.spells["Accio"]}
	require.NoError(t, f.db.Create(&rs).Error)
	assert.NotZero(t, rs.ID)

	var total int64
	require.NoError(t, f.db.Model(&models.RoleSpell{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)
	assert.EqualValues(t, 1, f.numSpells(t, "Draco Malfoy"))
}

func TestCreate_MapWithTable(t *testing.T) {
	f := newFixture(t)

	err := f.db.Table(models.RoleSpellTable).Create(map[string]interface{}{
		"role_id":  f.roles["Hermione Granger"],
		"spell_id": f.spells["Lumos"],
	}).Error
	require.NoError(t, err)

	assert.EqualValues(t, 1, f.liveCount(t, "Hermione Granger"))
	assert.EqualValues(t, 1, f.numSpells(t, "Hermione Granger"))
}

func TestCreate_DanglingRoleRollsBack(t *testing.T) {
	f := newFixture(t)

	err := f.db.Create(&models.RoleSpell{RoleID: 999, SpellID: f.spells["Accio"]}).Error
	assert.ErrorIs(t, err, spellcount.ErrConstraintViolation)

	var total int64
	require.NoError(t, f.db.Model(&models.RoleSpell{}).Count(&total).Error)
	assert.Zero(t, total)
}

func TestCreate_UnrelatedTablesIgnored(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.db.Create(&models.Spell{Name: "Obliviate"}).Error)
	for name := range f.roles {
		assert.EqualValues(t, 0, f.numSpells(t, name))
	}
}

func TestAddAssociation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rs, err := f.store.AddAssociation(ctx, "Draco Malfoy", "Stupefy")
	require.NoError(t, err)
	assert.NotZero(t, rs.ID)
	assert.Equal(t, f.roles["Draco Malfoy"], rs.RoleID)
	assert.Equal(t, f.spells["Stupefy"], rs.SpellID)
	assert.EqualValues(t, 1, f.numSpells(t, "Draco Malfoy"))

	_, err = f.store.AddAssociation(ctx, "Draco Malfoy", "Avada Kedavra")
	assert.ErrorIs(t, err, spellcount.ErrNotFound)

	_, err = f.store.AddAssociation(ctx, "Nobody", "Accio")
	assert.ErrorIs(t, err, spellcount.ErrNotFound)

	_, err = f.store.AddAssociation(ctx, " ", "Accio")
	assert.ErrorIs(t, err, spellcount.ErrValidation)

	_, err = f.store.AddAssociation(ctx, "Draco Malfoy", "")
	assert.ErrorIs(t, err, spellcount.ErrValidation)

	assert.EqualValues(t, 1, f.numSpells(t, "Draco Malfoy"))
}

func TestOnAssociationInsert_ErrorRollsBackInsert(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")

	require.NoError(t, f.store.OnAssociationInsert("failing", func(ctx context.Context, tx *spellcount.Store, inserted []models.RoleSpell) error {
		return boom
	}))

	err := f.store.InsertAssociation(context.Background(),
		&models.RoleSpell{RoleID: f.roles["Draco Malfoy"], SpellID: f.spells["Accio"]})
	assert.ErrorIs(t, err, boom)

	var total int64
	require.NoError(t, f.db.Model(&models.RoleSpell{}).Count(&total).Error)
	assert.Zero(t, total)
	assert.EqualValues(t, 0, f.numSpells(t, "Draco Malfoy"))
}

func TestOnAssociationInsert_ReplaceByName(t *testing.T) {
	f := newFixture(t)
	var calls []string

	require.NoError(t, f.store.OnAssociationInsert("observer", func(ctx context.Context, tx *spellcount.Store, inserted []models.RoleSpell) error {
		calls = append(calls, "first")
		return nil
	}))
	require.NoError(t, f.store.OnAssociationInsert("observer", func(ctx context.Context, tx *spellcount.Store, inserted []models.RoleSpell) error {
		calls = append(calls, "second")
		assert.Len(t, inserted, 1)
		return nil
	}))

	_, err := f.store.AddAssociation(context.Background(), "Harry Potter", "Lumos")
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, calls)
}

func TestNewStore_RegistersMaintainerOnce(t *testing.T) {
	f := newFixture(t)

	// A second store on the same connection replaces the hook instead of stacking it.
	_, err := spellcount.NewStore(f.db, zap.NewNop())
	require.NoError(t, err)

	_, err = f.store.AddAssociation(context.Background(), "Harry Potter", "Lumos")
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.numSpells(t, "Harry Potter"))
}
