package models

// Table names of the schema. Role and Spell rows are loaded externally;
// the spellcount package only writes role_spells rows and roles.num_spells.
const (
	RoleTable      = "roles"
	SpellTable     = "spells"
	RoleSpellTable = "role_spells"
)

// Role is a character. NumSpells caches the number of role_spells rows referencing it.
type Role struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"column:name;type:varchar(100);not null;uniqueIndex" json:"name"`
	House     string `gorm:"column:house;type:varchar(20)" json:"house,omitempty"`
	Gender    string `gorm:"column:gender;type:varchar(10)" json:"gender,omitempty"`
	EyeColor  string `gorm:"column:eye_color;type:varchar(20)" json:"eye_color,omitempty"`
	HairColor string `gorm:"column:hair_color;type:varchar(20)" json:"hair_color,omitempty"`
	NumSpells int64  `gorm:"column:num_spells;not null;default:0" json:"num_spells"`
}

// TableName overrides the table name for Role.
func (Role) TableName() string {
	return RoleTable
}

// Spell is read-only from the counter's point of view.
type Spell struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"column:name;type:varchar(100);not null;uniqueIndex" json:"name"`
	SpellType string `gorm:"column:spell_type;type:varchar(50)" json:"spell_type,omitempty"`
}

// TableName overrides the table name for Spell.
func (Spell) TableName() string {
	return SpellTable
}

// RoleSpell links a role to a spell. Rows are append-only.
type RoleSpell struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RoleID  int64 `gorm:"column:role_id;not null;index" json:"role_id"`
	SpellID int64 `gorm:"column:spell_id;not null;index" json:"spell_id"`

	// Only used by AutoMigrate to declare the foreign keys; left nil on insert.
	Role  *Role  `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Spell *Spell `gorm:"foreignKey:SpellID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// TableName overrides the table name for RoleSpell.
func (RoleSpell) TableName() string {
	return RoleSpellTable
}

// All returns the models in migration order.
func All() []any {
	return []any{&Role{}, &Spell{}, &RoleSpell{}}
}
