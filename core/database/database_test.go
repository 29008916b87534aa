package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "hogwarts",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle"})
		assert.ErrorContains(t, err, "unsupported database driver")
		assert.Nil(t, db)
	})

	t.Run("SQLite Memory", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
		assert.NoError(t, err)
		assert.NotNil(t, db)

		var fk int
		assert.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
		assert.Equal(t, 1, fk)
	})
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=1&_busy_timeout=30000", sqliteDSN("", 30))
	assert.Equal(t, "file:test.db?cache=shared&_foreign_keys=1&_busy_timeout=5000", sqliteDSN("file:test.db?cache=shared", 5))
}

func TestConfig_IsValidDriver(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		want   bool
	}{
		{"MySQL", DriverMySQL, true},
		{"SQLite", DriverSQLite, true},
		{"Invalid", "postgres", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{Driver: tt.driver}
			assert.Equal(t, tt.want, c.IsValidDriver())
		})
	}
}
