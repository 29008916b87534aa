// Package database handles database connections, migrations and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections from the
// application's configuration. SQLite is opened with foreign keys enabled and a single
// connection so that in-memory databases behave like one shared database.
//
// # Connect
//
// Connect picks the dialector from Config.Driver, tunes the pool and pings the server.
// Errors are translated by GORM (TranslateError) so callers can match
// gorm.ErrForeignKeyViolated and gorm.ErrDuplicatedKey regardless of driver.
//
// # Schema Inspection
//
// GetTableColumns returns the live column definitions of a table. The integrity feature
// compares them with the expected GORM models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "roles")
package database
