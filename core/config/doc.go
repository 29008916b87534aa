// Package config provides configuration management for spellbook.
//
// It uses Viper to read environment variables (optionally seeded from a .env file via
// godotenv). Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key
//   - Database: driver (mysql, sqlite), connection details, auto-migrate flag
//   - Log: level and format
//   - Storage: S3/MinIO settings for drift report exports
//   - Sweep: cron schedule of the periodic num_spells sweep
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Database.Driver)
package config
