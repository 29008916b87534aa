package scheduler

// Config holds configuration for the periodic counter sweep.
type Config struct {
	// Schedule is a cron expression (5 fields, or 6 with leading seconds). Empty disables the sweep.
	Schedule string `mapstructure:"schedule" default:""`
}
