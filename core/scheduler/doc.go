// Package scheduler runs periodic jobs from cron expressions.
//
// Expressions are parsed and validated with gronx. The server uses a Scheduler to run the
// bulk num_spells sweep when sweep.schedule is configured.
package scheduler
