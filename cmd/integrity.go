package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"spellbook/core/reconcile"
	"spellbook/feature/integrity"
	"spellbook/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixCounters    bool
	dryRunCounters bool
	yesConfirm     bool
	jsonOutput     bool
	exportReport   bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the database",
	Long:  `Checks the schema against the models and the num_spells counters against role_spells.`,
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		report, err := integrity.NewService(a.db, a.store, nil, a.cfg.Storage, a.logger).CheckSchema()
		if err != nil {
			return err
		}

		for table, tbl := range report.Tables {
			a.logger.Info("Table checked",
				zap.String("table", table),
				zap.String("status", tbl.Status),
				zap.Strings("missing_columns", tbl.MissingColumns),
				zap.Strings("type_mismatches", tbl.TypeMismatches))
		}
		for _, e := range report.Errors {
			a.logger.Error("Schema inspection failed", zap.String("error", e))
		}
		if !report.Matched {
			return fmt.Errorf("schema does not match the models")
		}
		a.logger.Info("Schema matches the models", zap.String("driver", report.Driver))
		return nil
	},
}

// countersCmd represents the integrity counters command
var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Check num_spells against role_spells (report + optionally fix)",
	Long: `Compares every role's num_spells with the live number of role_spells rows.

Examples:
  # Report only
  integrity counters

  # Repair drifted roles (with interactive confirmation)
  integrity counters --fix

  # Repair with auto-confirm and upload the report
  integrity counters --fix --yes --export`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		client, err := a.storageClient(ctx)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		svc := integrity.NewService(a.db, a.store, client, a.cfg.Storage, a.logger)

		// Plan first; mutations only after confirmation.
		opts := reconcile.ReconcileOptions{DoRepair: fixCounters, DryRun: dryRunCounters}
		report, err := svc.CheckCounters(ctx, opts)
		if err != nil {
			return err
		}
		printCounterReport(a.logger, report)

		if fixCounters && !dryRunCounters && len(report.Actions) > 0 {
			if !confirmDestructiveAction() {
				a.logger.Warn("Operation cancelled by user. No changes were made.")
			} else {
				opts.Confirmed = true
				report, err = svc.CheckCounters(ctx, opts)
				if err != nil {
					return fmt.Errorf("failed to apply repairs: %w", err)
				}
				a.logger.Info("Successfully repaired roles", zap.Int("count", report.Repaired))
			}
		} else if dryRunCounters {
			a.logger.Info("Dry-run mode: No changes were made.")
		}

		if jsonOutput {
			filename := fmt.Sprintf("integrity_counters_%d.json", time.Now().Unix())
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON file: %w", err)
			}
			a.logger.Info("Detailed JSON report saved", zap.String("file", filename))
		}

		if exportReport {
			key, err := svc.ExportReport(ctx, report)
			if err != nil {
				return err
			}
			fmt.Printf("Report exported to %s/%s\n", a.cfg.Storage.Bucket, key)
		}

		fmt.Println("\n=== Spell Counter Metrics ===")
		fmt.Printf("Roles: %d\n", report.Summary.TotalItems)
		fmt.Printf("Drifted: %d\n", report.Summary.Drifted)
		fmt.Printf("Repaired: %d\n", report.Repaired)
		fmt.Printf("Execution Time: %s\n", time.Since(startTime).String())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(schemaCmd, countersCmd)

	countersCmd.Flags().BoolVar(&fixCounters, "fix", false, "Repair drifted num_spells values")
	countersCmd.Flags().BoolVar(&dryRunCounters, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	countersCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm repairs (non-interactive)")
	countersCmd.Flags().BoolVar(&jsonOutput, "json", false, "Save the detailed report as JSON")
	countersCmd.Flags().BoolVar(&exportReport, "export", false, "Upload the report to object storage")
}

// printCounterReport logs the summary and a sample of drifted roles.
func printCounterReport(l *zap.Logger, report *checks.CounterReport) {
	s := report.Summary
	l.Info("Counter report",
		zap.Int("total_items", s.TotalItems),
		zap.Int("drifted", s.Drifted),
		zap.Int("orphans", s.Orphans),
		zap.Int("repair_actions", s.RepairActions),
	)

	maxShow := min(5, len(report.Drifted))
	for _, r := range report.Drifted[:maxShow] {
		l.Info("Drifted role",
			zap.String("key", r.Key),
			zap.String("name", r.Name),
			zap.Strings("mismatch", r.Mismatch),
		)
	}
	if len(report.Drifted) > maxShow {
		l.Info("Additional drifted roles not shown", zap.Int("count", len(report.Drifted)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm repairs: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
