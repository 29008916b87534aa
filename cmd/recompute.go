package cmd

import (
	"fmt"

	"spellbook/feature/spellcount"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// recomputeCmd is the parent command for num_spells recomputes.
var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute num_spells from role_spells",
	Long: `Overwrite roles.num_spells with the live number of role_spells rows.

Examples:
  # Every role, in id order
  recompute all

  # One role by name
  recompute role "Draco Malfoy"`,
}

var recomputeAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Recompute num_spells for every role",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		result, err := spellcount.NewService(a.store, a.logger).RecomputeAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("sweep stopped after %d roles: %w", result.Processed, err)
		}

		fmt.Printf("Recomputed %d roles\n", result.Processed)
		if len(result.Skipped) > 0 {
			a.logger.Warn("Roles skipped", zap.Strings("roles", result.Skipped))
		}
		return nil
	},
}

var recomputeRoleCmd = &cobra.Command{
	Use:   "role <name>",
	Short: "Recompute num_spells for one role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		n, err := spellcount.NewService(a.store, a.logger).RecomputeRole(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s: num_spells=%d\n", args[0], n)
		return nil
	},
}

func init() {
	recomputeCmd.AddCommand(recomputeAllCmd, recomputeRoleCmd)
	RootCmd.AddCommand(recomputeCmd)
}
