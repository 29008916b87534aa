package cmd

import (
	"fmt"

	"spellbook/feature/spellcount"

	"github.com/spf13/cobra"
)

// associateCmd links a role to a spell by name.
var associateCmd = &cobra.Command{
	Use:   "associate <role> <spell>",
	Short: "Link a role to a spell",
	Long:  `Inserts a role_spells row. The role's num_spells is maintained in the same transaction.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		rs, n, err := spellcount.NewService(a.store, a.logger).AddAssociation(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Linked %s -> %s (role_spells.id=%d, num_spells=%d)\n", args[0], args[1], rs.ID, n)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(associateCmd)
}
