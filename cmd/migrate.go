package cmd

import (
	"spellbook/core/database"
	"spellbook/feature/spellcount/models"

	"github.com/spf13/cobra"
)

// migrateCmd creates or updates the roles, spells and role_spells tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		if err := database.Migrate(a.db, models.All()...); err != nil {
			return err
		}
		a.logger.Info("Database schema migrated")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
