package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateVersion uint

// migrateCmd applies the embedded schema migrations.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	Long: `Apply the embedded schema migrations to the database named by the DB_*
environment variables. With --version the schema is moved to exactly that
version, up or down; without it every pending migration is applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		st, err := openStore(cmd.Context(), rt.logger)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(migrateVersion, verbose); err != nil {
			return err
		}
		fmt.Println("Migrations applied.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().UintVar(&migrateVersion, "version", 0, "Target schema version (0 applies every pending migration)")
}
