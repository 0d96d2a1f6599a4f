// Command residentctl runs maintenance tasks against the platform database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "residentctl",
		Short: "Maintenance commands for the resident platform",
		Long: `residentctl talks to the same database as the API server and reads the
same configuration (.env, CONFIG_FILE and environment variables).`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(resetPasswordCmd())
	rootCmd.AddCommand(ensureAdminCmd())
	rootCmd.AddCommand(migrateStorageCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
