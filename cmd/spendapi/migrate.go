package main

import (
	"fmt"

	"github.com/fedspend/spendapi/db"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database and print its schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			dbConn, err := db.New(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer dbConn.Close()

			version, err := db.Version(dbConn)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s at version %d\n", cfg.DatabasePath, version)
			return nil
		},
	}
}
