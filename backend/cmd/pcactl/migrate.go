package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pca-portal/backend/pkg/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			sqlDB, err := e.db.DB()
			if err != nil {
				return err
			}
			if err := database.RunMigrations(sqlDB, e.cfg.Database.Driver, e.logger); err != nil {
				return err
			}

			version, dirty, err := database.MigrationVersion(sqlDB, e.cfg.Database.Driver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema na versão %d (dirty=%t)\n", version, dirty)
			return nil
		},
	}
}
