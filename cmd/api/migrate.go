package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kanehiroyuu/post-api/internal/common/logging"
	"github.com/kanehiroyuu/post-api/internal/infrastructure/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users and post tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			logger := logging.NewLogger(os.Stdout, p.LogLevel)

			db, err := database.Open(cmd.Context(), p.DBDriver, p.DSN(), false)
			if err != nil {
				return errors.Wrap(err, "failed to connect to database")
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db, p.DBDriver); err != nil {
				return err
			}
			logger.WithField("db.driver", p.DBDriver).Info("Schema is up to date")
			return nil
		},
	}
}
