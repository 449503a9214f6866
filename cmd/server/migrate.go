package main

import (
	"github.com/anonto42/vidtube/backend/internal/router"
	"github.com/anonto42/vidtube/backend/pkg/config"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create MongoDB indexes and the relation table",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.InitDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.CloseDB()
		return router.Migrate(cmd.Context(), db)
	},
}
