package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database extensions and tables",
	RunE: func(*cobra.Command, []string) error {
		db, err := connectDB()
		if err != nil {
			return err
		}
		if err := migrate(db); err != nil {
			return err
		}
		zlog.Info("migration finished")
		return nil
	},
}
