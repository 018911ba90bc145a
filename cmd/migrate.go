package cmd

import (
	"fmt"

	"StreamingMusical/db"
	"StreamingMusical/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := db.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		if err := db.AutoMigrate(gdb); err != nil {
			return err
		}
		logger.Info("[Migrate] Schema up to date", logger.String("driver", cfg.DBDriver))
		fmt.Printf("Migrated %d tables on %s\n", len(db.Models), cfg.DBDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
