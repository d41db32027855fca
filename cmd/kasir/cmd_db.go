package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/database/seeders"
	"github.com/shashiranjanraj/kasir/pkg/database"
	"github.com/shashiranjanraj/kasir/pkg/migration"
)

// withDB boots config, logger and database around fn.
func withDB(ctx context.Context, fn func(db *gorm.DB) error) error {
	cfg, closeLog, err := boot()
	if err != nil {
		return err
	}
	defer closeLog()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck

	return fn(db)
}

// kasir migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(db *gorm.DB) error {
			ran, err := migration.New(db).Run(cmd.Context())
			for _, name := range ran {
				fmt.Println("Migrated:", name)
			}
			if err == nil && len(ran) == 0 {
				fmt.Println("Nothing to migrate.")
			}
			return err
		})
	},
}

// kasir migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(db *gorm.DB) error {
			rolled, err := migration.New(db).Rollback(cmd.Context())
			for _, name := range rolled {
				fmt.Println("Rolled back:", name)
			}
			if err == nil && len(rolled) == 0 {
				fmt.Println("Nothing to roll back.")
			}
			return err
		})
	},
}

// kasir migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(db *gorm.DB) error {
			statuses, err := migration.New(db).Status(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "RAN\tBATCH\tMIGRATION")
			for _, s := range statuses {
				ran, batch := "No", "-"
				if s.Ran {
					ran, batch = "Yes", fmt.Sprint(s.Batch)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, s.Name)
			}
			return w.Flush()
		})
	},
}

// kasir seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account and the sample catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(db *gorm.DB) error {
			ran, err := seeders.RunAll(cmd.Context(), db)
			for _, name := range ran {
				fmt.Println("Seeded:", name)
			}
			return err
		})
	},
}
