package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-matcher/internal/match"
	"resume-matcher/internal/shared/storage/db"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a profile JSON file into Postgres",
	Long:  "Load a profile JSON file and upsert every profile into the company_profiles table. Reads DATABASE_URL unless --db-url is given.",
	RunE:  runImport,
}

var (
	importInFile string
	importDBURL  string
)

func init() {
	importCmd.Flags().StringVarP(&importInFile, "in", "i", "", "Path to the profile JSON file (required)")
	importCmd.Flags().StringVar(&importDBURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")

	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, _ []string) error {
	if importInFile == "" {
		return fmt.Errorf("--in is required")
	}
	dbURL := importDBURL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL or use --db-url)")
	}

	ctx := context.Background()

	src := &match.JSONStore{Path: importInFile}
	profiles, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("read profiles: %w", err)
	}
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles found in %s", importInFile)
	}

	conn, err := db.Connect(ctx, dbURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	dst := &match.PGStore{DB: conn}
	if err := dst.Save(ctx, profiles); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	fmt.Printf("imported %d profiles from %s\n", len(profiles), importInFile)
	return nil
}
