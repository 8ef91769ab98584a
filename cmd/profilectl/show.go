package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"resume-matcher/internal/match"
	"resume-matcher/internal/shared/storage/db"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the loaded company profiles",
	Long:  "Load company profiles from a JSON file or from Postgres and print a per-company summary.",
	RunE:  runShow,
}

var (
	showPath  string
	showDBURL string
)

func init() {
	showCmd.Flags().StringVarP(&showPath, "path", "p", "", "Path to a profile JSON file")
	showCmd.Flags().StringVar(&showDBURL, "db-url", "", "Database URL (defaults to DATABASE_URL when --path is not set)")

	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	store, cleanup, err := showStore(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	profiles, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tJOBS\tAVG EXP\tMIN\tMAX")
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%.1f\n",
			p.CompanyName, p.JobCount, p.AvgExperienceRequired, p.MinExperience, p.MaxExperience)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("%d profiles\n", len(profiles))
	return nil
}

func showStore(ctx context.Context) (match.ProfileStore, func(), error) {
	if showPath != "" {
		return &match.JSONStore{Path: showPath}, func() {}, nil
	}

	dbURL := showDBURL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return nil, nil, fmt.Errorf("provide --path or a database URL (DATABASE_URL / --db-url)")
	}

	conn, err := db.Connect(ctx, dbURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return &match.PGStore{DB: conn}, func() { conn.Close() }, nil
}
