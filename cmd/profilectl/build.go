package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resume-matcher/internal/match"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Aggregate scraped job postings into company profiles",
	Long:  "Read a JSON array of job postings ({company, title, description}), aggregate one profile per company and write the result to a profile JSON file.",
	RunE:  runBuild,
}

var (
	buildPostingsFile string
	buildOutFile      string
)

func init() {
	buildCmd.Flags().StringVarP(&buildPostingsFile, "postings", "p", "", "Path to the scraped postings JSON file (required)")
	buildCmd.Flags().StringVarP(&buildOutFile, "out", "o", "", "Path for the produced profile JSON file (required)")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(_ *cobra.Command, _ []string) error {
	if buildPostingsFile == "" || buildOutFile == "" {
		return fmt.Errorf("--postings and --out are required")
	}

	raw, err := os.ReadFile(buildPostingsFile)
	if err != nil {
		return fmt.Errorf("read postings: %w", err)
	}

	var postings []match.JobPosting
	if err := json.Unmarshal(raw, &postings); err != nil {
		return fmt.Errorf("parse postings: %w", err)
	}

	profiles := match.BuildProfiles(postings)

	store := &match.JSONStore{Path: buildOutFile}
	if err := store.Save(context.Background(), profiles); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}

	fmt.Printf("built %d profiles from %d postings -> %s\n", len(profiles), len(postings), buildOutFile)
	return nil
}
