// Package main provides the profilectl CLI for managing company profiles.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "profilectl",
	Short: "Build, import and inspect company matching profiles",
	Long:  "profilectl aggregates scraped job postings into company profiles and moves profile sets between JSON files and Postgres.",
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
