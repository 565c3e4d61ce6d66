package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/adapter"
)

var showQueries bool

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List the configured companies",
	Long:  "Prints the companies searched on each run, in order, optionally with the exact query sent for each.",
	RunE:  runCompanies,
}

func init() {
	companiesCmd.Flags().BoolVarP(&showQueries, "queries", "q", false, "print the search query for each company")
	rootCmd.AddCommand(companiesCmd)
}

func runCompanies(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false, false)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-4s %s\n", "#", "Company")
	fmt.Fprintln(out, strings.Repeat("─", 47))

	for i, c := range cfg.Companies {
		fmt.Fprintf(out, "%-4d %s\n", i+1, c)
		if showQueries {
			fmt.Fprintf(out, "     %s\n", adapter.BuildQuery(cfg.SerpAPI.RoleQuery, c, cfg.SerpAPI.SitesHint))
		}
	}

	fmt.Fprintf(out, "\nTotal: %d companies, up to %d jobs per digest\n", len(cfg.Companies), cfg.MaxResults)
	return nil
}
