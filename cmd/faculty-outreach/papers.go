// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/faculty-outreach/internal/scholar"
)

var papersCmd = &cobra.Command{
	Use:   "papers <name>",
	Short: "Look up a professor's most cited papers on Google Scholar",
	Long: `Papers runs the publication lookup for one author name through SerpAPI and
prints the top papers ranked by citation count.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		bindCommandFlags(cmd, map[string]string{
			"num":          "lookup.num_results",
			"use-profiles": "lookup.use_profiles",
		})
		return nil
	},
	RunE: runPapers,
}

func init() {
	papersCmd.Flags().String("email", "", "professor email, recorded on lookup errors")
	papersCmd.Flags().Int("num", 0, "number of search results requested (default 10)")
	papersCmd.Flags().Bool("use-profiles", false, "try the Google Scholar profile route first")
	papersCmd.Flags().Bool("json", false, "print the result as JSON")

	rootCmd.AddCommand(papersCmd)
}

func runPapers(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	client := scholar.New(lookupConfig())
	res, err := client.Lookup(cmd.Context(), args[0], email, viper.GetInt("lookup.num_results"))
	if err != nil {
		return fmt.Errorf("%s lookup: %w", scholar.KindOf(err), err)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(out, "%s %d papers for %s (route %s)\n",
		color.GreenString("found"), res.TotalFound, args[0], res.Route)
	for _, p := range res.Papers {
		fmt.Fprintf(out, "%d. %s\n   %s\n   %s %d\n", p.Rank, p.Title, p.AuthorsSummary,
			color.CyanString("citations:"), p.CitationCount)
	}
	return nil
}
