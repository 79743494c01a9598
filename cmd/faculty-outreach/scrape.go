// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/faculty-outreach/internal/pipeline"
)

var scrapeFlagKeys = map[string]string{
	"output-dir":    "scrape.output_dir",
	"limit":         "scrape.faculty_limit",
	"delay":         "scrape.request_delay",
	"scholar-delay": "scrape.scholar_delay",
	"pairing":       "scrape.pairing",
	"use-profiles":  "lookup.use_profiles",
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [url]",
	Short: "Scrape one faculty directory page into a JSON file",
	Long: `Scrape fetches a faculty directory page, extracts professor names and emails,
looks up each professor's most cited papers, summarises their research and writes
the result to a JSON file named after the URL. Without an argument the URL is
read from the scrape.url configuration key.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		bindCommandFlags(cmd, scrapeFlagKeys)
		return nil
	},
	RunE: runScrape,
}

func init() {
	addScrapeFlags(scrapeCmd)
	scrapeCmd.Flags().StringP("output", "o", "", "output file (default: <output-dir>/<name derived from url>.json)")

	rootCmd.AddCommand(scrapeCmd)
}

// addScrapeFlags registers the flags shared by scrape and batch.
func addScrapeFlags(cmd *cobra.Command) {
	cmd.Flags().String("output-dir", defaultOutputDir, "directory for institution JSON files")
	cmd.Flags().Int("limit", 0, "maximum professors per page (default 5)")
	cmd.Flags().Duration("delay", 0, "pause between professors (default 2s)")
	cmd.Flags().Duration("scholar-delay", 0, "extra pause after a successful paper lookup (default 3s)")
	cmd.Flags().String("pairing", "", `name/email pairing: "ai" or "heuristic" (default "ai")`)
	cmd.Flags().Bool("use-profiles", false, "try the Google Scholar profile route before the author search")
}

func runScrape(cmd *cobra.Command, args []string) error {
	url := viper.GetString("scrape.url")
	if len(args) == 1 {
		url = args[0]
	}
	if url == "" {
		return errors.New("provide a faculty directory URL or set scrape.url")
	}

	out := cmd.OutOrStdout()
	scraper, err := newScraper(out)
	if err != nil {
		return err
	}

	result, err := scraper.ScrapeInstitution(cmd.Context(), url)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		dir := viper.GetString("scrape.output_dir")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		path = filepath.Join(dir, pipeline.OutputFileName(url))
	}
	if err := pipeline.WriteInstitution(path, result); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %d professors to %s\n", color.GreenString("saved"), result.TotalProfessors, path)
	return nil
}
