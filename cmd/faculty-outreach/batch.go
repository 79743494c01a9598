// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/faculty-outreach/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Scrape every directory URL listed in a CSV file",
	Long: `Batch reads directory URLs from the first column of a CSV file and scrapes
each one in turn, writing one JSON file per URL into the output directory. A URL
that fails is reported and the batch continues.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		bindCommandFlags(cmd, scrapeFlagKeys)
		bindFlag("scrape.urls_csv", cmd.Flags().Lookup("csv"))
		return nil
	},
	RunE: runBatch,
}

func init() {
	addScrapeFlags(batchCmd)
	batchCmd.Flags().String("csv", defaultURLsCSV, "CSV file with one directory URL per row")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	urls, err := pipeline.ReadURLs(viper.GetString("scrape.urls_csv"))
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return errors.New("no http(s) URLs found in the CSV file")
	}

	out := cmd.OutOrStdout()
	scraper, err := newScraper(out)
	if err != nil {
		return err
	}

	outDir := viper.GetString("scrape.output_dir")
	fmt.Fprintf(out, "batch: %d URLs -> %s\n", len(urls), outDir)

	bar := newProgressBar(len(urls), "Scraping directories")
	summary, err := scraper.RunBatch(cmd.Context(), urls, outDir, bar)
	_ = bar.Finish()
	fmt.Fprintln(out)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %d, %s %d, professors %d (of %d URLs)\n",
		color.GreenString("scraped"), summary.Scraped,
		color.RedString("failed"), summary.Failed,
		summary.Professors, summary.Total())
	if summary.HasFailures() {
		return fmt.Errorf("%d URL(s) failed", summary.Failed)
	}
	return nil
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("urls"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}
