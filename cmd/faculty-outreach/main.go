// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the faculty-outreach CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/faculty-outreach/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// creds resolves API keys from the environment, .secrets/ and .env.
var creds secrets.Resolver

// syncLogger flushes the global zap logger on exit.
var syncLogger = func() {}

// rootCmd is the base command for the faculty-outreach CLI.
var rootCmd = &cobra.Command{
	Use:   "faculty-outreach",
	Short: "Scrape faculty directories and draft research outreach emails",
	Long: `faculty-outreach collects professor contact details from university faculty
directory pages, looks up their publications on Google Scholar, summarises their
research, and drafts personalised outreach emails into a Gmail drafts folder.

The scrape and batch commands write one JSON file per directory page. The draft
command reads those files back and saves one draft per professor.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		sync, err := setupLogger(verbose)
		if err != nil {
			return err
		}
		syncLogger = sync

		files, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		dotenv, err := secrets.LoadDotEnv(secrets.DefaultDotEnv)
		if err != nil {
			return err
		}
		creds = secrets.Resolver{Files: files, DotEnv: dotenv}
		if len(files) > 0 {
			keys := make([]string, 0, len(files))
			for k := range files {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./faculty-outreach.yaml or ~/.config/faculty-outreach/config.yaml)")
	rootCmd.PersistentFlags().String("heuristics", "", "YAML file overriding the built-in word lists and selectors")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log diagnostics at debug level")
	bindFlag("heuristics_file", rootCmd.PersistentFlags().Lookup("heuristics"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("faculty-outreach")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "faculty-outreach"))
		}
	}

	viper.SetEnvPrefix("FACULTY_OUTREACH")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	syncLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}
