// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/faculty-outreach/internal/draft"
	"github.com/pdiddy/faculty-outreach/internal/extract"
	"github.com/pdiddy/faculty-outreach/internal/fetch"
	"github.com/pdiddy/faculty-outreach/internal/heuristics"
	"github.com/pdiddy/faculty-outreach/internal/httputil"
	"github.com/pdiddy/faculty-outreach/internal/llm"
	"github.com/pdiddy/faculty-outreach/internal/pipeline"
	"github.com/pdiddy/faculty-outreach/internal/scholar"
	"github.com/pdiddy/faculty-outreach/internal/secrets"
	"github.com/pdiddy/faculty-outreach/pkg/types"
)

const (
	defaultOutputDir  = "professor-info"
	defaultURLsCSV    = "universities.csv"
	defaultTemplate   = "email-template.txt"
	defaultSenderName = "Faculty Outreach"
)

func setDefaults() {
	viper.SetDefault("scrape.faculty_limit", extract.DefaultFacultyLimit)
	viper.SetDefault("scrape.request_delay", pipeline.DefaultRequestDelay)
	viper.SetDefault("scrape.scholar_delay", pipeline.DefaultScholarDelay)
	viper.SetDefault("scrape.timeout", fetch.DefaultTimeout)
	viper.SetDefault("scrape.pairing", string(types.PairingAI))
	viper.SetDefault("scrape.output_dir", defaultOutputDir)
	viper.SetDefault("scrape.urls_csv", defaultURLsCSV)

	viper.SetDefault("lookup.num_results", scholar.DefaultNumResults)
	viper.SetDefault("lookup.top_k", types.MaxTopPapers)
	viper.SetDefault("lookup.timeout", scholar.DefaultTimeout)
	viper.SetDefault("lookup.profile_timeout", scholar.DefaultProfileTimeout)
	viper.SetDefault("lookup.use_profiles", false)

	viper.SetDefault("ai.model", llm.DefaultModel)
	viper.SetDefault("ai.compose_model", llm.DefaultComposeModel)
	viper.SetDefault("ai.timeout", llm.DefaultTimeout)

	viper.SetDefault("draft.professor_dir", defaultOutputDir)
	viper.SetDefault("draft.template_file", defaultTemplate)
	viper.SetDefault("draft.results_file", draft.DefaultResultsFile)
	viper.SetDefault("draft.subject", draft.DefaultSubject)
	viper.SetDefault("draft.sender_name", defaultSenderName)
	viper.SetDefault("draft.create_drafts", true)
	viper.SetDefault("draft.delay", draft.DefaultDelay)

	viper.SetDefault("mail.imap_addr", draft.DefaultIMAPAddr)
	viper.SetDefault("mail.drafts_mailbox", draft.DefaultDraftsMailbox)
}

// bindFlag binds a flag to a viper key so that an explicitly set flag wins
// over the config file and environment.
func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", f.Name, err))
	}
}

func loadRules() (heuristics.Rules, error) {
	return heuristics.Load(viper.GetString("heuristics_file"))
}

func scrapeConfig() types.ScrapeConfig {
	return types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("scrape.timeout"),
			UserAgent: httputil.BrowserUserAgent,
		},
		FacultyLimit:   viper.GetInt("scrape.faculty_limit"),
		RequestDelay:   viper.GetDuration("scrape.request_delay"),
		ScholarDelay:   viper.GetDuration("scrape.scholar_delay"),
		Pairing:        types.PairingMode(viper.GetString("scrape.pairing")),
		HeuristicsFile: viper.GetString("heuristics_file"),
		OutputDir:      viper.GetString("scrape.output_dir"),
	}
}

func lookupConfig() types.LookupConfig {
	return types.LookupConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("lookup.timeout"),
			UserAgent: httputil.BrowserUserAgent,
		},
		APIKey:         creds.Lookup(secrets.SerpAPIKeyEnv, secrets.SerpAPIKeyFile),
		NumResults:     viper.GetInt("lookup.num_results"),
		TopK:           viper.GetInt("lookup.top_k"),
		UseProfiles:    viper.GetBool("lookup.use_profiles"),
		ProfileTimeout: viper.GetDuration("lookup.profile_timeout"),
	}
}

func aiConfig(model string) types.AIConfig {
	return types.AIConfig{
		Model:   model,
		APIKey:  creds.Lookup(secrets.OpenAIKeyEnv, secrets.OpenAIKeyFile),
		BaseURL: viper.GetString("ai.base_url"),
		Timeout: viper.GetDuration("ai.timeout"),
	}
}

func draftConfig() types.DraftConfig {
	return types.DraftConfig{
		AIConfig:      aiConfig(viper.GetString("ai.compose_model")),
		ProfessorDir:  viper.GetString("draft.professor_dir"),
		TemplateFile:  viper.GetString("draft.template_file"),
		ResumeFile:    viper.GetString("draft.resume_file"),
		ResultsFile:   viper.GetString("draft.results_file"),
		SenderName:    viper.GetString("draft.sender_name"),
		Subject:       viper.GetString("draft.subject"),
		ResearchTopic: viper.GetString("draft.research_topic"),
		CreateDrafts:  viper.GetBool("draft.create_drafts"),
		Delay:         viper.GetDuration("draft.delay"),
	}
}

func mailConfig() types.MailConfig {
	return types.MailConfig{
		IMAPAddr:      viper.GetString("mail.imap_addr"),
		Username:      viper.GetString("mail.username"),
		DraftsMailbox: viper.GetString("mail.drafts_mailbox"),
	}
}

// newScraper wires the fetch, extract, lookup and summary stages. Both API
// keys are required.
func newScraper(out io.Writer) (*pipeline.Scraper, error) {
	cfg := scrapeConfig()
	rules, err := loadRules()
	if err != nil {
		return nil, err
	}

	lookup := lookupConfig()
	if lookup.APIKey == "" {
		return nil, fmt.Errorf("%s not found in environment variables", secrets.SerpAPIKeyEnv)
	}
	model := viper.GetString("ai.model")
	client, err := llm.NewOpenAI(aiConfig(model))
	if err != nil {
		return nil, err
	}

	fetcher := fetch.New(cfg.HTTPConfig)
	filter := extract.NewFilter(rules)

	var pairer extract.NameEmailPairer
	switch cfg.Pairing {
	case types.PairingAI, "":
		pairer = &llm.Pairer{LLM: client, Model: model, Filter: filter}
	case types.PairingHeuristic:
		pairer = &extract.HeuristicPairer{Filter: filter}
	default:
		return nil, fmt.Errorf("unknown pairing mode %q (want %q or %q)", cfg.Pairing, types.PairingAI, types.PairingHeuristic)
	}

	ex := extract.NewExtractor(fetcher, rules, pairer)
	ex.Filter = filter
	ex.Links = &llm.LinkSelector{LLM: client, Model: model}
	ex.Profiles = &llm.ProfileExtractor{LLM: client, Model: model}
	ex.ProfileDelay = cfg.RequestDelay
	ex.Out = out
	if cfg.FacultyLimit > 0 {
		ex.Limit = cfg.FacultyLimit
	}

	return &pipeline.Scraper{
		Fetcher:    fetcher,
		Extractor:  ex,
		Papers:     scholar.New(lookup),
		Summarizer: &llm.Summarizer{LLM: client, Model: model},
		Config:     cfg,
		NumResults: lookup.NumResults,
		Out:        out,
	}, nil
}

// bindCommandFlags binds cmd's flags to viper keys. It runs from PreRunE so
// that commands sharing a key each bind their own flag.
func bindCommandFlags(cmd *cobra.Command, keys map[string]string) {
	for name, key := range keys {
		bindFlag(key, cmd.Flags().Lookup(name))
	}
}
