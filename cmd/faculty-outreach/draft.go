// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/emersion/go-message/mail"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/faculty-outreach/internal/draft"
	"github.com/pdiddy/faculty-outreach/internal/llm"
	"github.com/pdiddy/faculty-outreach/internal/secrets"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Generate outreach emails and save them as Gmail drafts",
	Long: `Draft loads every institution JSON file from the professor directory, renders
the email template for each professor with their research summary and best
matching paper, asks the language model for the email text and appends the
result to the drafts mailbox over IMAP. A summary of every professor is written
to the results file.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		bindCommandFlags(cmd, map[string]string{
			"professor-dir": "draft.professor_dir",
			"template":      "draft.template_file",
			"resume":        "draft.resume_file",
			"results":       "draft.results_file",
			"subject":       "draft.subject",
			"topic":         "draft.research_topic",
			"sender-name":   "draft.sender_name",
			"delay":         "draft.delay",
			"username":      "mail.username",
			"imap-addr":     "mail.imap_addr",
			"mailbox":       "mail.drafts_mailbox",
		})
		if noDrafts, _ := cmd.Flags().GetBool("no-drafts"); noDrafts {
			viper.Set("draft.create_drafts", false)
		}
		return nil
	},
	RunE: runDraft,
}

func init() {
	draftCmd.Flags().String("professor-dir", defaultOutputDir, "directory of institution JSON files")
	draftCmd.Flags().String("template", defaultTemplate, "email prompt template with {prof_context} and {paper_context}")
	draftCmd.Flags().String("resume", "", "file attached to every draft")
	draftCmd.Flags().String("results", draft.DefaultResultsFile, "where to write the generation results")
	draftCmd.Flags().String("subject", draft.DefaultSubject, "email subject")
	draftCmd.Flags().String("topic", "", "research topic recorded in the results")
	draftCmd.Flags().String("sender-name", defaultSenderName, "display name on the From header")
	draftCmd.Flags().Duration("delay", 0, "pause between professors (default 1s)")
	addMailFlags(draftCmd)
	draftCmd.Flags().String("mailbox", draft.DefaultDraftsMailbox, "drafts mailbox")
	draftCmd.Flags().Bool("no-drafts", false, "generate emails without saving drafts")

	rootCmd.AddCommand(draftCmd)
}

// addMailFlags registers the mailbox login flags.
func addMailFlags(cmd *cobra.Command) {
	cmd.Flags().String("username", "", "mailbox login and From address")
	cmd.Flags().String("imap-addr", draft.DefaultIMAPAddr, "IMAP-over-TLS server host:port")
}

func runDraft(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := draftConfig()
	mailCfg := mailConfig()

	tmpl, err := draft.LoadTemplate(cfg.TemplateFile)
	if err != nil {
		return err
	}
	professors, err := draft.LoadProfessors(cfg.ProfessorDir, out)
	if err != nil {
		return err
	}
	if len(professors) == 0 {
		return fmt.Errorf("no professors with a name and email found in %s", cfg.ProfessorDir)
	}

	client, err := llm.NewOpenAI(cfg.AIConfig)
	if err != nil {
		return err
	}
	rules, err := loadRules()
	if err != nil {
		return err
	}

	var store draft.DraftStore
	if cfg.CreateDrafts {
		if mailCfg.Username == "" {
			return errors.New("mail.username is required to save drafts (or pass --no-drafts)")
		}
		pw, err := creds.IMAPPassword(secrets.IMAPKeyringAccount(mailCfg.Username, mailCfg.IMAPAddr))
		if err != nil {
			return err
		}
		mailCfg.Password = pw
		store = draft.NewIMAPStore(mailCfg)
	}

	fmt.Fprintf(out, "drafting %d professors (template %s, drafts %t)\n",
		len(professors), cfg.TemplateFile, cfg.CreateDrafts)

	d := &draft.Drafter{
		Composer:      &llm.Composer{LLM: client, Model: cfg.Model},
		Store:         store,
		Config:        cfg,
		From:          mail.Address{Name: cfg.SenderName, Address: mailCfg.Username},
		BoldPhrases:   rules.BoldPhrases,
		PaperKeywords: rules.PaperKeywords,
		Out:           out,
	}
	results, runErr := d.Run(cmd.Context(), professors, tmpl)

	if err := draft.WriteResults(cfg.ResultsFile, results); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	s := results.Summary
	fmt.Fprintf(out, "%s %d, %s %d, drafts %d of %d professors; results in %s\n",
		color.GreenString("generated"), s.SuccessfulEmails,
		color.RedString("failed"), s.FailedEmails,
		s.SuccessfulDrafts, s.TotalProfessors, cfg.ResultsFile)
	if results.HasFailures() {
		return fmt.Errorf("%d email(s) failed", s.FailedEmails)
	}
	return nil
}
