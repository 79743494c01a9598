// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/faculty-outreach/internal/httputil"
	"github.com/pdiddy/faculty-outreach/pkg/types"
)

const (
	DefaultSubject     = "Research question & Mentorship advice request"
	DefaultResultsFile = "generated_emails.json"
	DefaultDelay       = time.Second

	previewChars = 200
)

// Composer turns a rendered prompt into email prose.
type Composer interface {
	Compose(ctx context.Context, prompt string) (string, error)
}

// Drafter generates one email per professor and optionally saves each as a
// draft. Store may be nil when drafts are not requested.
type Drafter struct {
	Composer Composer
	Store    DraftStore
	Config   types.DraftConfig

	// From is the sender address placed on every draft.
	From mail.Address

	BoldPhrases   []string
	PaperKeywords []string

	// Out receives progress lines. Nil discards them.
	Out io.Writer

	Now      func() time.Time
	NewRunID func() string
}

// Run drafts emails for professors using tmpl. Generation and draft
// failures are recorded per professor; only a cancelled context stops the
// run early.
func (d *Drafter) Run(ctx context.Context, professors []Professor, tmpl string) (types.GenerationResults, error) {
	cfg := d.Config
	resume, err := d.loadResume()
	if err != nil && cfg.ResumeFile != "" {
		d.logf("resume file %s not readable, drafts will have no attachment: %v", cfg.ResumeFile, err)
	}

	results := types.GenerationResults{
		SuccessfulEmails: []types.DraftResult{},
		FailedEmails:     []types.DraftResult{},
	}
	drafts := 0

	for i, p := range professors {
		if i > 0 {
			if err := httputil.Pause(ctx, d.delay()); err != nil {
				return results, err
			}
		}
		d.logf("processing %d/%d: %s (%s)", i+1, len(professors), p.Name, p.SourceFile)

		res := d.generate(ctx, p, tmpl)
		if !res.Success {
			d.logf("failed  %s: %s", p.Name, res.Error)
			results.FailedEmails = append(results.FailedEmails, res)
			if err := ctx.Err(); err != nil {
				return results, err
			}
			continue
		}

		if cfg.CreateDrafts && d.Store != nil {
			if err := d.saveDraft(ctx, res, resume); err != nil {
				d.logf("failed  draft for %s: %v", p.Name, err)
				zap.L().Warn("draft not saved", zap.String("professor", p.Name), zap.Error(err))
			} else {
				res.DraftCreated = true
				drafts++
				d.logf("draft created for %s", p.Name)
			}
		}

		d.logf("preview: %s...", preview(res.EmailContent))
		results.SuccessfulEmails = append(results.SuccessfulEmails, res)
	}

	results.Summary = types.GenerationSummary{
		RunID:             d.runID(),
		TotalProfessors:   len(professors),
		SuccessfulEmails:  len(results.SuccessfulEmails),
		FailedEmails:      len(results.FailedEmails),
		SuccessfulDrafts:  drafts,
		ResearchTopic:     cfg.ResearchTopic,
		ResumeFile:        cfg.ResumeFile,
		EmailTemplateFile: cfg.TemplateFile,
		ResumeAttached:    resume != nil,
		GeneratedAt:       types.FormatTimestamp(d.now()),
	}
	return results, nil
}

// generate renders the prompt for p, asks the composer for prose and
// applies the bold markup.
func (d *Drafter) generate(ctx context.Context, p Professor, tmpl string) types.DraftResult {
	res := types.DraftResult{
		ProfessorName:  p.Name,
		ProfessorEmail: p.Email,
		SourceFile:     p.SourceFile,
	}

	paper := SelectBestPaper(p.TopPapers, d.PaperKeywords)
	prompt, err := RenderTemplate(tmpl, ProfessorContext(p), PaperContext(paper))
	if err != nil {
		res.Error = err.Error()
		return res
	}

	content, err := d.Composer.Compose(ctx, prompt)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.LastName = LastName(p.Name)
	res.EmailContent = ApplyBold(content, d.BoldPhrases)
	res.SelectedPaperTitle = "N/A"
	if paper != nil {
		res.SelectedPaperTitle = paper.Title
	}
	res.Success = true
	return res
}

func (d *Drafter) saveDraft(ctx context.Context, res types.DraftResult, resume *Attachment) error {
	subject := d.Config.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	raw, err := BuildMessage(Message{
		From:    d.From,
		To:      mail.Address{Name: res.ProfessorName, Address: res.ProfessorEmail},
		Subject: subject,
		Content: res.EmailContent,
		Resume:  resume,
		Date:    d.now(),
	})
	if err != nil {
		return err
	}
	return d.Store.SaveDraft(ctx, raw)
}

// loadResume reads the configured résumé. A missing file is reported as an
// error and yields no attachment.
func (d *Drafter) loadResume() (*Attachment, error) {
	if d.Config.ResumeFile == "" {
		return nil, errors.New("no resume file configured")
	}
	data, err := os.ReadFile(d.Config.ResumeFile)
	if err != nil {
		return nil, err
	}
	return &Attachment{Filename: filepath.Base(d.Config.ResumeFile), Data: data}, nil
}

// WriteResults writes results as indented JSON to path.
func WriteResults(path string, results types.GenerationResults) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func preview(content string) string {
	s := strings.ReplaceAll(content, "\n", " ")
	r := []rune(s)
	if len(r) > previewChars {
		r = r[:previewChars]
	}
	return string(r)
}

func (d *Drafter) delay() time.Duration {
	if d.Config.Delay < 0 {
		return 0
	}
	return d.Config.Delay
}

func (d *Drafter) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Drafter) runID() string {
	if d.NewRunID != nil {
		return d.NewRunID()
	}
	return uuid.NewString()
}

func (d *Drafter) logf(format string, args ...any) {
	if d.Out == nil {
		return
	}
	fmt.Fprintf(d.Out, format+"\n", args...)
}
