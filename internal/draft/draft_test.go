// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/faculty-outreach/pkg/types"
)

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// --- LoadProfessors ---

func TestLoadProfessors(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "a.json"), types.InstitutionOutput{
		SourceURL: "https://a.edu/faculty",
		Professors: []types.ProfessorRecord{
			{Name: "Jane Smith", Email: "jane@a.edu"},
			{Name: "", Email: "anon@a.edu"},
			{Name: "No Mail"},
		},
	})
	writeJSON(t, filepath.Join(dir, "b.json"), types.InstitutionOutput{
		SourceURL: "https://b.edu/people",
		Professors: []types.ProfessorRecord{
			{Name: "Jane Smith", Email: "JANE@a.edu"},
			{Name: "Alan Turing", Email: "alan@b.edu"},
		},
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	var log bytes.Buffer
	got, err := LoadProfessors(dir, &log)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Jane Smith", got[0].Name)
	assert.Equal(t, "a.json", got[0].SourceFile)
	assert.Equal(t, "https://a.edu/faculty", got[0].SourceURL)
	assert.Equal(t, "Alan Turing", got[1].Name)
	assert.Equal(t, "b.json", got[1].SourceFile)
	assert.Contains(t, log.String(), "failed  broken.json")
	assert.Contains(t, log.String(), "found 3 JSON files")
}

func TestLoadProfessorsMissingDir(t *testing.T) {
	_, err := LoadProfessors(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

func TestLastName(t *testing.T) {
	assert.Equal(t, "Smith", LastName("Jane  Q. Smith"))
	assert.Equal(t, "Cher", LastName("Cher"))
	assert.Equal(t, "", LastName(""))
}

// --- templates ---

func TestLoadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email-template.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  Hello {prof_context}\n"), 0o644))
	got, err := LoadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello {prof_context}", got)

	_, err = LoadTemplate(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "not found")
}

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		want    string
		wantErr bool
	}{
		{"both slots", "P:{prof_context} Q:{paper_context}", "P:prof Q:paper", false},
		{"escaped braces", `Reply as JSON {{"ok": true}} {prof_context}`, `Reply as JSON {"ok": true} prof`, false},
		{"slot repeated", "{paper_context}{paper_context}", "paperpaper", false},
		{"unknown slot", "Hi {name}", "", true},
		{"unclosed", "Hi {prof_context", "", true},
		{"stray close", "Hi }", "", true},
		{"no slots", "plain", "plain", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderTemplate(tt.tmpl, "prof", "paper")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContexts(t *testing.T) {
	p := Professor{ProfessorRecord: types.ProfessorRecord{
		Name: "Jane Smith", Email: "jane@a.edu",
		ResearchKeywords: []string{"housing", "risk"},
		ResearchAreas:    []string{"Urban Economics"},
	}}
	got := ProfessorContext(p)
	assert.Contains(t, got, "Professor: Jane Smith\n")
	assert.Contains(t, got, "Research Summary: N/A\n")
	assert.Contains(t, got, "Research Keywords: housing, risk\n")

	assert.Empty(t, PaperContext(nil))
	assert.Equal(t, "Selected Paper: T\nPaper Abstract/Snippet: N/A\nCitations: 12\n",
		PaperContext(&types.Paper{Title: "T", CitationCount: 12}))
}

// --- paper selection ---

func TestSelectBestPaper(t *testing.T) {
	keywords := []string{"housing", "urban", "risk"}

	t.Run("none", func(t *testing.T) {
		assert.Nil(t, SelectBestPaper(nil, keywords))
	})

	t.Run("keywords outweigh citations", func(t *testing.T) {
		papers := []types.Paper{
			{Title: "Protein folding", CitationCount: 900},
			{Title: "Urban housing markets", CitationCount: 3},
		}
		assert.Equal(t, "Urban housing markets", SelectBestPaper(papers, keywords).Title)
	})

	t.Run("citations break keyword ties", func(t *testing.T) {
		papers := []types.Paper{
			{Title: "Housing A", CitationCount: 100},
			{Title: "Housing B", CitationCount: 500},
		}
		assert.Equal(t, "Housing B", SelectBestPaper(papers, keywords).Title)
	})

	t.Run("equal scores keep first", func(t *testing.T) {
		papers := []types.Paper{{Title: "X"}, {Title: "Y"}}
		assert.Equal(t, "X", SelectBestPaper(papers, keywords).Title)
	})
}

func TestScorePaper(t *testing.T) {
	p := types.Paper{Title: "Urban risk", Snippet: "urban URBAN", CitationCount: 250}
	assert.InDelta(t, 42.5, ScorePaper(p, []string{"urban", "risk"}), 1e-9)
}

// --- formatting ---

func TestApplyBold(t *testing.T) {
	phrases := []string{"Gentrification Risk", "15 minute chat"}
	got := ApplyBold("Could we have a 15 MINUTE CHAT about gentrification risk? Not gentrification risks.", phrases)
	assert.Equal(t, "Could we have a <strong>15 minute chat</strong> about <strong>Gentrification Risk</strong>? Not gentrification risks.", got)
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "a bold move", StripTags("a <strong>bold</strong> move"))
}

func TestRenderHTML(t *testing.T) {
	got, err := RenderHTML("Dear Professor Smith,\n\nI read <strong>your paper</strong>.\nThanks")
	require.NoError(t, err)
	assert.Contains(t, got, "<p>Dear Professor Smith,</p>")
	assert.Contains(t, got, "<strong>your paper</strong>")
	assert.Contains(t, got, "<br")
	assert.True(t, strings.HasPrefix(got, "<html><body"))
}

func TestRenderHTMLKeepsProseLiteral(t *testing.T) {
	content := "I *really* enjoyed <strong>your paper</strong>.\n\n" +
		"1. First question\n2. Second question\n\n" +
		"    indented line\n\n" +
		"# not a heading\n\n" +
		"a <script> tag & _underscores_"
	got, err := RenderHTML(content)
	require.NoError(t, err)

	assert.Contains(t, got, "I *really* enjoyed <strong>your paper</strong>.")
	assert.NotContains(t, got, "<em>")
	assert.Contains(t, got, "1. First question<br")
	assert.NotContains(t, got, "<ol>")
	assert.Contains(t, got, "\u00a0\u00a0\u00a0\u00a0indented line")
	assert.NotContains(t, got, "<pre>")
	assert.Contains(t, got, "<p># not a heading</p>")
	assert.NotContains(t, got, "<h1>")
	assert.Contains(t, got, "a &lt;script&gt; tag &amp; _underscores_")
}

// --- Drafter ---

type fakeComposer struct {
	prompts []string
	fail    map[string]bool
}

func (c *fakeComposer) Compose(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	for name := range c.fail {
		if strings.Contains(prompt, name) {
			return "", errors.New("model unavailable")
		}
	}
	return "Dear Professor, let's have a 15 minute chat.", nil
}

type fakeStore struct {
	drafts [][]byte
	err    error
}

func (s *fakeStore) SaveDraft(_ context.Context, raw []byte) error {
	if s.err != nil {
		return s.err
	}
	s.drafts = append(s.drafts, raw)
	return nil
}

func testProfessors() []Professor {
	return []Professor{
		{ProfessorRecord: types.ProfessorRecord{
			Name: "Jane Smith", Email: "jane@a.edu",
			TopPapers: []types.Paper{{Title: "Housing and risk", CitationCount: 10}},
		}, SourceFile: "a.json"},
		{ProfessorRecord: types.ProfessorRecord{Name: "Alan Turing", Email: "alan@b.edu"}, SourceFile: "b.json"},
	}
}

func newTestDrafter(composer Composer, store DraftStore, resume string) *Drafter {
	return &Drafter{
		Composer: composer,
		Store:    store,
		Config: types.DraftConfig{
			TemplateFile:  "email-template.txt",
			ResumeFile:    resume,
			ResearchTopic: "Gentrification",
			CreateDrafts:  true,
		},
		From:          mail.Address{Name: "Student", Address: "student@gmail.com"},
		BoldPhrases:   []string{"15 minute chat"},
		PaperKeywords: []string{"housing"},
		Now:           func() time.Time { return time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC) },
		NewRunID:      func() string { return "run-9" },
	}
}

func TestDrafterRun(t *testing.T) {
	resume := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(resume, []byte("%PDF-1.4"), 0o644))
	composer := &fakeComposer{fail: map[string]bool{"Alan Turing": true}}
	store := &fakeStore{}
	d := newTestDrafter(composer, store, resume)

	res, err := d.Run(context.Background(), testProfessors(), "Write to:\n{prof_context}\n{paper_context}")
	require.NoError(t, err)

	require.Len(t, res.SuccessfulEmails, 1)
	ok := res.SuccessfulEmails[0]
	assert.Equal(t, "Smith", ok.LastName)
	assert.Equal(t, "Housing and risk", ok.SelectedPaperTitle)
	assert.Equal(t, "Dear Professor, let's have a <strong>15 minute chat</strong>.", ok.EmailContent)
	assert.True(t, ok.DraftCreated)
	assert.True(t, ok.Success)

	require.Len(t, res.FailedEmails, 1)
	assert.Equal(t, "alan@b.edu", res.FailedEmails[0].ProfessorEmail)
	assert.Equal(t, "model unavailable", res.FailedEmails[0].Error)
	assert.False(t, res.FailedEmails[0].Success)

	assert.Equal(t, types.GenerationSummary{
		RunID:             "run-9",
		TotalProfessors:   2,
		SuccessfulEmails:  1,
		FailedEmails:      1,
		SuccessfulDrafts:  1,
		ResearchTopic:     "Gentrification",
		ResumeFile:        resume,
		EmailTemplateFile: "email-template.txt",
		ResumeAttached:    true,
		GeneratedAt:       "2026-04-02 08:00:00",
	}, res.Summary)
	assert.True(t, res.HasFailures())

	require.Len(t, store.drafts, 1)
	assert.Contains(t, composer.prompts[0], "Selected Paper: Housing and risk")
}

func TestDrafterDraftFailureStillSucceeds(t *testing.T) {
	d := newTestDrafter(&fakeComposer{}, &fakeStore{err: errors.New("login failed")}, "")
	res, err := d.Run(context.Background(), testProfessors()[:1], "{prof_context}")
	require.NoError(t, err)
	require.Len(t, res.SuccessfulEmails, 1)
	assert.False(t, res.SuccessfulEmails[0].DraftCreated)
	assert.Equal(t, 0, res.Summary.SuccessfulDrafts)
	assert.False(t, res.Summary.ResumeAttached)
}

func TestDrafterNoDrafts(t *testing.T) {
	store := &fakeStore{}
	d := newTestDrafter(&fakeComposer{}, store, "")
	d.Config.CreateDrafts = false
	res, err := d.Run(context.Background(), testProfessors(), "{prof_context}")
	require.NoError(t, err)
	assert.Len(t, res.SuccessfulEmails, 2)
	assert.Empty(t, store.drafts)
	assert.Equal(t, "N/A", res.SuccessfulEmails[1].SelectedPaperTitle)
}

func TestDrafterBadTemplate(t *testing.T) {
	d := newTestDrafter(&fakeComposer{}, nil, "")
	res, err := d.Run(context.Background(), testProfessors(), "{unknown}")
	require.NoError(t, err)
	assert.Len(t, res.FailedEmails, 2)
	assert.Contains(t, res.FailedEmails[0].Error, "unknown placeholder")
}

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultResultsFile)
	in := types.GenerationResults{
		Summary:          types.GenerationSummary{TotalProfessors: 1, SuccessfulEmails: 1},
		SuccessfulEmails: []types.DraftResult{{ProfessorName: "Jane Smith", EmailContent: "<strong>x</strong>", Success: true}},
		FailedEmails:     []types.DraftResult{},
	}
	require.NoError(t, WriteResults(path, in))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"generation_summary"`)
	assert.Contains(t, string(raw), "<strong>x</strong>")

	var out types.GenerationResults
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}
