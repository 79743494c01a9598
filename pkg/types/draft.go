// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DraftResult is the outcome of generating one outreach email.
type DraftResult struct {
	ProfessorName      string `json:"professor_name"`
	ProfessorEmail     string `json:"professor_email"`
	LastName           string `json:"last_name,omitempty"`
	EmailContent       string `json:"email_content,omitempty"`
	SelectedPaperTitle string `json:"selected_paper_title,omitempty"`
	SourceFile         string `json:"source_file,omitempty"`
	DraftCreated       bool   `json:"draft_created"`
	Error              string `json:"error,omitempty"`
	Success            bool   `json:"success"`
}

// GenerationSummary holds the counters of a drafting run.
type GenerationSummary struct {
	RunID             string `json:"run_id,omitempty"`
	TotalProfessors   int    `json:"total_professors"`
	SuccessfulEmails  int    `json:"successful_emails"`
	FailedEmails      int    `json:"failed_emails"`
	SuccessfulDrafts  int    `json:"successful_drafts"`
	ResearchTopic     string `json:"research_topic"`
	ResumeFile        string `json:"resume_file"`
	EmailTemplateFile string `json:"email_template_file"`
	ResumeAttached    bool   `json:"resume_attached"`
	GeneratedAt       string `json:"generated_at"`
}

// GenerationResults is the aggregate JSON file written by a drafting run.
type GenerationResults struct {
	Summary          GenerationSummary `json:"generation_summary"`
	SuccessfulEmails []DraftResult     `json:"successful_emails"`
	FailedEmails     []DraftResult     `json:"failed_emails"`
}

// HasFailures reports whether any professor failed.
func (r GenerationResults) HasFailures() bool {
	return len(r.FailedEmails) > 0
}
