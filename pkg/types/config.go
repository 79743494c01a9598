package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. Directory
	// pages are fetched with a browser-like agent.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a language model.
type AIConfig struct {
	// Model is the chat model identifier (e.g. "gpt-3.5-turbo").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the language model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint (tests, proxies).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Timeout bounds a single completion request.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PairingMode selects the NameEmailPairer implementation.
type PairingMode string

const (
	PairingAI        PairingMode = "ai"
	PairingHeuristic PairingMode = "heuristic"
)

// ScrapeConfig holds settings for scraping one faculty directory page.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// FacultyLimit is the maximum number of faculty processed per page (default 5).
	FacultyLimit int `json:"faculty_limit" yaml:"faculty_limit"`

	// RequestDelay is the pause after each professor (default 2s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// ScholarDelay is the additional pause after a successful paper lookup (default 3s).
	ScholarDelay time.Duration `json:"scholar_delay" yaml:"scholar_delay"`

	// Pairing selects AI or heuristic name/email pairing.
	Pairing PairingMode `json:"pairing" yaml:"pairing"`

	// HeuristicsFile overrides the embedded word lists and selectors.
	HeuristicsFile string `json:"heuristics_file,omitempty" yaml:"heuristics_file,omitempty"`

	// OutputDir is the directory batch runs write one JSON file per URL into.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// LookupConfig holds settings for the publication lookup stage.
type LookupConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the SerpAPI key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// NumResults is the number of results requested from the API (default 10).
	NumResults int `json:"num_results" yaml:"num_results"`

	// TopK is the number of ranked papers kept (default 5, at most MaxTopPapers).
	TopK int `json:"top_k" yaml:"top_k"`

	// UseProfiles tries the Scholar profile route before the author search.
	UseProfiles bool `json:"use_profiles" yaml:"use_profiles"`

	// ProfileTimeout bounds the profile search request (default 5s).
	ProfileTimeout time.Duration `json:"profile_timeout" yaml:"profile_timeout"`
}

// MailConfig holds IMAP settings for saving drafts.
type MailConfig struct {
	// IMAPAddr is host:port of the IMAP-over-TLS server.
	IMAPAddr string `json:"imap_addr" yaml:"imap_addr"`

	// Username is the mailbox login, also used as the From address.
	Username string `json:"username" yaml:"username"`

	// Password is the app password (EMAIL_APP_PW).
	Password string `json:"-" yaml:"-"`

	// DraftsMailbox is the mailbox drafts are appended to.
	DraftsMailbox string `json:"drafts_mailbox" yaml:"drafts_mailbox"`
}

// DraftConfig holds settings for the drafting run.
type DraftConfig struct {
	AIConfig `yaml:",inline"`

	// ProfessorDir holds the institution JSON files to draft for.
	ProfessorDir string `json:"professor_dir" yaml:"professor_dir"`

	// TemplateFile is the prompt template with {prof_context} and {paper_context} slots.
	TemplateFile string `json:"template_file" yaml:"template_file"`

	// ResumeFile is attached to each draft when it exists.
	ResumeFile string `json:"resume_file" yaml:"resume_file"`

	// ResultsFile receives the GenerationResults JSON.
	ResultsFile string `json:"results_file" yaml:"results_file"`

	SenderName    string `json:"sender_name" yaml:"sender_name"`
	Subject       string `json:"subject" yaml:"subject"`
	ResearchTopic string `json:"research_topic" yaml:"research_topic"`

	// CreateDrafts controls whether generated emails are appended over IMAP.
	CreateDrafts bool `json:"create_drafts" yaml:"create_drafts"`

	// Delay is the pause between professors (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay"`
}
