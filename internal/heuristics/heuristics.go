// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package heuristics holds the word lists and CSS selectors that drive email
// filtering, name validation, bold markup and paper scoring. The defaults are
// embedded; a YAML file can replace any list.
package heuristics

import (
	_ "embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Rules is the full set of externally configurable lists.
type Rules struct {
	// AdminPrefixes are email local parts that identify role accounts (info@, admin@).
	AdminPrefixes []string `yaml:"admin_prefixes"`

	// GenericEmailKeywords reject local parts that look like lists or offices.
	GenericEmailKeywords []string `yaml:"generic_email_keywords"`

	// NonNamePhrases are subject, department and building names that are not people.
	NonNamePhrases []string `yaml:"non_name_phrases"`

	// NameSelectors locate person names when a page lists no emails.
	NameSelectors []string `yaml:"name_selectors"`

	// BoldPhrases are wrapped in <strong> in generated emails.
	BoldPhrases []string `yaml:"bold_phrases"`

	// PaperKeywords score paper relevance for the drafter.
	PaperKeywords []string `yaml:"paper_keywords"`
}

// Default returns the embedded rules.
func Default() Rules {
	var r Rules
	if err := yaml.Unmarshal(defaultsYAML, &r); err != nil {
		panic(fmt.Sprintf("heuristics: embedded defaults are invalid: %v", err))
	}
	return r
}

// Load reads rules from path. Lists missing from the file keep their
// defaults. An empty path returns Default().
func Load(path string) (Rules, error) {
	r := Default()
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading heuristics file %s: %w", path, err)
	}
	var override Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Rules{}, fmt.Errorf("parsing heuristics file %s: %w", path, err)
	}
	r.merge(override)
	return r, nil
}

func (r *Rules) merge(o Rules) {
	if o.AdminPrefixes != nil {
		r.AdminPrefixes = o.AdminPrefixes
	}
	if o.GenericEmailKeywords != nil {
		r.GenericEmailKeywords = o.GenericEmailKeywords
	}
	if o.NonNamePhrases != nil {
		r.NonNamePhrases = o.NonNamePhrases
	}
	if o.NameSelectors != nil {
		r.NameSelectors = o.NameSelectors
	}
	if o.BoldPhrases != nil {
		r.BoldPhrases = o.BoldPhrases
	}
	if o.PaperKeywords != nil {
		r.PaperKeywords = o.PaperKeywords
	}
}
