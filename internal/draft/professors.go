// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft writes personalised outreach emails from scraped professor
// records and saves them as drafts in a mailbox.
package draft

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/faculty-outreach/pkg/types"
)

// Professor is a record loaded for drafting, tagged with where it came from.
type Professor struct {
	types.ProfessorRecord
	SourceFile string
	SourceURL  string
}

// LoadProfessors reads every *.json institution file in dir, in name order,
// and returns the records that have both a name and an email. A professor
// whose email was already loaded is skipped. Files that cannot be parsed are
// reported to w and skipped.
func LoadProfessors(dir string, w io.Writer) ([]Professor, error) {
	if w == nil {
		w = io.Discard
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("professor directory %s: %w", dir, err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	sort.Strings(files)
	fmt.Fprintf(w, "found %d JSON files in %s\n", len(files), dir)

	seen := make(map[string]bool)
	var out []Professor
	for _, path := range files {
		name := filepath.Base(path)
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			continue
		}
		var inst types.InstitutionOutput
		if err := json.Unmarshal(data, &inst); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			continue
		}

		loaded := 0
		for _, rec := range inst.Professors {
			if strings.TrimSpace(rec.Name) == "" || strings.TrimSpace(rec.Email) == "" {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(rec.Email))
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Professor{ProfessorRecord: rec, SourceFile: name, SourceURL: inst.SourceURL})
			loaded++
		}
		fmt.Fprintf(w, "loaded  %d professors from %s\n", loaded, name)
	}
	return out, nil
}

// LastName returns the final word of a full name.
func LastName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return fullName
	}
	return parts[len(parts)-1]
}
