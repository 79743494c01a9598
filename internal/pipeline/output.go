// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofrs/flock"

	"github.com/pdiddy/faculty-outreach/pkg/types"
)

// unsafeName matches runs of characters not allowed in output file names.
var unsafeName = regexp.MustCompile(`[^a-z0-9-]+`)

// OutputFileName derives a stable JSON file name from a directory URL:
// host without "www." plus path, lower-cased, with every other character
// run replaced by "_".
func OutputFileName(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	base := rawURL
	if err == nil && u.Host != "" {
		base = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.") + u.Path
	}
	name := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(base), "_"), "_")
	if name == "" {
		name = "institution"
	}
	return name + ".json"
}

// WriteInstitution writes out to path as indented JSON. The write holds an
// exclusive lock on path+".lock" so concurrent runs cannot interleave, and
// goes through a temporary file renamed into place.
func WriteInstitution(path string, out *types.InstitutionOutput) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return writeLocked(path, buf.Bytes())
}

// ReadInstitution loads an institution file written by WriteInstitution.
func ReadInstitution(path string) (*types.InstitutionOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var out types.InstitutionOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &out, nil
}

// writeLocked replaces path with data while holding path's lock file.
func writeLocked(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", path, err)
	}
	defer lock.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}
