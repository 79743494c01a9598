// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files,
// a dotenv file and the OS keyring.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: openai-api-key, serpapi-api-key, email-app-pw.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Key file names and their environment variable equivalents.
const (
	OpenAIKeyFile   = "openai-api-key"
	SerpAPIKeyFile  = "serpapi-api-key"
	AppPasswordFile = "email-app-pw"

	OpenAIKeyEnv   = "OPENAI_API_KEY"
	SerpAPIKeyEnv  = "SERPAPI_API_KEY"
	AppPasswordEnv = "EMAIL_APP_PW"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Resolver looks a credential up in the process environment, then the
// secrets directory, then the dotenv file.
type Resolver struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string

	Files  map[string]string
	DotEnv map[string]string
}

// Lookup returns the first non-empty value for envName or fileName.
func (r Resolver) Lookup(envName, fileName string) string {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(envName)); v != "" {
		return v
	}
	if v := r.Files[fileName]; v != "" {
		return v
	}
	return strings.TrimSpace(r.DotEnv[envName])
}
