// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/subosito/gotenv"
)

// DefaultDotEnv is the dotenv file read from the working directory.
const DefaultDotEnv = ".env"

// LoadDotEnv parses the dotenv file at path. A missing file yields an empty
// map. The process environment is left untouched.
func LoadDotEnv(path string) (map[string]string, error) {
	env, err := gotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return env, nil
}
