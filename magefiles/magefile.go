//go:build mage

// Package main contains Mage build targets for faculty-outreach developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"professor-info",
	".secrets",
	"bin",
}

// Init creates the project directory structure and a starter email template.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	if _, err := os.Stat(templateFile); os.IsNotExist(err) {
		if err := os.WriteFile(templateFile, []byte(starterTemplate), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", templateFile, err)
		}
		fmt.Println("  ", templateFile)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir       = "bin"
	binName      = "faculty-outreach"
	cmdPkg       = "./cmd/faculty-outreach"
	templateFile = "email-template.txt"
)

const starterTemplate = `Write a short, polite email from a student to the professor below asking a
research question about their work and for mentorship advice. Mention the
selected paper if one is given. Reply with the email body only.

{prof_context}
{paper_context}
`

var binPath = filepath.Join(binDir, binName)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	if err := sh.RunV("go", "build", "-o", binPath, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Stats prints project metrics: Go production/test LOC and scraped output counts.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join("professor-info", "*.json"))
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Institution files:              %d\n", len(files))
	return nil
}

// Scrape builds the CLI and scrapes one directory URL.
func Scrape(url string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "scrape", url)
}

// Batch builds the CLI and scrapes every URL in universities.csv.
func Batch() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "batch")
}

// Draft builds the CLI and drafts emails for every scraped professor.
func Draft() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath, "draft")
}

// countGoLines counts non-blank lines in Go files under root, split into
// production and test files. Underscore, dot and vendor directories are skipped.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) != "" {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}
