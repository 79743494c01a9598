// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// BatchSummary holds counts from a batch run.
type BatchSummary struct {
	Scraped    int
	Failed     int
	Professors int
}

// Total returns the number of URLs processed.
func (s BatchSummary) Total() int {
	return s.Scraped + s.Failed
}

// HasFailures reports whether any URL failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Progress is told about each finished URL. A progress bar satisfies it.
type Progress interface {
	Add(n int) error
}

// ReadURLs returns the http(s) URLs in the first column of a CSV file.
// Blank lines, a header row and anything that is not a URL are skipped;
// duplicates keep their first position.
func ReadURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comment = '#'

	seen := make(map[string]bool)
	var urls []string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if len(rec) == 0 {
			continue
		}
		u := strings.TrimSpace(rec[0])
		lower := strings.ToLower(u)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			continue
		}
		if seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls, nil
}

// RunBatch scrapes every URL in turn and writes one file per URL into
// outDir, named by OutputFileName. A failed URL is reported and the batch
// continues. Only a cancelled context stops it early.
func (s *Scraper) RunBatch(ctx context.Context, urls []string, outDir string, progress Progress) (BatchSummary, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating output directory: %w", err)
	}

	var summary BatchSummary
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		out, err := s.ScrapeInstitution(ctx, u)
		if err == nil {
			err = WriteInstitution(filepath.Join(outDir, OutputFileName(u)), out)
		}
		if err != nil {
			s.logf("failed  %s: %v", u, err)
			zap.L().Warn("batch url failed", zap.String("url", u), zap.Error(err))
			summary.Failed++
		} else {
			s.logf("saved   %s (%d professors)", OutputFileName(u), out.TotalProfessors)
			summary.Scraped++
			summary.Professors += out.TotalProfessors
		}

		if progress != nil {
			_ = progress.Add(1)
		}
	}
	return summary, nil
}
