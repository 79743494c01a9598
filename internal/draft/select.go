// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"sort"
	"strings"

	"github.com/pdiddy/faculty-outreach/pkg/types"
)

// ScorePaper rates a paper's relevance: ten points per keyword occurrence
// in the title and snippet (case-insensitive, overlapping keywords counted
// separately) plus one point per hundred citations.
func ScorePaper(p types.Paper, keywords []string) float64 {
	text := strings.ToLower(p.Title + " " + p.Snippet)
	hits := 0
	for _, kw := range keywords {
		if kw = strings.ToLower(kw); kw != "" {
			hits += strings.Count(text, kw)
		}
	}
	return float64(hits)*10 + float64(p.CitationCount)/100
}

// SelectBestPaper returns the highest-scoring paper, or nil when there are
// none. Equal scores keep the earlier paper.
func SelectBestPaper(papers []types.Paper, keywords []string) *types.Paper {
	if len(papers) == 0 {
		return nil
	}
	idx := make([]int, len(papers))
	scores := make([]float64, len(papers))
	for i, p := range papers {
		idx[i] = i
		scores[i] = ScorePaper(p, keywords)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	best := papers[idx[0]]
	return &best
}
