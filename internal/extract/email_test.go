// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFacultyEmail(t *testing.T) {
	f := DefaultFilter()
	tests := []struct {
		email string
		want  bool
	}{
		{"jane.smith@cs.school.edu", true},
		{"JSmith@school.edu", true},
		{"info@school.edu", false},
		{"Admin@school.edu", false},
		{"cs-department@school.edu", false},
		{"grad-list@school.edu", false},
		{"information.theory@school.edu", true},
		{"@school.edu", false},
		{"nobody", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsFacultyEmail(tt.email))
		})
	}
}

func TestHarvestEmails(t *testing.T) {
	f := DefaultFilter()

	t.Run("plain text", func(t *testing.T) {
		got := f.HarvestEmails("Contact Jane at jane.smith@cs.school.edu or info@school.edu.", "")
		assert.Equal(t, []string{"jane.smith@cs.school.edu"}, got)
	})

	t.Run("mailto only in markup", func(t *testing.T) {
		markup := `<a href="mailto:ada@math.school.edu">Ada Lovelace</a>`
		got := f.HarvestEmails("Ada Lovelace", markup)
		assert.Equal(t, []string{"ada@math.school.edu"}, got)
	})

	t.Run("entity encoded mailto", func(t *testing.T) {
		markup := `<a href="&#109;ailto:ada@math.school.edu">Ada</a>`
		got := f.HarvestEmails("", markup)
		assert.Equal(t, []string{"ada@math.school.edu"}, got)
	})

	t.Run("obfuscated", func(t *testing.T) {
		got := f.HarvestEmails("Email: grace.hopper [at] navy [dot] edu", "")
		assert.Equal(t, []string{"grace.hopper@navy.edu"}, got)
	})

	t.Run("case-insensitive dedup keeps first spelling", func(t *testing.T) {
		markup := `<a href="mailto:jane@school.edu">x</a>`
		got := f.HarvestEmails("Jane@School.edu and jane@school.edu", markup)
		assert.Equal(t, []string{"Jane@School.edu"}, got)
	})

	t.Run("non edu ignored", func(t *testing.T) {
		assert.Empty(t, f.HarvestEmails("someone@example.com", `<a href="mailto:someone@example.com">x</a>`))
	})

	t.Run("idempotent", func(t *testing.T) {
		text := "a.b@x.edu c [at] y [dot] edu info@x.edu"
		assert.Equal(t, f.HarvestEmails(text, ""), f.HarvestEmails(text, ""))
	})
}

func TestLocalPart(t *testing.T) {
	assert.Equal(t, "jane", LocalPart("jane@school.edu"))
	assert.Equal(t, "plain", LocalPart("plain"))
}
