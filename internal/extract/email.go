// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"html"
	"regexp"
	"strings"
)

var (
	// textEmailPattern matches plain .edu addresses in page text.
	textEmailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]*\.edu\b`)

	// mailtoPattern matches .edu addresses in mailto: href values.
	mailtoPattern = regexp.MustCompile(`(?i)mailto:([a-z0-9._%+-]+@[a-z0-9.-]*\.edu)\b`)

	// obfuscatedPattern matches "user [at] domain [dot] edu" and its plain variants.
	obfuscatedPattern = regexp.MustCompile(`(?i)([a-z0-9._%+-]+)\s*(?:\[at\]|@)\s*([a-z0-9.-]*)\s*(?:\[dot\]|\.)\s*edu\b`)
)

// HarvestEmails returns the unique faculty-looking .edu addresses found in a
// page. It scans plain text, mailto: links in the markup, and the simple
// "[at]"/"[dot]" obfuscation, in that order. Duplicates are detected
// case-insensitively and the first spelling wins. The result is the same for
// the same input.
func (f *Filter) HarvestEmails(text, markup string) []string {
	var found []string

	found = append(found, textEmailPattern.FindAllString(text, -1)...)

	for _, m := range mailtoPattern.FindAllStringSubmatch(html.UnescapeString(markup), -1) {
		found = append(found, m[1])
	}

	collapsed := strings.Join(strings.Fields(text), " ")
	for _, m := range obfuscatedPattern.FindAllStringSubmatch(collapsed, -1) {
		user, domain := m[1], strings.Trim(m[2], ".")
		if domain == "" {
			continue
		}
		found = append(found, user+"@"+domain+".edu")
	}

	seen := make(map[string]bool, len(found))
	var unique []string
	for _, e := range found {
		e = strings.TrimSpace(e)
		key := strings.ToLower(e)
		if seen[key] {
			continue
		}
		seen[key] = true
		if f.IsFacultyEmail(key) {
			unique = append(unique, e)
		}
	}
	return unique
}

// IsFacultyEmail reports whether email looks like a person's address rather
// than a role account or mailing list. The local part must not equal an
// administrative prefix (info@, admin@) and must not contain a generic word
// (list, department).
func (f *Filter) IsFacultyEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	local := email[:at]

	for _, p := range f.adminPrefixes {
		if local == p {
			return false
		}
	}
	for _, kw := range f.genericKeywords {
		if strings.Contains(local, kw) {
			return false
		}
	}
	return true
}

// LocalPart returns the part of email before the last "@".
func LocalPart(email string) string {
	if at := strings.LastIndex(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}
