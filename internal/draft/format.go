// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	strongPattern = regexp.MustCompile(`</?strong>`)
)

// CommonMark allows a backslash escape before any of these.
const markdownPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithUnsafe(),
	),
)

// ApplyBold wraps every whole-word, case-insensitive occurrence of each
// phrase in <strong> tags. The inserted text uses the phrase's configured
// spelling.
func ApplyBold(content string, phrases []string) string {
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
		repl := "<strong>" + phrase + "</strong>"
		content = re.ReplaceAllLiteralString(content, repl)
	}
	return content
}

// StripTags removes HTML tags for the plain-text alternative.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// RenderHTML converts email prose to an HTML document. Blank lines separate
// paragraphs and single newlines become <br>. The prose is rendered
// literally: asterisks, list numbers and indentation are not treated as
// markup. Only the <strong> tags added by ApplyBold pass through as HTML.
func RenderHTML(content string) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(literalMarkdown(content)), &body); err != nil {
		return "", fmt.Errorf("rendering email body: %w", err)
	}
	return `<html><body style="font-family: Arial, sans-serif; font-size: 14px; line-height: 1.6;">` + "\n" +
		body.String() + "</body></html>\n", nil
}

// literalMarkdown escapes content so that markdown renders it as plain text.
// Every ASCII punctuation character is backslash-escaped outside <strong>
// tags, and leading indentation becomes no-break spaces so indented lines
// do not turn into code blocks.
func literalMarkdown(content string) string {
	var b strings.Builder
	for i, line := range strings.Split(content, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		text := strings.TrimLeft(line, " \t")
		if text == "" {
			continue
		}
		b.WriteString(strings.Repeat("\u00a0", len(line)-len(text)))

		last := 0
		for _, loc := range strongPattern.FindAllStringIndex(text, -1) {
			escapePunct(&b, text[last:loc[0]])
			b.WriteString(text[loc[0]:loc[1]])
			last = loc[1]
		}
		escapePunct(&b, text[last:])
	}
	return b.String()
}

func escapePunct(b *strings.Builder, s string) {
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune(markdownPunct, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
}
