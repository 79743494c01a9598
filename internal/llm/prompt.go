// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"text/template"
)

var pairingPromptTmpl = template.Must(template.New("pairing").Parse(`You are analyzing a faculty page to match email addresses with professor names.

FACULTY PAGE TEXT:
"{{.PageText}}"

EMAIL ADDRESSES FOUND:
{{range .Emails}}- {{.}}
{{end}}
Your task: for each email address, find the corresponding professor's name in the page content.

Return ONLY a JSON array with this structure:
[
  {"email": "professor@university.edu", "name": "Professor Full Name", "confidence": "high|medium|low"}
]

Rules:
1. Look for real person names (First Last, like "John Smith" or "Maria Garcia").
2. Ignore subject areas such as "Artificial Intelligence", "Programming Languages" or "Computer Science".
3. Ignore department names, research areas and field names.
4. If you cannot find a real person's name for an email, skip that email entirely.
5. Use context clues like "Professor X", "Dr. Y" or names next to the address.
`))

var linkPromptTmpl = template.Must(template.New("links").Parse(`You are looking at the links on a university faculty directory page ({{.PageURL}}).
Select the links that most likely lead to an individual faculty member's profile page.
Ignore navigation, news, events, course, department and research-group pages.

LINKS:
{{range $i, $l := .Links}}{{$i}}. {{$l.URL}} | text: {{$l.Text}} | context: {{$l.Context}}
{{end}}
Return ONLY a JSON array of at most {{.Max}} URLs copied exactly from the list above, for example:
["https://university.edu/people/jane-smith"]
`))

var profilePromptTmpl = template.Must(template.New("profile").Parse(`You are parsing a professor's profile page. The page text mixes navigation and menu content with the actual profile.

PROFILE URL: {{.PageURL}}

RAW PAGE TEXT:
"{{.PageText}}"

Extract the professor's information while ignoring navigation menus, course listings and administrative content.

Return ONLY a JSON object with this structure:
{
  "name": "Professor's full name (e.g. 'John Smith')",
  "email": "their .edu email address, or empty if none is shown",
  "title": "academic title (e.g. 'Associate Professor of Computer Science')",
  "department": "department or school",
  "research_interests": "one sentence on their research interests",
  "confidence": "high|medium|low"
}

If you cannot find reliable information, use empty strings but still return the JSON structure.
`))

var summaryPromptTmpl = template.Must(template.New("summary").Parse(`Analyze the following research papers from Professor {{.Name}} and generate a research summary.

PAPERS:
{{.Digest}}
Generate a JSON response with:
{
  "research_summary": "2-3 sentence summary of their main research focus and contributions",
  "research_keywords": ["list", "of", "key", "research", "terms"],
  "research_areas": ["broader", "research", "areas", "they", "work", "in"]
}

Focus on main research themes and methodologies, key technical areas and application domains.
Make it concise but informative.
`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
