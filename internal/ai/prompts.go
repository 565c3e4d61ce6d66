package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/outreach.md
var outreachPromptRaw string

// OutreachTemplate is the parsed recruiter-DM prompt.
// Fields: Title, Company, Snippet.
var OutreachTemplate = template.Must(template.New("outreach").Parse(outreachPromptRaw))
