package digest

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/amishk599/jobdigest/internal/model"
)

// EmptyMessage is the single table row shown when no jobs were found.
const EmptyMessage = "No fresh roles found today. Try widening COMPANIES or ROLE_QUERY."

const descriptionRunes = 420

// IST is the zone the digest timestamps are printed in.
var IST = time.FixedZone("IST", 5*60*60+30*60)

//go:embed templates/digest.html
var digestHTML string

var digestTemplate = template.Must(template.New("digest").Parse(digestHTML))

type digestRow struct {
	Index         int
	Title         string
	Company       string
	Location      string
	Description   string
	ApplyLink     string
	OutreachLines []string
}

type digestData struct {
	GeneratedAt  string
	Rows         []digestRow
	EmptyMessage string
}

// Timestamp formats t the way the digest prints it: "2006-01-02 15:04 IST".
func Timestamp(t time.Time) string {
	return t.In(IST).Format("2006-01-02 15:04") + " IST"
}

// Subject returns the email subject line for a digest of n jobs.
func Subject(n int, generatedAt time.Time) string {
	return fmt.Sprintf("[Daily SDE Digest] %d roles — %s", n, Timestamp(generatedAt))
}

// Render builds the HTML digest for jobs. All values are escaped by
// html/template.
func Render(jobs []model.Job, generatedAt time.Time) (model.Digest, error) {
	data := digestData{
		GeneratedAt:  Timestamp(generatedAt),
		Rows:         make([]digestRow, 0, len(jobs)),
		EmptyMessage: EmptyMessage,
	}
	for i, j := range jobs {
		data.Rows = append(data.Rows, toRow(i+1, j))
	}

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, data); err != nil {
		return model.Digest{}, fmt.Errorf("render digest: %w", err)
	}

	return model.Digest{
		Subject:     Subject(len(jobs), generatedAt),
		HTML:        buf.String(),
		Jobs:        jobs,
		GeneratedAt: generatedAt,
	}, nil
}

func toRow(index int, j model.Job) digestRow {
	link := j.ApplyLink
	if link == "" {
		link = "#"
	}
	desc := truncateRunes(strings.TrimSpace(j.Description), descriptionRunes)
	desc = strings.ReplaceAll(desc, "\n", " ")

	var lines []string
	if j.Outreach != "" {
		lines = strings.Split(j.Outreach, "\n")
	}

	return digestRow{
		Index:         index,
		Title:         j.Title,
		Company:       j.Company,
		Location:      j.Location,
		Description:   desc,
		ApplyLink:     link,
		OutreachLines: lines,
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
