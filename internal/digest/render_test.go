package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobdigest/internal/model"
)

var fixedTime = time.Date(2026, 10, 15, 3, 30, 0, 0, time.UTC) // 09:00 IST

func parseDigest(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse digest html: %v", err)
	}
	return doc
}

func TestSubject(t *testing.T) {
	got := Subject(3, fixedTime)
	want := "[Daily SDE Digest] 3 roles — 2026-10-15 09:00 IST"
	if got != want {
		t.Errorf("Subject() = %q, want %q", got, want)
	}
}

func TestRender_EmptyShowsPlaceholderRow(t *testing.T) {
	d, err := Render(nil, fixedTime)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	doc := parseDigest(t, d.HTML)
	if n := doc.Find("tr.job").Length(); n != 0 {
		t.Errorf("job rows = %d, want 0", n)
	}
	empty := doc.Find("tbody tr.empty")
	if empty.Length() != 1 {
		t.Fatalf("placeholder rows = %d, want 1", empty.Length())
	}
	if !strings.Contains(empty.Text(), "No fresh roles found today") {
		t.Errorf("placeholder text = %q", empty.Text())
	}
	if d.Subject != "[Daily SDE Digest] 0 roles — 2026-10-15 09:00 IST" {
		t.Errorf("subject = %q", d.Subject)
	}
}

func TestRender_Rows(t *testing.T) {
	jobs := []model.Job{
		{
			Title:       "Backend Engineer",
			Company:     "Stripe",
			Location:    "Seattle, WA",
			Description: "  Build APIs.\nShip fast.  ",
			ApplyLink:   "https://jobs.lever.co/stripe/1",
			Outreach:    "Hi there!\nWould love to chat.",
		},
		{
			Title:   "SWE",
			Company: "Uber",
		},
	}

	d, err := Render(jobs, fixedTime)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := parseDigest(t, d.HTML)

	rows := doc.Find("tr.job")
	if rows.Length() != 2 {
		t.Fatalf("job rows = %d, want 2", rows.Length())
	}
	if doc.Find("tr.empty").Length() != 0 {
		t.Error("placeholder row present alongside jobs")
	}

	first := rows.First()
	if idx := strings.TrimSpace(first.Find("td").First().Text()); idx != "1" {
		t.Errorf("index = %q, want 1", idx)
	}
	if got := first.Find(".title").Text(); got != "Backend Engineer" {
		t.Errorf("title = %q", got)
	}
	if got := first.Find(".company").Text(); got != "Stripe — Seattle, WA" {
		t.Errorf("company line = %q", got)
	}
	if got := first.Find(".description").Text(); got != "Build APIs. Ship fast." {
		t.Errorf("description = %q", got)
	}
	if href, _ := first.Find("a.apply").Attr("href"); href != "https://jobs.lever.co/stripe/1" {
		t.Errorf("apply href = %q", href)
	}
	if n := first.Find(".outreach br").Length(); n != 1 {
		t.Errorf("outreach <br> count = %d, want 1", n)
	}

	second := rows.Eq(1)
	if href, _ := second.Find("a.apply").Attr("href"); href != "#" {
		t.Errorf("missing apply link href = %q, want #", href)
	}
	if idx := strings.TrimSpace(second.Find("td").First().Text()); idx != "2" {
		t.Errorf("index = %q, want 2", idx)
	}
}

func TestRender_EscapesContent(t *testing.T) {
	jobs := []model.Job{{
		Title:    `<script>alert("x")</script>`,
		Company:  "A & B",
		Outreach: "<b>bold</b>",
	}}

	d, err := Render(jobs, fixedTime)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(d.HTML, "<script>") || strings.Contains(d.HTML, "<b>bold</b>") {
		t.Errorf("unescaped content in digest:\n%s", d.HTML)
	}

	doc := parseDigest(t, d.HTML)
	if got := doc.Find(".title").Text(); got != `<script>alert("x")</script>` {
		t.Errorf("title text = %q, want literal markup", got)
	}
	if got := doc.Find(".company").Text(); !strings.HasPrefix(got, "A & B") {
		t.Errorf("company text = %q", got)
	}
}

func TestRender_DescriptionTruncated(t *testing.T) {
	jobs := []model.Job{{Title: "SWE", Company: "Meta", Description: strings.Repeat("x", 1000)}}

	d, err := Render(jobs, fixedTime)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := parseDigest(t, d.HTML)
	if n := len(doc.Find(".description").Text()); n != 420 {
		t.Errorf("description length = %d, want 420", n)
	}
}
