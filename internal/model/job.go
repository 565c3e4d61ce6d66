package model

import (
	"context"
	"time"
)

// Job is a single listing gathered from the search API. Absent string fields
// are left empty.
type Job struct {
	Title       string         // role title
	Company     string         // company_name, or the queried company when absent
	Location    string         // free-form location string
	Via         string         // board the listing was found on ("via LinkedIn")
	Extensions  map[string]any // detected_extensions, opaque
	Description string         // may be empty
	ApplyLink   string         // chosen from the apply-link fallback chain
	JobID       string         // search API job identifier
	Outreach    string         // recruiter DM draft or placeholder, set by the enricher
}

// Identity is the dedup key for a Job. Fields compare exactly; an absent
// title or company is the empty string.
type Identity struct {
	Title   string
	Company string
}

// Identity returns the (title, company) pair used for deduplication.
func (j Job) Identity() Identity {
	return Identity{Title: j.Title, Company: j.Company}
}

// Digest is the rendered report for one run.
type Digest struct {
	Subject     string
	HTML        string
	Jobs        []Job
	GeneratedAt time.Time
}

// JobFetcher returns the normalized listings for one company.
type JobFetcher interface {
	FetchJobs(ctx context.Context, company string) ([]Job, error)
}

// Notifier delivers a rendered digest.
type Notifier interface {
	Notify(ctx context.Context, digest Digest) error
}

// DigestArchive keeps a log of digests that were delivered.
type DigestArchive interface {
	Record(digest Digest, recipient string) error
	Recent(limit int) ([]ArchivedDigest, error)
}

// ArchivedDigest is one row of the digest archive.
type ArchivedDigest struct {
	ID        int64
	SentAt    time.Time
	Subject   string
	Recipient string
	JobCount  int
}
