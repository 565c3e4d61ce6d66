package adapter

import "github.com/amishk599/jobdigest/internal/model"

// SerpJob is one entry of the google_jobs "jobs_results" array.
type SerpJob struct {
	Title              string         `json:"title"`
	CompanyName        *string        `json:"company_name"`
	Location           string         `json:"location"`
	Description        string         `json:"description"`
	JobID              string         `json:"job_id"`
	ShareLink          string         `json:"share_link"`
	DetectedExtensions map[string]any `json:"detected_extensions"`
	ApplyOptions       []serpLink     `json:"apply_options"`
	RelatedLinks       []serpLink     `json:"related_links"`
}

type serpLink struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Link  string `json:"link"`
}

// Normalize maps a raw search result into a Job. company is the name used
// in the query and only fills in when the result carries no company_name.
func Normalize(raw SerpJob, company string) model.Job {
	job := model.Job{
		Title:       raw.Title,
		Company:     company,
		Location:    raw.Location,
		Description: raw.Description,
		JobID:       raw.JobID,
		Extensions:  make(map[string]any, len(raw.DetectedExtensions)),
		ApplyLink:   applyLink(raw),
	}
	if raw.CompanyName != nil {
		job.Company = *raw.CompanyName
	}
	for k, v := range raw.DetectedExtensions {
		job.Extensions[k] = v
	}
	if via, ok := raw.DetectedExtensions["via"].(string); ok {
		job.Via = via
	}
	return job
}

// applyLink walks the fallback chain: apply_options, then related_links,
// then share_link. Only the first present source is consulted.
func applyLink(raw SerpJob) string {
	if len(raw.ApplyOptions) > 0 {
		return raw.ApplyOptions[0].Link
	}
	if len(raw.RelatedLinks) > 0 && raw.RelatedLinks[0].Link != "" {
		return raw.RelatedLinks[0].Link
	}
	return raw.ShareLink
}
