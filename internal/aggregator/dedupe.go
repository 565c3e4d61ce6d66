package aggregator

import "github.com/amishk599/jobdigest/internal/model"

// Dedupe drops every job whose (title, company) identity was already seen,
// keeps first-seen order, and truncates the result to at most max jobs.
// The input slice is not modified.
func Dedupe(jobs []model.Job, max int) []model.Job {
	if max < 0 {
		max = 0
	}

	seen := make(map[model.Identity]struct{}, len(jobs))
	out := make([]model.Job, 0, min(len(jobs), max))
	for _, j := range jobs {
		if len(out) == max {
			break
		}
		id := j.Identity()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, j)
	}
	return out
}
