package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/amishk599/jobdigest/internal/model"
)

const (
	DefaultSerpAPIBaseURL = "https://serpapi.com"
	serpEngine            = "google_jobs"
)

// serpNoResults is the message SerpAPI returns in "error" when a query
// simply matched nothing.
const serpNoResults = "hasn't returned any results"

type serpResponse struct {
	JobsResults []SerpJob `json:"jobs_results"`
	Error       string    `json:"error"`
}

// SerpAPIAdapter searches Google Jobs through SerpAPI, one request per company.
type SerpAPIAdapter struct {
	baseURL   string
	apiKey    string
	locale    string
	roleQuery string
	sitesHint string
	client    *http.Client
}

// SerpAPIOptions configures the query shape sent for each company.
type SerpAPIOptions struct {
	BaseURL   string
	APIKey    string
	Locale    string
	RoleQuery string
	SitesHint string
}

// NewSerpAPIAdapter creates an adapter. The per-call timeout comes from client.
func NewSerpAPIAdapter(opts SerpAPIOptions, client *http.Client) *SerpAPIAdapter {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultSerpAPIBaseURL
	}
	locale := opts.Locale
	if locale == "" {
		locale = "en"
	}
	return &SerpAPIAdapter{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    opts.APIKey,
		locale:    locale,
		roleQuery: opts.RoleQuery,
		sitesHint: opts.SitesHint,
		client:    client,
	}
}

// Query returns the search string used for company.
func (a *SerpAPIAdapter) Query(company string) string {
	return BuildQuery(a.roleQuery, company, a.sitesHint)
}

// FetchJobs runs the company's query and normalizes every result.
func (a *SerpAPIAdapter) FetchJobs(ctx context.Context, company string) ([]model.Job, error) {
	raw, err := a.Search(ctx, a.Query(company))
	if err != nil {
		return nil, fmt.Errorf("serpapi search for %s: %w", company, err)
	}

	jobs := make([]model.Job, 0, len(raw))
	for _, r := range raw {
		jobs = append(jobs, Normalize(r, company))
	}
	return jobs, nil
}

// Search performs a single google_jobs request and returns the raw results.
func (a *SerpAPIAdapter) Search(ctx context.Context, query string) ([]SerpJob, error) {
	params := url.Values{}
	params.Set("engine", serpEngine)
	params.Set("q", query)
	params.Set("hl", a.locale)
	params.Set("api_key", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		// The URL carries the key; keep it out of logs.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, fmt.Errorf("request failed: %w", urlErr.Err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var sr serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if sr.Error != "" && len(sr.JobsResults) == 0 {
		if strings.Contains(sr.Error, serpNoResults) {
			return nil, nil
		}
		return nil, fmt.Errorf("serpapi error: %s", sr.Error)
	}

	return sr.JobsResults, nil
}
