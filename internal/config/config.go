package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for one jobdigest process.
type Config struct {
	SerpAPI         SerpAPIConfig
	Companies       []string
	MaxResults      int
	PerCompanyLimit int
	PolitenessDelay time.Duration
	// Days is accepted for compatibility with existing deployments. The
	// search query carries no date window, so it has no effect.
	Days           int
	AI             AIConfig
	Mail           MailConfig
	Slack          SlackConfig
	ArchivePath    string
	DigestInterval time.Duration
}

// SerpAPIConfig controls the Google Jobs search.
type SerpAPIConfig struct {
	APIKey    string
	BaseURL   string
	Locale    string
	RoleQuery string
	SitesHint string
	Timeout   time.Duration
}

// AIConfig controls outreach generation. It is enabled when APIKey is set.
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Enabled reports whether an OpenAI key was configured.
func (a AIConfig) Enabled() bool { return a.APIKey != "" }

// MailConfig holds the SMTP account and recipient.
type MailConfig struct {
	User        string
	AppPassword string
	To          string
	Host        string
	Port        int
}

// SlackConfig enables the optional Slack summary.
type SlackConfig struct {
	WebhookURL string
}

const (
	defaultCompanies       = "Google, Meta, Amazon, Apple, Netflix, Microsoft, OpenAI, Stripe, Databricks, DoorDash, Airbnb, Uber"
	defaultRoleQuery       = "entry level OR new grad full stack OR software engineer"
	defaultSitesHint       = "site:boards.greenhouse.io OR site:jobs.lever.co OR site:careers.microsoft.com OR site:amazon.jobs OR site:meta.com/careers OR site:apple.com/careers OR site:google.com/about/careers OR site:netflixjobs.com OR site:about.google"
	defaultSerpAPIBaseURL  = "https://serpapi.com"
	defaultOpenAIBaseURL   = "https://api.openai.com/v1"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultSMTPHost        = "smtp.gmail.com"
	defaultSMTPPort        = 465
	defaultMaxResults      = 20
	defaultDays            = 2
	defaultPolitenessDelay = 800 * time.Millisecond
	defaultDigestInterval  = 24 * time.Hour
	defaultRequestTimeout  = 30 * time.Second
)

// MissingEnvError reports a required variable that is unset or blank.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return "Missing required env var: " + e.Name
}

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Options controls where Load reads values from.
type Options struct {
	// Path is an optional YAML file. Empty means no file.
	Path string
	// EnvFile is a dotenv file read if present. Empty means none.
	EnvFile string
	// Lookup defaults to os.LookupEnv.
	Lookup LookupFunc
	// RequireSearch makes SERPAPI_KEY mandatory.
	RequireSearch bool
	// RequireMail makes the SMTP account and recipient mandatory.
	RequireMail bool
}

// rawFile mirrors the YAML config file; keys are the environment names in
// snake_case.
type rawFile struct {
	SerpAPIKey       string   `yaml:"serpapi_key"`
	SerpAPIBaseURL   string   `yaml:"serpapi_base_url"`
	SearchLocale     string   `yaml:"search_locale"`
	RoleQuery        string   `yaml:"role_query"`
	SitesHint        string   `yaml:"sites_hint"`
	Companies        []string `yaml:"companies"`
	MaxResults       string   `yaml:"max_results"`
	PerCompanyLimit  string   `yaml:"per_company_limit"`
	PolitenessDelay  string   `yaml:"politeness_delay"`
	Days             string   `yaml:"days"`
	OpenAIAPIKey     string   `yaml:"openai_api_key"`
	OpenAIBaseURL    string   `yaml:"openai_base_url"`
	OpenAIModel      string   `yaml:"openai_model"`
	GmailUser        string   `yaml:"gmail_user"`
	GmailAppPassword string   `yaml:"gmail_app_password"`
	ToEmail          string   `yaml:"to_email"`
	SMTPHost         string   `yaml:"smtp_host"`
	SMTPPort         string   `yaml:"smtp_port"`
	SlackWebhookURL  string   `yaml:"slack_webhook_url"`
	ArchivePath      string   `yaml:"archive_path"`
	DigestInterval   string   `yaml:"digest_interval"`
}

func (r rawFile) values() map[string]string {
	return map[string]string{
		"SERPAPI_KEY":        r.SerpAPIKey,
		"SERPAPI_BASE_URL":   r.SerpAPIBaseURL,
		"SEARCH_LOCALE":      r.SearchLocale,
		"ROLE_QUERY":         r.RoleQuery,
		"SITES_HINT":         r.SitesHint,
		"COMPANIES":          strings.Join(r.Companies, ","),
		"MAX_RESULTS":        r.MaxResults,
		"PER_COMPANY_LIMIT":  r.PerCompanyLimit,
		"POLITENESS_DELAY":   r.PolitenessDelay,
		"DAYS":               r.Days,
		"OPENAI_API_KEY":     r.OpenAIAPIKey,
		"OPENAI_BASE_URL":    r.OpenAIBaseURL,
		"OPENAI_MODEL":       r.OpenAIModel,
		"GMAIL_USER":         r.GmailUser,
		"GMAIL_APP_PASSWORD": r.GmailAppPassword,
		"TO_EMAIL":           r.ToEmail,
		"SMTP_HOST":          r.SMTPHost,
		"SMTP_PORT":          r.SMTPPort,
		"SLACK_WEBHOOK_URL":  r.SlackWebhookURL,
		"ARCHIVE_PATH":       r.ArchivePath,
		"DIGEST_INTERVAL":    r.DigestInterval,
	}
}

// source resolves a key from the process environment, then the dotenv
// file, then the YAML file. Blank values count as absent.
type source struct {
	lookup LookupFunc
	dotenv map[string]string
	file   map[string]string
}

func (s source) get(key string) string {
	if v, ok := s.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(s.dotenv[key]); v != "" {
		return v
	}
	return strings.TrimSpace(s.file[key])
}

func (s source) getDefault(key, def string) string {
	if v := s.get(key); v != "" {
		return v
	}
	return def
}

// Load resolves the configuration. Required variables are checked before
// anything else is parsed; a missing one yields *MissingEnvError.
func Load(opts Options) (*Config, error) {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	src := source{lookup: lookup}

	if opts.EnvFile != "" {
		values, err := godotenv.Read(opts.EnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read env file: %w", err)
		}
		src.dotenv = values
	}

	if opts.Path != "" {
		file, err := readFile(opts.Path, src)
		if err != nil {
			return nil, err
		}
		src.file = file.values()
	}

	var required []string
	if opts.RequireSearch {
		required = append(required, "SERPAPI_KEY")
	}
	if opts.RequireMail {
		required = append(required, "GMAIL_USER", "GMAIL_APP_PASSWORD", "TO_EMAIL")
	}
	for _, name := range required {
		if src.get(name) == "" {
			return nil, &MissingEnvError{Name: name}
		}
	}

	cfg := &Config{
		SerpAPI: SerpAPIConfig{
			APIKey:    src.get("SERPAPI_KEY"),
			BaseURL:   src.getDefault("SERPAPI_BASE_URL", defaultSerpAPIBaseURL),
			Locale:    src.getDefault("SEARCH_LOCALE", "en"),
			RoleQuery: src.getDefault("ROLE_QUERY", defaultRoleQuery),
			SitesHint: src.getDefault("SITES_HINT", defaultSitesHint),
			Timeout:   defaultRequestTimeout,
		},
		Companies: splitCompanies(src.getDefault("COMPANIES", defaultCompanies)),
		AI: AIConfig{
			APIKey:  src.get("OPENAI_API_KEY"),
			BaseURL: src.getDefault("OPENAI_BASE_URL", defaultOpenAIBaseURL),
			Model:   src.getDefault("OPENAI_MODEL", defaultOpenAIModel),
			Timeout: defaultRequestTimeout,
		},
		Mail: MailConfig{
			User:        src.get("GMAIL_USER"),
			AppPassword: src.get("GMAIL_APP_PASSWORD"),
			To:          src.get("TO_EMAIL"),
			Host:        src.getDefault("SMTP_HOST", defaultSMTPHost),
		},
		Slack:       SlackConfig{WebhookURL: src.get("SLACK_WEBHOOK_URL")},
		ArchivePath: src.get("ARCHIVE_PATH"),
	}

	var err error
	if cfg.MaxResults, err = intVar(src, "MAX_RESULTS", defaultMaxResults); err != nil {
		return nil, err
	}
	if cfg.PerCompanyLimit, err = intVar(src, "PER_COMPANY_LIMIT", 0); err != nil {
		return nil, err
	}
	if cfg.Days, err = intVar(src, "DAYS", defaultDays); err != nil {
		return nil, err
	}
	if cfg.Mail.Port, err = intVar(src, "SMTP_PORT", defaultSMTPPort); err != nil {
		return nil, err
	}
	if cfg.PolitenessDelay, err = durationVar(src, "POLITENESS_DELAY", defaultPolitenessDelay); err != nil {
		return nil, err
	}
	if cfg.DigestInterval, err = durationVar(src, "DIGEST_INTERVAL", defaultDigestInterval); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string, src source) (rawFile, error) {
	var raw rawFile
	data, err := os.ReadFile(path)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}

	// ${VAR} references see the process environment and the dotenv file.
	expanded := os.Expand(string(data), func(key string) string {
		if v, ok := src.lookup(key); ok {
			return v
		}
		return src.dotenv[key]
	})

	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func intVar(src source, key string, def int) (int, error) {
	v := src.get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, v, err)
	}
	return n, nil
}

func durationVar(src source, key string, def time.Duration) (time.Duration, error) {
	v := src.get(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitCompanies(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func validate(cfg *Config) error {
	if cfg.MaxResults < 0 {
		return fmt.Errorf("MAX_RESULTS must not be negative, got %d", cfg.MaxResults)
	}
	if cfg.PerCompanyLimit < 0 {
		return fmt.Errorf("PER_COMPANY_LIMIT must not be negative, got %d", cfg.PerCompanyLimit)
	}
	if cfg.PolitenessDelay < 0 {
		return fmt.Errorf("POLITENESS_DELAY must not be negative, got %v", cfg.PolitenessDelay)
	}
	if cfg.DigestInterval <= 0 {
		return fmt.Errorf("DIGEST_INTERVAL must be positive, got %v", cfg.DigestInterval)
	}
	if cfg.Mail.Port <= 0 || cfg.Mail.Port > 65535 {
		return fmt.Errorf("SMTP_PORT out of range: %d", cfg.Mail.Port)
	}

	const slackPrefix = "https://hooks.slack.com/"
	if cfg.Slack.WebhookURL != "" && !strings.HasPrefix(cfg.Slack.WebhookURL, slackPrefix) {
		return fmt.Errorf("SLACK_WEBHOOK_URL must start with %s", slackPrefix)
	}
	return nil
}
