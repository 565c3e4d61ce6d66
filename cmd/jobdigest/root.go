package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/adapter"
	"github.com/amishk599/jobdigest/internal/aggregator"
	"github.com/amishk599/jobdigest/internal/ai"
	"github.com/amishk599/jobdigest/internal/config"
	"github.com/amishk599/jobdigest/internal/digest"
	"github.com/amishk599/jobdigest/internal/model"
	"github.com/amishk599/jobdigest/internal/notifier"
	"github.com/amishk599/jobdigest/internal/ratelimit"
	"github.com/amishk599/jobdigest/internal/store"
)

var (
	cfgPath string
	debug   bool

	// Overridden in tests.
	lookupEnv config.LookupFunc = os.LookupEnv
	envFile                     = ".env"
	newNotifier                 = setupNotifier
)

var rootCmd = &cobra.Command{
	Use:   "jobdigest",
	Short: "Daily SDE job digest",
	Long:  "jobdigest searches Google Jobs for each configured company, drafts outreach messages and emails you an HTML digest.",
	// With no subcommand, send one digest. This keeps cron entries that
	// invoke the bare binary working.
	RunE:          runSend,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to YAML config file (default: JOBDIGEST_CONFIG env var, then ./jobdigest.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// execute runs the CLI and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		var missing *config.MissingEnvError
		if errors.As(err, &missing) {
			fmt.Fprintln(stderr, missing.Error())
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// loadConfig resolves the config file path and parses everything.
// Priority: --config flag > JOBDIGEST_CONFIG env var > ./jobdigest.yaml (if present).
func loadConfig(requireSearch, requireMail bool) (*config.Config, error) {
	path := cfgPath
	if path == "" {
		if env, ok := lookupEnv("JOBDIGEST_CONFIG"); ok && env != "" {
			path = env
		} else if _, err := os.Stat("jobdigest.yaml"); err == nil {
			path = "jobdigest.yaml"
		}
	}
	return config.Load(config.Options{
		Path:          path,
		EnvFile:       envFile,
		Lookup:        lookupEnv,
		RequireSearch: requireSearch,
		RequireMail:   requireMail,
	})
}

func setupLogger(w io.Writer, dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

func setupCollector(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) *aggregator.Aggregator {
	fetcher := adapter.NewSerpAPIAdapter(adapter.SerpAPIOptions{
		BaseURL:   cfg.SerpAPI.BaseURL,
		APIKey:    cfg.SerpAPI.APIKey,
		Locale:    cfg.SerpAPI.Locale,
		RoleQuery: cfg.SerpAPI.RoleQuery,
		SitesHint: cfg.SerpAPI.SitesHint,
	}, httpClient)
	pacer := ratelimit.NewPacer(cfg.PolitenessDelay)
	return aggregator.NewAggregator(fetcher, pacer, cfg.MaxResults, cfg.PerCompanyLimit, logger)
}

func setupOutreach(cfg *config.Config, logger *slog.Logger) ai.OutreachGenerator {
	if !cfg.AI.Enabled() {
		logger.Info("OPENAI_API_KEY not set, outreach messages disabled")
		return ai.NewDisabledOutreachGenerator()
	}
	provider := ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model,
		&http.Client{Timeout: cfg.AI.Timeout})
	logger.Info("outreach enabled", "model", cfg.AI.Model)
	return ai.NewLLMOutreachGenerator(provider, ai.OutreachTemplate)
}

// setupNotifier returns the email notifier, fanned out to Slack when a
// webhook is configured.
func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (model.Notifier, error) {
	email, err := notifier.NewEmailNotifier(notifier.EmailOptions{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.User,
		Password: cfg.Mail.AppPassword,
		To:       cfg.Mail.To,
	}, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Slack.WebhookURL == "" {
		return email, nil
	}
	logger.Info("slack summary enabled")
	slack := notifier.NewSlackNotifier(cfg.Slack.WebhookURL, httpClient, logger)
	return notifier.NewMultiNotifier(logger, email, slack), nil
}

// setupArchive opens the digest archive, or a no-op one when ARCHIVE_PATH
// is unset. The returned func closes it.
func setupArchive(cfg *config.Config) (model.DigestArchive, func(), error) {
	if cfg.ArchivePath == "" {
		return store.NewNopArchive(), func() {}, nil
	}
	a, err := store.NewSQLiteArchive(cfg.ArchivePath)
	if err != nil {
		return nil, nil, err
	}
	return a, func() { a.Close() }, nil
}

func runnerConfig(cfg *config.Config, companies []string) digest.RunnerConfig {
	return digest.RunnerConfig{
		Companies:  companies,
		MaxResults: cfg.MaxResults,
		Recipient:  cfg.Mail.To,
	}
}

func logConfig(cfg *config.Config, logger *slog.Logger) {
	logger.Info("config loaded",
		"companies", len(cfg.Companies),
		"max_results", cfg.MaxResults,
		"per_company_limit", cfg.PerCompanyLimit,
		"politeness_delay", cfg.PolitenessDelay.String(),
		"locale", cfg.SerpAPI.Locale,
	)
	logger.Debug("search query", "role_query", cfg.SerpAPI.RoleQuery, "sites_hint", cfg.SerpAPI.SitesHint, "days", cfg.Days)
}
