package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/digest"
	"github.com/amishk599/jobdigest/internal/notifier"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Build a digest and log it instead of sending",
	Long:  "Dry run: searches, dedupes and drafts outreach exactly like send, then logs the digest. No mail is sent and nothing is archived.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true, false)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.OutOrStdout(), debug)
	logConfig(cfg, logger)
	logger.Info("check mode: digest will be logged, not sent")

	httpClient := &http.Client{Timeout: cfg.SerpAPI.Timeout}
	runner := digest.NewRunner(
		runnerConfig(cfg, cfg.Companies),
		setupCollector(cfg, httpClient, logger),
		setupOutreach(cfg, logger),
		notifier.NewLogNotifier(logger),
		nil,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Check complete: %d jobs (%d collected, %d companies failed).\n",
		summary.Jobs, summary.Collected, summary.FailedCompanies)
	return nil
}
