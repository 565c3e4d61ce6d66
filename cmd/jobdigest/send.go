package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/digest"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Build and email one digest, then exit",
	Long:  "One-shot run: search every company, dedupe, draft outreach, email the digest. This is also what the bare command does.",
	RunE:  runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true, true)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.OutOrStdout(), debug)
	logConfig(cfg, logger)

	httpClient := &http.Client{Timeout: cfg.SerpAPI.Timeout}
	n, err := newNotifier(cfg, httpClient, logger)
	if err != nil {
		return err
	}
	archive, closeArchive, err := setupArchive(cfg)
	if err != nil {
		return err
	}
	defer closeArchive()

	runner := digest.NewRunner(
		runnerConfig(cfg, cfg.Companies),
		setupCollector(cfg, httpClient, logger),
		setupOutreach(cfg, logger),
		n,
		archive,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sent digest to %s with %d jobs.\n", summary.Recipient, summary.Jobs)
	return nil
}
