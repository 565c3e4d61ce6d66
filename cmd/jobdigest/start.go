package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/digest"
	"github.com/amishk599/jobdigest/internal/scheduler"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the digest daemon",
	Long:  "Sends a digest immediately, then again every DIGEST_INTERVAL; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
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

	sched := scheduler.NewScheduler(runner, cfg.DigestInterval, logger)
	if err := sched.Run(ctx); err != nil {
		return err
	}

	logger.Info("goodbye")
	return nil
}
