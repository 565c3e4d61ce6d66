package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/notifier"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification subcommands",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test digest",
	Long:  "Sends a one-row test digest by email (and Slack, if configured) to verify delivery.",
	RunE:  runNotifyTest,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false, true)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.OutOrStdout(), debug)
	httpClient := &http.Client{Timeout: cfg.SerpAPI.Timeout}
	n, err := newNotifier(cfg, httpClient, logger)
	if err != nil {
		return err
	}

	if err := notifier.SendTestMessage(context.Background(), n); err != nil {
		return fmt.Errorf("test notification failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Test digest sent to %s.\n", cfg.Mail.To)
	return nil
}
