package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/ai"
	"github.com/amishk599/jobdigest/internal/config"
	"github.com/amishk599/jobdigest/internal/digest"
	"github.com/amishk599/jobdigest/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Browse what the next digest would contain (TUI)",
	Long:  "Shows the company picker, searches the selection, then opens a split view of everything collected next to the deduplicated digest.",
	RunE:  runPreviewCmd,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreviewCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true, false)
	if err != nil {
		return err
	}
	if len(cfg.Companies) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No companies configured.")
		return nil
	}

	// Preview runs a TUI and any log output corrupts the display.
	silentLogger := setupLogger(io.Discard, false)
	httpClient := &http.Client{Timeout: cfg.SerpAPI.Timeout}
	outreach := setupOutreach(cfg, silentLogger)

	return runPreview(cmd, cfg, httpClient, outreach, silentLogger)
}

func runPreview(cmd *cobra.Command, cfg *config.Config, httpClient *http.Client, outreach ai.OutreachGenerator, logger *slog.Logger) error {
	out := cmd.OutOrStdout()
	collector := setupCollector(cfg, httpClient, logger)

	for {
		companies, ok, err := preview.RunCompanyPicker(cfg.Companies)
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		if !ok {
			return nil
		}

		runner := digest.NewRunner(runnerConfig(cfg, companies), collector, outreach, nil, nil, logger)
		label := strings.Join(companies, ", ")
		if len(companies) > 1 {
			label = fmt.Sprintf("%d companies", len(companies))
		}

		gathered, err := preview.RunLoader(label, func(ctx context.Context) digest.Gathered {
			return runner.Gather(ctx)
		})
		if err != nil {
			fmt.Fprintf(out, "Search cancelled: %v\n", err)
			continue
		}
		for _, f := range gathered.Collected.Failed() {
			fmt.Fprintf(out, "%s: %v\n", f.Company, f.Err)
		}

		wantQuit, err := preview.RunPreviewTUI(gathered.Collected.Jobs, gathered.Jobs, outreach)
		if err != nil {
			fmt.Fprintf(out, "TUI error: %v\n", err)
		}
		if wantQuit {
			return nil
		}
	}
}
