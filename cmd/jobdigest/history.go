package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdigest/internal/digest"
	"github.com/amishk599/jobdigest/internal/store"
)

var (
	historyLimit int
	historyShow  int64
	historyPrune time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously sent digests",
	Long:  "Reads the digest archive at ARCHIVE_PATH. Use --show to print one digest's HTML and --prune to delete old entries.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of digests to list")
	historyCmd.Flags().Int64Var(&historyShow, "show", 0, "print the HTML of the digest with this ID")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete digests older than this duration (e.g. 720h)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false, false)
	if err != nil {
		return err
	}
	if cfg.ArchivePath == "" {
		return errors.New("ARCHIVE_PATH is not set; no digests are archived")
	}

	archive, err := store.NewSQLiteArchive(cfg.ArchivePath)
	if err != nil {
		return err
	}
	defer archive.Close()

	out := cmd.OutOrStdout()

	if historyShow > 0 {
		body, err := archive.HTML(historyShow)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, body)
		return nil
	}

	if historyPrune > 0 {
		removed, err := archive.Cleanup(historyPrune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Pruned %d digests older than %s.\n", removed, historyPrune)
		return nil
	}

	rows, err := archive.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No digests archived yet.")
		return nil
	}

	fmt.Fprintf(out, "%-5s %-20s %-5s %-28s %s\n", "ID", "Sent", "Jobs", "To", "Subject")
	fmt.Fprintln(out, strings.Repeat("─", 90))
	for _, r := range rows {
		fmt.Fprintf(out, "%-5d %-20s %-5d %-28s %s\n", r.ID, digest.Timestamp(r.SentAt), r.JobCount, r.Recipient, r.Subject)
	}
	return nil
}
