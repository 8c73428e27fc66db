package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/gitops"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/period"
	"github.com/cleared-dev/books/internal/store"
)

// Snapshot files live under the project directory.
const (
	snapshotDir = "export"
	chartFile   = "chart-of-accounts.csv"
	journalFile = "journal.csv"
)

func newSnapshotCommand(opts *globalOptions) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export the chart and posted journal as CSV and commit them when git is enabled",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			dir := filepath.Join(a.projectDir, snapshotDir)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}

			if err := writeFile(filepath.Join(dir, chartFile), func(w io.Writer) error {
				return a.accounts.Export(ctx, a.companyID, w)
			}); err != nil {
				return err
			}
			if err := writeFile(filepath.Join(dir, journalFile), func(w io.Writer) error {
				return a.journal.Export(ctx, a.companyID, store.EntryFilter{Status: model.StatusPosted}, w)
			}); err != nil {
				return err
			}
			a.log.Info().Str("dir", dir).Msg("snapshot written")

			if !a.cfg.Git.AutoCommit || !gitops.IsRepo(a.projectDir) {
				fmt.Fprintf(cmd.OutOrStdout(), "Snapshot written to %s\n", dir)
				return nil
			}
			if message == "" {
				message = "snapshot: " + period.Format(period.Day(time.Now()))
			}
			hash, err := gitops.Commit(ctx, a.projectDir, message,
				gitops.Author{Name: a.cfg.Git.AuthorName, Email: a.cfg.Git.AuthorEmail}, snapshotDir)
			if err != nil {
				return err
			}
			if hash == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Snapshot unchanged")
				return nil
			}
			a.log.Info().Str("commit", hash).Msg("snapshot committed")
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot committed (%s)\n", hash)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	return cmd
}
