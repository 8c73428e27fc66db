package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/config"
	"github.com/cleared-dev/books/internal/database"
	"github.com/cleared-dev/books/internal/gitops"
)

type initOptions struct {
	name       string
	entityType string
	companyID  int64
	git        bool
}

func newInitCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new books project with the default chart of accounts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&opts.entityType, "entity-type", "llc_single_member", "entity type")
	cmd.Flags().Int64Var(&opts.companyID, "company-id", 1, "company the ledger belongs to")
	cmd.Flags().BoolVar(&opts.git, "git", false, "initialize a git repository and commit snapshots")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir string, opts initOptions) error {
	configPath := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", configPath, err)
	}

	if err := os.MkdirAll(filepath.Join(dir, snapshotDir), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", snapshotDir, err)
	}

	cfg := config.Default(opts.name, opts.entityType)
	cfg.Company.ID = opts.companyID
	cfg.Git.AutoCommit = opts.git
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// The database and secrets stay out of version control; snapshots carry the ledger.
	gitignore := cfg.Database.Path + "\n" + cfg.Database.Path + "-*\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	db, err := database.Open(database.Config{Path: filepath.Join(dir, cfg.Database.Path)}, zerolog.Nop())
	if err != nil {
		return err
	}
	defer db.Close()

	svc := accounts.NewService(db, zerolog.Nop())
	chart, err := svc.CreateAll(ctx, cfg.Company.ID, accounts.DefaultChart(opts.entityType))
	if err != nil {
		return fmt.Errorf("creating chart of accounts: %w", err)
	}
	if err := writeFile(filepath.Join(dir, snapshotDir, chartFile), func(w io.Writer) error {
		return accounts.WriteAccounts(w, chart)
	}); err != nil {
		return err
	}

	if opts.git {
		if err := gitops.Init(ctx, dir); err != nil {
			return err
		}
		hash, err := gitops.Commit(ctx, dir, "init: Initialize "+opts.name,
			gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail},
			ConfigFile, ".gitignore", snapshotDir)
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		fmt.Fprintf(out, "Initialized books for %s at %s (%s)\n", opts.name, dir, hash)
		return nil
	}

	fmt.Fprintf(out, "Initialized books for %s at %s\n", opts.name, dir)
	return nil
}

// writeFile creates path and hands it to write, closing it afterwards.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
