package commands

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/buildinfo"
	"github.com/cleared-dev/books/internal/config"
	"github.com/cleared-dev/books/internal/costing"
	"github.com/cleared-dev/books/internal/database"
	"github.com/cleared-dev/books/internal/journal"
	"github.com/cleared-dev/books/internal/logging"
	"github.com/cleared-dev/books/internal/payments"
	"github.com/cleared-dev/books/internal/report"
)

// ConfigFile is the name of the project configuration file.
const ConfigFile = "books.yaml"

type globalOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "books",
		Short:   "Double-entry bookkeeping, inventory costing and financial reports",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", ConfigFile, "path to "+ConfigFile)
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with BOOKS_* overrides")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountsCommand(opts),
		newEntryCommand(opts),
		newProductCommand(opts),
		newDocumentCommand(opts),
		newPaymentCommand(opts),
		newBudgetCommand(opts),
		newReportCommand(opts),
		newSnapshotCommand(opts),
	)

	return rootCmd
}

// app holds the services one command invocation works with.
type app struct {
	cfg        *config.Config
	projectDir string
	companyID  int64
	log        zerolog.Logger
	db         *sql.DB

	accounts *accounts.Service
	journal  *journal.Service
	costing  *costing.Service
	payments *payments.Service
	reports  *report.Service
}

// open loads configuration, opens the ledger database and wires the services.
// A relative database path is resolved against the config file's directory.
func (o *globalOptions) open() (*app, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, o.envFile); err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	projectDir, err := filepath.Abs(filepath.Dir(o.configPath))
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}
	dbPath := cfg.Database.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(projectDir, dbPath)
	}

	log := logging.New(logging.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})
	db, err := database.Open(database.Config{Path: dbPath}, log)
	if err != nil {
		return nil, err
	}

	system := accounts.NewSystemAccounts(cfg.SystemAccounts.Codes())
	j := journal.NewService(db, log)
	return &app{
		cfg:        cfg,
		projectDir: projectDir,
		companyID:  cfg.Company.ID,
		log:        log,
		db:         db,
		accounts:   accounts.NewService(db, log),
		journal:    j,
		costing:    costing.NewService(db, j, system, log),
		payments:   payments.NewService(db, j, system, log),
		reports: report.NewService(db, log, report.Options{
			FiscalYearStart:           cfg.Fiscal.YearStart,
			AgingBuckets:              cfg.Reports.AgingBuckets,
			TrialBalanceIncludeDrafts: cfg.Reports.TrialBalanceIncludeDrafts,
		}),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// run wraps a command body that needs an open app.
func (o *globalOptions) run(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := o.open()
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}
