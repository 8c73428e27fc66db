package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvDBPath    = "BOOKS_DB_PATH"
	EnvLogLevel  = "BOOKS_LOG_LEVEL"
	EnvCompanyID = "BOOKS_COMPANY_ID"
)

// Config represents the top-level books.yaml configuration.
type Config struct {
	Company        CompanyConfig        `yaml:"company"`
	Fiscal         FiscalConfig         `yaml:"fiscal"`
	Database       DatabaseConfig       `yaml:"database"`
	Logging        LoggingConfig        `yaml:"logging"`
	Reports        ReportsConfig        `yaml:"reports"`
	SystemAccounts SystemAccountsConfig `yaml:"system_accounts"`
	Git            GitConfig            `yaml:"git"`
}

// CompanyConfig identifies the company the CLI acts for.
type CompanyConfig struct {
	ID         int64  `yaml:"id"`
	Name       string `yaml:"name"`
	EntityType string `yaml:"entity_type"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "01-01"
}

// DatabaseConfig locates the ledger database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// ReportsConfig holds report policies.
type ReportsConfig struct {
	// TrialBalanceIncludeDrafts includes draft entries in the trial balance.
	TrialBalanceIncludeDrafts bool `yaml:"trial_balance_include_drafts"`
	// AgingBuckets are the inclusive upper day bounds of the aging buckets;
	// a final open-ended bucket follows the last bound.
	AgingBuckets []int `yaml:"aging_buckets,flow"`
}

// SystemAccountsConfig maps system roles to account codes. Empty codes fall
// back to the first account with the role's subtype.
type SystemAccountsConfig struct {
	Receivable string `yaml:"receivable,omitempty"`
	Payable    string `yaml:"payable,omitempty"`
	COGS       string `yaml:"cogs,omitempty"`
	Inventory  string `yaml:"inventory,omitempty"`
	GainLoss   string `yaml:"gain_loss,omitempty"`
	Cash       string `yaml:"cash,omitempty"`
}

// GitConfig controls committing ledger snapshots to the project repository.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Codes returns the configured codes keyed by role name.
func (s SystemAccountsConfig) Codes() map[string]string {
	return map[string]string{
		"receivable": s.Receivable,
		"payable":    s.Payable,
		"cogs":       s.COGS,
		"inventory":  s.Inventory,
		"gain_loss":  s.GainLoss,
		"cash":       s.Cash,
	}
}

// Load reads a books.yaml file from disk. Keys missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv loads envFile (if it exists) into the process environment and then
// applies BOOKS_* overrides to cfg.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvCompanyID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %s=%q: %w", EnvCompanyID, v, err)
		}
		cfg.Company.ID = id
	}
	return cfg.Validate()
}

// Validate checks values that would otherwise fail deep inside a report.
func (c *Config) Validate() error {
	if c.Company.ID <= 0 {
		return fmt.Errorf("config: company.id must be positive, got %d", c.Company.ID)
	}
	prev := -1
	for _, b := range c.Reports.AgingBuckets {
		if b <= prev {
			return fmt.Errorf("config: aging_buckets must be strictly increasing and non-negative, got %v", c.Reports.AgingBuckets)
		}
		prev = b
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new company.
func Default(companyName, entityType string) *Config {
	return &Config{
		Company: CompanyConfig{
			ID:         1,
			Name:       companyName,
			EntityType: entityType,
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Database: DatabaseConfig{
			Path: "books.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Reports: ReportsConfig{
			TrialBalanceIncludeDrafts: true,
			AgingBuckets:              []int{30, 60, 90},
		},
		Git: GitConfig{
			AuthorName:  "Books",
			AuthorEmail: "books@localhost",
		},
	}
}
