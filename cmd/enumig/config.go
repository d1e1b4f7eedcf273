package main

import (
	"context"
	"database/sql"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/enumig/internal/dialect"
	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/state"
)

const defaultStateFile = "enumig.state.yaml"

// Config represents the enumig.yaml configuration file.
type Config struct {
	DatabaseURL string `yaml:"database_url"`
	Dialect     string `yaml:"dialect"`
	StateFile   string `yaml:"state_file"`

	// Checks selects check-constraint emulation on databases that also
	// support declared enum types.
	Checks bool `yaml:"checks"`
}

// loadConfig loads configuration from file, env vars, and CLI flags.
// Precedence: CLI flags > env vars > config file > defaults
func loadConfig() (*Config, error) {
	cfg := &Config{
		StateFile: defaultStateFile,
	}

	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, enerr.Wrap(enerr.ErrConfigInvalid, err, "failed to parse config file").
				With("file", configFile)
		}
		// Handle env var interpolation in database_url
		cfg.DatabaseURL = os.Expand(cfg.DatabaseURL, os.Getenv)
	}

	if envURL := os.Getenv("DATABASE_URL"); envURL != "" && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = envURL
	}
	if envState := os.Getenv("ENUMIG_STATE_FILE"); envState != "" && cfg.StateFile == defaultStateFile {
		cfg.StateFile = envState
	}

	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}

	if cfg.StateFile == "" {
		cfg.StateFile = defaultStateFile
	}

	return cfg, nil
}

// resolveDialect picks the dialect from explicit config, falling back to
// the database URL scheme. Bare paths are treated as SQLite files.
func resolveDialect(cfg *Config) (dialect.Dialect, error) {
	name := cfg.Dialect
	if name == "" {
		switch {
		case strings.HasPrefix(cfg.DatabaseURL, "postgres://"),
			strings.HasPrefix(cfg.DatabaseURL, "postgresql://"):
			name = "postgres"
		case cfg.DatabaseURL != "":
			name = "sqlite"
		default:
			return nil, enerr.New(enerr.ErrConfigInvalid, "no database URL configured").
				With("hint", "set database_url in enumig.yaml, DATABASE_URL, or --database-url")
		}
	}

	if name == "postgres" && cfg.Checks {
		return dialect.PostgresWithChecks(), nil
	}

	d := dialect.Get(name)
	if d == nil {
		return nil, enerr.New(enerr.ErrConfigInvalid, "unknown dialect").
			With("dialect", name).
			With("supported", strings.Join(dialect.Names(), ", "))
	}
	return d, nil
}

// openDB connects to the configured database and verifies the connection.
func openDB(ctx context.Context, cfg *Config, d dialect.Dialect) (*sql.DB, error) {
	driver := "sqlite"
	if d.Name() == "postgres" {
		driver = "postgres"
	}

	url := cfg.DatabaseURL
	if driver == "sqlite" {
		url = strings.TrimPrefix(url, "sqlite://")
	}

	db, err := sql.Open(driver, url)
	if err != nil {
		return nil, enerr.Wrap(enerr.ErrSQLConnection, err, "failed to open database")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, enerr.Wrap(enerr.ErrSQLConnection, err, "failed to reach database")
	}
	return db, nil
}

// loadState reads the recorded enum state. A missing file yields an empty
// registry.
func loadState(cfg *Config) (*state.Registry, error) {
	return state.Load(cfg.StateFile)
}

// saveState persists the registry back to the state file.
func saveState(cfg *Config, reg *state.Registry) error {
	return reg.Save(cfg.StateFile)
}
