// Package config loads dgb settings from YAML, .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"dgb/datatable"
	"dgb/internal/logging"
	"dgb/internal/script"
)

// Environment variables read by Load.
const (
	EnvConfig     = "DGB_CONFIG"
	EnvLogLevel   = "DGB_LOG_LEVEL"
	EnvAPITimeout = "DGB_API_TIMEOUT"
)

// Config is the dgb configuration.
type Config struct {
	Grid              GridConfig     `yaml:"grid"`
	Columns           []ColumnConfig `yaml:"columns,omitempty"`
	RowLimit          int64          `yaml:"row_limit"`
	APITimeoutSeconds int            `yaml:"api_timeout_seconds"`
	LogLevel          string         `yaml:"log_level"`
	Server            ServerConfig   `yaml:"server"`
}

// GridConfig holds the default display options of a grid.
type GridConfig struct {
	ShowHeader bool   `yaml:"show_header"`
	Transpose  bool   `yaml:"transpose"`
	EmptyText  string `yaml:"empty_text"`
	Striped    bool   `yaml:"striped"`
	Bordered   bool   `yaml:"bordered"`
	Condensed  bool   `yaml:"condensed"`
	Responsive bool   `yaml:"responsive"`
}

// ColumnConfig describes one displayed column. Script holds renderer
// source inline; ScriptFile names a file holding it.
type ColumnConfig struct {
	Accessor   string `yaml:"accessor"`
	Title      string `yaml:"title,omitempty"`
	Script     string `yaml:"script,omitempty"`
	ScriptFile string `yaml:"script_file,omitempty"`
}

// ServerConfig configures `dgb serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			ShowHeader: true,
			EmptyText:  "No data",
			Responsive: true,
		},
		RowLimit:          0,
		APITimeoutSeconds: 60,
		LogLevel:          "info",
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// DefaultPath is the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "dgb.yaml"
	}
	return filepath.Join(dir, "dgb", "config.yaml")
}

// LoadEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the YAML file at path. An empty path falls back to $DGB_CONFIG;
// a missing file yields the defaults. Environment overrides apply last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
			cfg.resolveScripts(filepath.Dir(path))
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// resolveScripts makes relative script paths relative to the config file.
func (c *Config) resolveScripts(dir string) {
	for i, col := range c.Columns {
		if col.ScriptFile != "" && !filepath.IsAbs(col.ScriptFile) {
			c.Columns[i].ScriptFile = filepath.Join(dir, col.ScriptFile)
		}
	}
}

func (c *Config) applyEnvOverrides() error {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
	if s := os.Getenv(EnvAPITimeout); s != "" {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvAPITimeout, s, err)
		}
		c.APITimeoutSeconds = n
	}
	return nil
}

// Validate checks the log level and column list.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.APITimeoutSeconds < 0 {
		return fmt.Errorf("api_timeout_seconds must not be negative, got %d", c.APITimeoutSeconds)
	}
	seen := make(map[string]bool, len(c.Columns))
	for _, col := range c.Columns {
		if col.Accessor == "" {
			return fmt.Errorf("%w: column without accessor", datatable.ErrInvalidColumn)
		}
		if seen[col.Accessor] {
			return fmt.Errorf("%w: %s", datatable.ErrDuplicateColumn, col.Accessor)
		}
		seen[col.Accessor] = true
	}
	return nil
}

// APITimeout returns the remote call timeout.
func (c *Config) APITimeout() time.Duration {
	if c.APITimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

// GridOptions converts the grid section into render options.
func (c *Config) GridOptions() datatable.Options {
	opts := datatable.DefaultOptions()
	opts.ShowHeader = c.Grid.ShowHeader
	opts.Transpose = c.Grid.Transpose
	opts.EmptyText = c.Grid.EmptyText
	opts.Striped = c.Grid.Striped
	opts.Bordered = c.Grid.Bordered
	opts.Condensed = c.Grid.Condensed
	opts.Responsive = c.Grid.Responsive
	return opts
}

// GridColumns builds the configured columns, compiling renderer scripts.
// It returns nil when no columns are configured.
func (c *Config) GridColumns(logger *zap.Logger) ([]datatable.Column, error) {
	if len(c.Columns) == 0 {
		return nil, nil
	}

	cols := make([]datatable.Column, len(c.Columns))
	for i, cc := range c.Columns {
		cols[i] = datatable.Column{AccessorKey: cc.Accessor, Title: cc.Title}

		src := cc.Script
		if cc.ScriptFile != "" {
			data, err := os.ReadFile(cc.ScriptFile)
			if err != nil {
				return nil, fmt.Errorf("column %s: failed to read script: %w", cc.Accessor, err)
			}
			src = string(data)
		}
		if strings.TrimSpace(src) == "" {
			continue
		}

		render, err := script.Compile(src, logger)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", cc.Accessor, err)
		}
		cols[i].Render = render
	}
	return cols, nil
}
