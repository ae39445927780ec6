package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the CLI and the service.
type Config struct {
	// BudgetSeconds is the total execution time the selected tests may use.
	BudgetSeconds float64 `yaml:"budget_seconds"`
	Strategy      string  `yaml:"strategy"`
	MaxCells      int64   `yaml:"max_cells"`
	Listen        string  `yaml:"listen"`

	Store   Store             `yaml:"store"`
	Columns Columns           `yaml:"columns"`
	Aliases map[string]string `yaml:"aliases"`
	Runner  Runner            `yaml:"runner"`
}

type Store struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

// Columns names the CSV headers holding each candidate field, after
// aliases have been applied.
type Columns struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Cost  string `yaml:"cost"`
	Value string `yaml:"value"`
}

// Runner configures container execution of selected tests. "{name}" in
// Command is replaced by the test case name.
type Runner struct {
	Image   string   `yaml:"image"`
	Command []string `yaml:"command"`
	Env     []string `yaml:"env"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		BudgetSeconds: 20,
		Strategy:      "hybrid",
		Listen:        "localhost:5555",
		Store: Store{
			Type: "memory",
			Path: "runs.db",
		},
		Columns: Columns{
			ID:    "testCase_id",
			Name:  "testcase_name",
			Cost:  "execTime",
			Value: "priorityScore",
		},
		Aliases: map[string]string{
			"Q_value":      "priorityScore",
			"duration_sec": "execTime",
		},
		Runner: Runner{
			Image:   "mcr.microsoft.com/dotnet/sdk:8.0",
			Command: []string{"dotnet", "test", "--filter", "Name={name}"},
		},
	}
}

// Load reads a YAML config file from the given path. Keys missing from the
// file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all config values are usable.
func (c *Config) Validate() error {
	if c.BudgetSeconds < 0 {
		return fmt.Errorf("invalid budget_seconds %v: must be >= 0", c.BudgetSeconds)
	}

	switch c.Strategy {
	case "dp", "bnb", "hybrid":
	default:
		return fmt.Errorf("invalid strategy %q: want dp, bnb or hybrid", c.Strategy)
	}

	if c.MaxCells < 0 {
		return fmt.Errorf("invalid max_cells %d: must be >= 0", c.MaxCells)
	}

	if c.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Listen); err != nil {
			return fmt.Errorf("invalid listen %q: %w", c.Listen, err)
		}
	}

	switch c.Store.Type {
	case "memory":
	case "persistent":
		if c.Store.Path == "" {
			return fmt.Errorf("invalid store: persistent store needs a path")
		}
	default:
		return fmt.Errorf("invalid store type %q: want memory or persistent", c.Store.Type)
	}

	for field, col := range map[string]string{
		"id":    c.Columns.ID,
		"cost":  c.Columns.Cost,
		"value": c.Columns.Value,
	} {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("invalid columns: %s column cannot be empty", field)
		}
	}

	return nil
}
