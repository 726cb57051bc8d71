package config

import (
	"fmt"
	"os"

	"huddleboard/internal/data"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DataFile    string `yaml:"data_file"`
	DBPath      string `yaml:"db_path"`
	DatabaseURL string `yaml:"database_url"`
	Model       string `yaml:"model"`
	AuthSecret  string `yaml:"auth_secret"`

	Followup struct {
		BatchSize  int `yaml:"batch_size"`
		MaxWorkers int `yaml:"max_workers"`
	} `yaml:"followup"`

	MetricsConfig struct {
		Enabled bool   `yaml:"enabled"`
		Port    int    `yaml:"port"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`

	DateRanges []RangeConfig `yaml:"date_ranges"`
}

// RangeConfig is one configured bucketing window.
type RangeConfig struct {
	Name  string `yaml:"name"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	cfg := &Config{
		DataFile: "data/fine-dining-dataset.json",
		DBPath:   "huddleboard.db",
		Model:    "command",
	}
	cfg.MetricsConfig.Enabled = true
	cfg.MetricsConfig.Port = 9090
	cfg.MetricsConfig.Path = "/metrics"
	return cfg
}

// Load reads the YAML configuration file and applies environment
// overrides. A missing path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// Secrets come from the environment when set.
	if secret := os.Getenv("HUDDLEBOARD_AUTH_SECRET"); secret != "" {
		cfg.AuthSecret = secret
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}

	if cfg.Model == "" {
		cfg.Model = "command"
	}

	return cfg, nil
}

// Ranges converts the configured date windows, falling back to the
// standard dashboard ranges when none are configured.
func (c *Config) Ranges() ([]data.DateRange, error) {
	if len(c.DateRanges) == 0 {
		return data.DefaultDateRanges(), nil
	}

	ranges := make([]data.DateRange, 0, len(c.DateRanges))
	for _, rc := range c.DateRanges {
		start, err := data.ParseDate(rc.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q for range %q: %w", rc.Start, rc.Name, err)
		}
		end, err := data.ParseDate(rc.End)
		if err != nil {
			return nil, fmt.Errorf("invalid end date %q for range %q: %w", rc.End, rc.Name, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("range %q ends before it starts", rc.Name)
		}
		ranges = append(ranges, data.DateRange{Name: rc.Name, Start: start, End: end})
	}
	return ranges, nil
}
