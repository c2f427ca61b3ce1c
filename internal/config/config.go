package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultOutputDir    = "docs"
	defaultMaxWorkers   = 4
	defaultFetchTimeout = 30 * time.Second
	defaultFetchRetries = 2
)

// Config stores runtime configuration for a generation run, loaded from a
// YAML file committed next to the published calendars.
type Config struct {
	OutputDir    string       `yaml:"output_dir"`
	MaxWorkers   int          `yaml:"max_workers"`
	FetchTimeout Duration     `yaml:"fetch_timeout"`
	FetchRetries *int         `yaml:"fetch_retries"`
	Teams        []TeamConfig `yaml:"teams" validate:"required,min=1,dive"`
}

// Retries reports the configured retry count, defaulting when the key is
// absent. Zero is a valid explicit setting.
func (c Config) Retries() int {
	if c.FetchRetries == nil || *c.FetchRetries < 0 {
		return defaultFetchRetries
	}
	return *c.FetchRetries
}

// TeamConfig is one calendar to generate: how to reach the schedule and how
// to recognize the team inside it.
type TeamConfig struct {
	Name        string   `yaml:"name" validate:"required"`
	Slug        string   `yaml:"slug" validate:"required"`
	APIURL      string   `yaml:"api_url" validate:"required,url"`
	LeagueName  string   `yaml:"league_name"`
	MyTeamIDs   []int    `yaml:"my_team_ids"`
	MyTeamNames []string `yaml:"my_team_names"`
}

// Duration parses YAML scalars through time.ParseDuration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads and validates the config file. Any missing required team field
// fails the whole load: a misconfigured entry aborts the run before output
// is written for anyone.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.OutputDir = strings.TrimSpace(c.OutputDir)
	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = defaultMaxWorkers
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = Duration(defaultFetchTimeout)
	}

	for i := range c.Teams {
		t := &c.Teams[i]
		t.Name = strings.TrimSpace(t.Name)
		t.Slug = strings.TrimSpace(t.Slug)
		t.APIURL = strings.TrimSpace(t.APIURL)
		t.LeagueName = strings.TrimSpace(t.LeagueName)

		names := t.MyTeamNames[:0]
		for _, name := range t.MyTeamNames {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				names = append(names, trimmed)
			}
		}
		t.MyTeamNames = names
	}
}
