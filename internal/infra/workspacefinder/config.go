package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
)

// ConfigFile is the workspace marker and configuration file name.
const ConfigFile = "apiurlfix.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "APIURLFIX_"

// LoadConfig loads apiurlfix.yaml from the workspace root and applies defaults,
// then environment overrides. When the file is missing the defaults (with env
// overrides) are returned alongside a KindNotFound error.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFile)
	b, err := os.ReadFile(path)
	if err != nil {
		if envErr := applyEnv(&cfg); envErr != nil {
			return cfg, envErr
		}
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	c := y.Apiurlfix
	if c.Rewrite.BaseURL != "" {
		cfg.Rewrite.BaseURL = c.Rewrite.BaseURL
	}
	if c.Rewrite.Helper != "" {
		cfg.Rewrite.Helper = c.Rewrite.Helper
	}
	if c.Import.Module != "" {
		cfg.Import.Module = c.Import.Module
	}
	if c.Import.Marker != nil {
		cfg.Import.Marker = *c.Import.Marker
	}
	if c.Import.RequireMarker != nil {
		cfg.Import.RequireMarker = *c.Import.RequireMarker
	}
	if c.Import.Statement != "" {
		cfg.Import.Statement = c.Import.Statement
	}
	if c.Targets != nil {
		cfg.Targets = c.Targets
	}
	if c.Defaults.Format != "" {
		cfg.Defaults.Format = c.Defaults.Format
	}
	if c.Paths.RunsDir != "" {
		cfg.Paths.RunsDir = c.Paths.RunsDir
	}
	if c.Paths.LogsDir != "" {
		cfg.Paths.LogsDir = c.Paths.LogsDir
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := validate(cfg); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return cfg, nil
}

type envOverrides struct {
	BaseURL      string   `env:"BASE_URL"`
	Helper       string   `env:"HELPER"`
	ImportModule string   `env:"IMPORT_MODULE"`
	RunsDir      string   `env:"RUNS_DIR"`
	Targets      []string `env:"TARGETS" envSeparator:","`
}

func applyEnv(cfg *domain.Config) error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return &domain.OpError{
			Op:   "workspacefinder.env",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	if o.BaseURL != "" {
		cfg.Rewrite.BaseURL = o.BaseURL
	}
	if o.Helper != "" {
		cfg.Rewrite.Helper = o.Helper
	}
	if o.ImportModule != "" {
		cfg.Import.Module = o.ImportModule
	}
	if o.RunsDir != "" {
		cfg.Paths.RunsDir = o.RunsDir
	}
	if len(o.Targets) > 0 {
		cfg.Targets = o.Targets
	}
	return nil
}

func validate(cfg domain.Config) error {
	switch strings.TrimSpace(cfg.Defaults.Format) {
	case "pretty", "json":
	default:
		return fmt.Errorf("field defaults.format: unsupported format %q (expected pretty|json): %w", cfg.Defaults.Format, domain.ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.Rewrite.BaseURL) == "" {
		return fmt.Errorf("field rewrite.base_url: base url is required: %w", domain.ErrInvalidConfig)
	}
	return nil
}

type yamlConfig struct {
	Apiurlfix struct {
		Rewrite struct {
			BaseURL string `yaml:"base_url"`
			Helper  string `yaml:"helper"`
		} `yaml:"rewrite"`

		Import struct {
			Module        string  `yaml:"module"`
			Marker        *string `yaml:"marker"`
			RequireMarker *bool   `yaml:"require_marker"`
			Statement     string  `yaml:"statement"`
		} `yaml:"import"`

		Targets []string `yaml:"targets"`

		Defaults struct {
			Format string `yaml:"format"`
		} `yaml:"defaults"`

		Paths struct {
			RunsDir string `yaml:"runs_dir"`
			LogsDir string `yaml:"logs_dir"`
		} `yaml:"paths"`
	} `yaml:"apiurlfix"`
}
