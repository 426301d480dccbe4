// Package config resolves the engine configuration: compiled-in defaults
// describing the knowledge-base layout, optionally overridden by a
// .kbcheck.yml at the repository root or a --config path.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"kbcheck/internal/support"
	"gopkg.in/yaml.v3"
)

// OverrideFile is probed at the knowledge-base root when no --config flag
// is given.
const OverrideFile = ".kbcheck.yml"

// Config is the resolved configuration for one run.
type Config struct {
	SchemaVersion string        `yaml:"schema_version"`
	Root          string        `yaml:"root"`
	Manifest      string        `yaml:"manifest"`
	Docs          DocsConfig    `yaml:"docs"`
	Demos         DemosConfig   `yaml:"demos"`
	Mirrors       string        `yaml:"mirrors"`
	Output        OutputConfig  `yaml:"output"`
	Scan          ScanConfig    `yaml:"scan"`
	Gating        GatingConfig  `yaml:"gating"`
	History       HistoryConfig `yaml:"history"`
}

type DocsConfig struct {
	Dir        string `yaml:"dir"`
	Template   string `yaml:"template"`
	Index      string `yaml:"index"`
	TableBegin string `yaml:"table_begin"`
	TableEnd   string `yaml:"table_end"`
}

type DemosConfig struct {
	Dir         string `yaml:"dir"`
	TemplateDir string `yaml:"template_dir"`
	Overview    string `yaml:"overview"`
}

type OutputConfig struct {
	Dir   string       `yaml:"dir"`
	SARIF ReportConfig `yaml:"sarif"`
	JUnit ReportConfig `yaml:"junit"`
}

type ReportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type ScanConfig struct {
	Parallelism int `yaml:"parallelism"`
}

// GatingConfig tightens the exit-code contract beyond the default
// (errors block, warnings never do). Pointer fields distinguish "unset"
// from zero values.
type GatingConfig struct {
	FailOnWarnings *bool `yaml:"fail_on_warnings"`
	MaxWarnings    *int  `yaml:"max_warnings"`
}

type HistoryConfig struct {
	MaxSnapshots int `yaml:"max_snapshots"`
	KeepDays     int `yaml:"keep_days"`
}

type Flags struct {
	ConfigPath string
	Root       string
}

// Default returns the compiled-in defaults, matching the knowledge-base
// layout this repository's docs and demos follow.
func Default() Config {
	return Config{
		SchemaVersion: "1.0",
		Root:          ".",
		Manifest:      "projects.yaml",
		Docs: DocsConfig{
			Dir:        "docs",
			Template:   "docs/TEMPLATE.md",
			Index:      "docs/README.md",
			TableBegin: "<!-- projects:begin -->",
			TableEnd:   "<!-- projects:end -->",
		},
		Demos: DemosConfig{
			Dir:         "demos",
			TemplateDir: "_template",
			Overview:    "README.md",
		},
		Mirrors: "mirrors",
		Output: OutputConfig{
			Dir:   ".kbcheck",
			SARIF: ReportConfig{Enabled: false, Path: ".kbcheck/results.sarif"},
			JUnit: ReportConfig{Enabled: false, Path: ".kbcheck/junit.xml"},
		},
		Scan: ScanConfig{
			Parallelism: 8,
		},
		History: HistoryConfig{
			MaxSnapshots: 50,
			KeepDays:     30,
		},
	}
}

// Load reads a YAML config from disk.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(support.StripBOM(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies defaults and optional overrides, then validates.
// Returns the config, the override path actually used ("" for pure
// defaults), and non-fatal warnings.
func Resolve(flags Flags) (Config, string, []string, error) {
	defaults := Default()
	cfg := defaults
	var cfgPath string
	var warnings []string

	if flags.Root != "" {
		cfg.Root = flags.Root
		defaults.Root = flags.Root
	}

	overridePath := flags.ConfigPath
	if overridePath == "" {
		probe := filepath.Join(cfg.Root, OverrideFile)
		if _, err := os.Stat(probe); err == nil {
			overridePath = probe
		}
	}
	if overridePath != "" {
		loaded, err := Load(overridePath)
		if err != nil {
			return Config{}, "", nil, err
		}
		mergeConfigDefaults(&loaded, &defaults)
		if flags.Root != "" {
			loaded.Root = flags.Root
		}
		cfg = loaded
		cfgPath = overridePath
	}

	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = "1.0"
	}
	if cfg.Gating.MaxWarnings != nil && *cfg.Gating.MaxWarnings < 0 {
		cfg.Gating.MaxWarnings = nil
		warnings = append(warnings, "gating.max_warnings is negative, ignoring it")
	}
	if cfg.Scan.Parallelism < 1 {
		cfg.Scan.Parallelism = defaults.Scan.Parallelism
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, "", nil, err
	}
	return cfg, cfgPath, warnings, nil
}

// Validate checks the resolved configuration for consistency.
func (c *Config) Validate() error {
	if c.SchemaVersion != "1.0" {
		return fmt.Errorf("unsupported schema_version: %s (expected 1.0)", c.SchemaVersion)
	}
	if c.Manifest == "" {
		return fmt.Errorf("manifest path must not be empty")
	}
	return nil
}

// ManifestPath is the manifest location resolved against the root.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.Root, c.Manifest)
}

// IndexPath is the docs index location resolved against the root.
func (c *Config) IndexPath() string {
	return filepath.Join(c.Root, c.Docs.Index)
}

// OutputDir is the report output directory resolved against the root.
func (c *Config) OutputDir() string {
	return filepath.Join(c.Root, c.Output.Dir)
}

// OutputPath resolves a configured report path against the root.
func (c *Config) OutputPath(p string) string {
	return filepath.Join(c.Root, p)
}

func mergeConfigDefaults(cfg *Config, defaults *Config) {
	if cfg.Root == "" {
		cfg.Root = defaults.Root
	}
	if cfg.Manifest == "" {
		cfg.Manifest = defaults.Manifest
	}
	if cfg.Docs.Dir == "" {
		cfg.Docs.Dir = defaults.Docs.Dir
	}
	if cfg.Docs.Template == "" {
		cfg.Docs.Template = defaults.Docs.Template
	}
	if cfg.Docs.Index == "" {
		cfg.Docs.Index = defaults.Docs.Index
	}
	if cfg.Docs.TableBegin == "" {
		cfg.Docs.TableBegin = defaults.Docs.TableBegin
	}
	if cfg.Docs.TableEnd == "" {
		cfg.Docs.TableEnd = defaults.Docs.TableEnd
	}
	if cfg.Demos.Dir == "" {
		cfg.Demos.Dir = defaults.Demos.Dir
	}
	if cfg.Demos.TemplateDir == "" {
		cfg.Demos.TemplateDir = defaults.Demos.TemplateDir
	}
	if cfg.Demos.Overview == "" {
		cfg.Demos.Overview = defaults.Demos.Overview
	}
	if cfg.Mirrors == "" {
		cfg.Mirrors = defaults.Mirrors
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaults.Output.Dir
	}
	if cfg.Output.SARIF.Path == "" {
		cfg.Output.SARIF.Path = defaults.Output.SARIF.Path
	}
	if cfg.Output.JUnit.Path == "" {
		cfg.Output.JUnit.Path = defaults.Output.JUnit.Path
	}
	if cfg.Scan.Parallelism == 0 {
		cfg.Scan.Parallelism = defaults.Scan.Parallelism
	}
	if cfg.History.MaxSnapshots == 0 {
		cfg.History.MaxSnapshots = defaults.History.MaxSnapshots
	}
	if cfg.History.KeepDays == 0 {
		cfg.History.KeepDays = defaults.History.KeepDays
	}
}
