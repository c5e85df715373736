package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the crucible configuration file. Every field can be
// overridden by the matching CLI flag.
type Config struct {
	FSType             string  `json:"fsType,omitempty" yaml:"fsType,omitempty"`
	ConfigFile         string  `json:"configFile,omitempty" yaml:"configFile,omitempty"`
	SrcDir             string  `json:"srcDir,omitempty" yaml:"srcDir,omitempty"`
	ReposDir           string  `json:"reposDir,omitempty" yaml:"reposDir,omitempty"`
	ReposURL           string  `json:"reposUrl,omitempty" yaml:"reposUrl,omitempty"`
	ReposTemplate      string  `json:"reposTemplate,omitempty" yaml:"reposTemplate,omitempty"`
	ServerMinorVersion int     `json:"serverMinorVersion,omitempty" yaml:"serverMinorVersion,omitempty"`
	Parallel           *bool   `json:"parallel,omitempty" yaml:"parallel,omitempty"`
	Concurrency        int     `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	ModeFilter         string  `json:"modeFilter,omitempty" yaml:"modeFilter,omitempty"`
	Pace               float64 `json:"pace,omitempty" yaml:"pace,omitempty"`
	Output             string  `json:"output,omitempty" yaml:"output,omitempty"`
	HistoryDB          string  `json:"historyDb,omitempty" yaml:"historyDb,omitempty"`
	AllowFatal         *bool   `json:"allowFatal,omitempty" yaml:"allowFatal,omitempty"`
	Verbose            *bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	Quiet              *bool   `json:"quiet,omitempty" yaml:"quiet,omitempty"`
	NoColor            *bool   `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// BoolPtr returns a pointer to a bool value.
func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetParallel returns the parallel setting, defaulting to false.
func (c *Config) GetParallel() bool {
	return getBool(c.Parallel, false)
}

// GetAllowFatal returns the allow-fatal setting, defaulting to false.
func (c *Config) GetAllowFatal() bool {
	return getBool(c.AllowFatal, false)
}

// GetVerbose returns the verbose setting, defaulting to false.
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetQuiet returns the quiet setting, defaulting to false.
func (c *Config) GetQuiet() bool {
	return getBool(c.Quiet, false)
}

// GetNoColor returns the no color setting, defaulting to false.
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names, in lookup
// order.
var ConfigFilenames = []string{
	".crucible.config.json",
	"crucible.config.json",
	".crucible.yaml",
	".crucible.yml",
	"crucible.yaml",
}

// LoadConfig loads configuration from the specified path or searches
// the current directory for a config file.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	return config, nil
}

// Merge merges another config into this one, with other taking
// precedence.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.FSType != "" {
		result.FSType = other.FSType
	}
	if other.ConfigFile != "" {
		result.ConfigFile = other.ConfigFile
	}
	if other.SrcDir != "" {
		result.SrcDir = other.SrcDir
	}
	if other.ReposDir != "" {
		result.ReposDir = other.ReposDir
	}
	if other.ReposURL != "" {
		result.ReposURL = other.ReposURL
	}
	if other.ReposTemplate != "" {
		result.ReposTemplate = other.ReposTemplate
	}
	if other.ServerMinorVersion > 0 {
		result.ServerMinorVersion = other.ServerMinorVersion
	}
	if other.Concurrency > 0 {
		result.Concurrency = other.Concurrency
	}
	if other.ModeFilter != "" {
		result.ModeFilter = other.ModeFilter
	}
	if other.Pace > 0 {
		result.Pace = other.Pace
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.HistoryDB != "" {
		result.HistoryDB = other.HistoryDB
	}
	if other.Parallel != nil {
		result.Parallel = other.Parallel
	}
	if other.AllowFatal != nil {
		result.AllowFatal = other.AllowFatal
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.Quiet != nil {
		result.Quiet = other.Quiet
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}
