package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads the first config file found in the standard locations, then
// applies defaults and environment overrides. A missing file is not an error.
//
// Search order: ~/.chorusrc, $XDG_CONFIG_HOME/chorus/config.toml
// (XDG_CONFIG_HOME defaults to ~/.config).
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFrom reads configuration from a specific file path, which must exist.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return load(path)
}

func load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Path returns the config file Load would read, or "" if none exists.
func Path() string {
	return findConfigFile()
}

func searchPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		xdg = filepath.Join(home, ".config")
	}
	return []string{
		filepath.Join(home, ".chorusrc"),
		filepath.Join(xdg, "chorus", "config.toml"),
	}
}

func findConfigFile() string {
	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envBinding maps one environment variable onto a config field.
type envBinding struct {
	name string
	set  func(c *Config, v string)
}

func stringVar(field func(c *Config) *string) func(*Config, string) {
	return func(c *Config, v string) { *field(c) = v }
}

// intVar ignores values that are not integers.
func intVar(field func(c *Config) *int) func(*Config, string) {
	return func(c *Config, v string) {
		if i, err := strconv.Atoi(v); err == nil {
			*field(c) = i
		}
	}
}

var envBindings = []envBinding{
	{"CHORUS_CATALOG_BASE_URL", stringVar(func(c *Config) *string { return &c.Catalog.BaseURL })},
	{"CHORUS_CATALOG_COUNTRY", stringVar(func(c *Config) *string { return &c.Catalog.Country })},
	{"CHORUS_SERVER_ADDR", stringVar(func(c *Config) *string { return &c.Server.Addr })},
	{"CHORUS_SERVER_CACHE_TTL", intVar(func(c *Config) *int { return &c.Server.CacheTTL })},
	{"CHORUS_API_URL", stringVar(func(c *Config) *string { return &c.Studio.APIURL })},
	{"CHORUS_STUDIO_VOLUME", intVar(func(c *Config) *int { return &c.Studio.Volume })},
	{"CHORUS_STUDIO_EXPORT_DIR", stringVar(func(c *Config) *string { return &c.Studio.ExportDir })},
	{"CHORUS_STUDIO_EXPORT_MODE", stringVar(func(c *Config) *string { return &c.Studio.ExportMode })},
	{"CHORUS_SHARE_URL", stringVar(func(c *Config) *string { return &c.Studio.ShareURL })},
	{"CHORUS_LOG_LEVEL", stringVar(func(c *Config) *string { return &c.Log.Level })},
	{"CHORUS_LOG_FILE", stringVar(func(c *Config) *string { return &c.Log.File })},
}

// applyEnvOverrides applies every set CHORUS_* variable to cfg.
func applyEnvOverrides(cfg *Config) {
	for _, b := range envBindings {
		if v := os.Getenv(b.name); v != "" {
			b.set(cfg, v)
		}
	}
}
