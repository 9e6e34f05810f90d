package config

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/studycal/internal/appdir"
	"github.com/nibzard/studycal/internal/logging"
	"github.com/nibzard/studycal/internal/store"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.studycal/studycal.toml or OS-specific config dir)
// 3. Project config file (studycal.toml or .studycal.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cws := &ConfigWithSources{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}
	cfg := cws.Config

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		cws.Sources[field] = SourceDefault
	}

	// 2. User config file
	if path := findUserConfigFile(); path != "" {
		if err := cws.loadFile(path, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	// 3. Project config file (overrides user config)
	if path := findProjectConfigFile(); path != "" {
		if err := cws.loadFile(path, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	// 4. Environment
	if err := loadFromEnv(cfg, cws.Sources); err != nil {
		return nil, err
	}

	// 5. CLI flags
	if err := parseFlags(cfg, fs, args, cws.Sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cws, nil
}

// loadFile decodes a TOML file on top of the current config and marks
// every key it defines.
func (cws *ConfigWithSources) loadFile(path string, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cws.Config)
	if err != nil {
		return err
	}
	cws.Files = append(cws.Files, path)

	known := make(map[string]bool)
	for _, field := range configFields() {
		known[field] = true
	}
	for _, key := range md.Keys() {
		name := key.String()
		if known[name] {
			cws.Sources[name] = source
		}
	}
	for _, key := range md.Undecoded() {
		cws.Unknown = append(cws.Unknown, fmt.Sprintf("%s: %s", path, key.String()))
	}
	sort.Strings(cws.Unknown)
	return nil
}

// ConfigFile returns the highest-priority config file that was read.
func (cws *ConfigWithSources) ConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

// finalizeConfig computes derived paths. Relative task and log paths are
// anchored at the data directory.
func finalizeConfig(cfg *Config) error {
	return finalizeConfigIn(appdir.ProcessEnv(), cfg)
}

func finalizeConfigIn(env appdir.Env, cfg *Config) error {
	cfg.DataDir = env.Expand(cfg.DataDir)
	if cfg.DataDir == "" {
		dir, err := env.DataDir()
		if err != nil {
			return fmt.Errorf("resolving data directory: %w", err)
		}
		cfg.DataDir = dir
	}
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}

	cfg.TasksFile = env.TasksPath(cfg.DataDir, cfg.TasksFile)
	cfg.LogDir = env.LogDir(cfg.DataDir, cfg.LogDir)
	cfg.Notify.Icon = env.Expand(cfg.Notify.Icon)
	cfg.Notify.Command = env.Expand(cfg.Notify.Command)
	cfg.OnCorrupt = strings.ToLower(strings.TrimSpace(cfg.OnCorrupt))
	return nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.ScanIntervalSeconds < 1 || c.ScanIntervalSeconds > MaxScanIntervalSeconds {
		errs = append(errs, fmt.Errorf("scan_interval_seconds must be between 1 and %d, got %d", MaxScanIntervalSeconds, c.ScanIntervalSeconds))
	}
	if _, err := store.ParseCorruptPolicy(c.OnCorrupt); err != nil {
		errs = append(errs, fmt.Errorf("on_corrupt: %w", err))
	}
	if !logging.ValidLogLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level %q is not one of debug, info, warn, error, fatal", c.LogLevel))
	}
	if !logging.ValidLogFormat(c.LogFormat) {
		errs = append(errs, fmt.Errorf("log_format %q is not one of text, json, logfmt", c.LogFormat))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CorruptPolicy returns the parsed corrupt-file policy.
func (c *Config) CorruptPolicy() store.CorruptPolicy {
	p, err := store.ParseCorruptPolicy(c.OnCorrupt)
	if err != nil {
		return store.PolicyFail
	}
	return p
}
