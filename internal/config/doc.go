// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.studycal/studycal.toml or OS-specific config directory)
// 3. Project config file (studycal.toml or .studycal.toml in the working directory)
// 4. Environment variables (STUDYCAL_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.studycal/studycal.toml (preferred)
// - Windows: %APPDATA%\studycal\studycal.toml
// - macOS: ~/Library/Application Support/studycal/studycal.toml
// - Linux/BSD: $XDG_CONFIG_HOME/studycal/studycal.toml or ~/.config/studycal/studycal.toml
//
// Project-level config locations (overrides user config):
// - ./studycal.toml (preferred)
// - ./.studycal.toml
package config
