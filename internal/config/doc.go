// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/avocado/config.cue (or $XDG_CONFIG_HOME on Linux,
// ~/Library/Application Support/avocado/config.cue on macOS, %APPDATA%\avocado\config.cue
// on Windows), falling back to a config.cue in the working directory. Every key can be
// overridden with an AVOCADO_ environment variable.
//
// Configuration files are validated against the embedded CUE schema (config_schema.cue).
package config
