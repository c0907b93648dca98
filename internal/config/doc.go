// Package config loads, normalizes, and validates trackstrip configuration.
//
// It supplies defaults matching the classic command line behavior (app.log,
// media-inventory.db and process-media-files.sh in the working directory),
// reads an optional TOML file, expands tilde paths, and honours the
// TRACKSTRIP_LANGUAGES environment fallback for the allow-list. Command line
// flags are applied on top of the loaded Config by the CLI.
package config
