// Package config loads and validates the tagspc YAML configuration.
//
// Load(path) reads the file, applies defaults and validates. Default()
// returns the built-in configuration (local historian, stock site layout)
// used when no file is given, so every subcommand works out of the box
// against a local historian.
//
// Watch(ctx, path, onChange) hot-reloads the file via fsnotify; a failed
// reload keeps the previous config active.
//
// Secrets (API keys, tokens, passwords) are referenced by environment
// variable name in the file and resolved at use time via Auth.Key(),
// Auth.Token() and Auth.Password().
package config
