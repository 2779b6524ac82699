// Package config loads pagecraft settings.
//
// Settings come from three layers, each overriding the one before:
//
//  1. built-in defaults (Default)
//  2. a TOML file, which may @include other files
//  3. PAGECRAFT_* environment variables
//
// Example file:
//
//	[logging]
//	level = "debug"
//
//	[autosave]
//	interval = "1m"
//
//	[keymap]
//	"<C-S-d>" = "component.duplicate"
//	"<C-d>"   = "none"
//
// A Reloader watches the file and delivers a fresh Config after each
// change, so keymap overrides apply without a restart.
package config
