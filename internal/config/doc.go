// Package config loads the settings of a thoughtmap session.
//
// Settings come from three layers, lowest priority first:
//
//	1. built-in defaults (Default)
//	2. a TOML file, when one is given
//	3. environment variables prefixed with THOUGHTMAP_
//
// An example file:
//
//	[log]
//	level = "debug"
//
//	[undo]
//	max_depth = 500
//
//	[geometry]
//	min_size = 20
//	default_width = 100
//	default_height = 70
//
//	[theme]
//	background = "#ffffff"
//	bezier = false
//	font = "DejaVu Sans"
//	font_size = 12
//
//	[editor]
//	direction = "rtl"
//
// The same font size from the environment is THOUGHTMAP_THEME_FONT_SIZE=12.
package config
