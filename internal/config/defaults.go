// Package config provides configuration loading and defaults for healerguide.
package config

import "time"

// DefaultConfigDir is the default location for healerguide configuration.
const DefaultConfigDir = "~/.config/healerguide"

// DefaultDBName is the filename for the SQLite content database.
const DefaultDBName = "healerguide.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultContentPaths are the directories searched for YAML content packs.
var DefaultContentPaths = []string{"~/.config/healerguide/content"}

// DefaultLogLevel is the zap level used when none is configured.
const DefaultLogLevel = "info"

// DefaultWatchInterval is how often the content watcher polls.
const DefaultWatchInterval = 5 * time.Second

// DefaultKnownCritical lists abilities that always demand an immediate
// healer response. Content updates belong in the config file, not here.
var DefaultKnownCritical = []string{
	"Alerting Shrill",
	"Burning Shadows",
	"Abyssal Blast",
	"Obsidian Beam",
	"Cosmic Singularity",
	"Erupting Webs",
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
