// Package config provides configuration management for the prelude CLI.
package config

import (
	"github.com/epistemic-frontier/metamath-prelude/internal/mmdb"
	"github.com/epistemic-frontier/metamath-prelude/pkg/builtins"
)

// Default values.
const (
	DefaultOrigin         = mmdb.DefaultOrigin
	DefaultBuiltinsOrigin = builtins.DefaultOrigin
	DefaultScriptsDir     = "scripts"
	DefaultOutDir         = "build"
	DefaultStateFile      = ".prelude/state.db"
	DefaultHistoryFile    = ".prelude/history"
	DefaultOutput         = "auto"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "text"
)

// Config holds all CLI configuration options.
type Config struct {
	Origin         string `koanf:"origin"`
	BuiltinsOrigin string `koanf:"builtins_origin"`
	ScriptsDir     string `koanf:"scripts_dir"`
	OutDir         string `koanf:"out_dir"`
	StatePath      string `koanf:"state_path"`
	HistoryFile    string `koanf:"history_file"`
	Concurrency    int    `koanf:"concurrency"`
	Verbose        bool   `koanf:"verbose"`
	OutputFormat   string `koanf:"output"`
	LogLevel       string `koanf:"log_level"`
	LogFormat      string `koanf:"log_format"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default returns a Config populated with default values and no project root.
func Default() *Config {
	return &Config{
		Origin:         DefaultOrigin,
		BuiltinsOrigin: DefaultBuiltinsOrigin,
		ScriptsDir:     DefaultScriptsDir,
		OutDir:         DefaultOutDir,
		StatePath:      DefaultStateFile,
		HistoryFile:    DefaultHistoryFile,
		OutputFormat:   DefaultOutput,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

func defaultsMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"origin":          d.Origin,
		"builtins_origin": d.BuiltinsOrigin,
		"scripts_dir":     d.ScriptsDir,
		"out_dir":         d.OutDir,
		"state_path":      d.StatePath,
		"history_file":    d.HistoryFile,
		"concurrency":     0,
		"verbose":         false,
		"output":          d.OutputFormat,
		"log_level":       d.LogLevel,
		"log_format":      d.LogFormat,
	}
}
