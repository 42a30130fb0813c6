// Package config defines the top-level CLI surface.
package config

import (
	"github.com/hsokol/vjmap/internal/cmd"
)

// LogConfig holds the global logging flags.
type LogConfig struct {
	Level string `help:"Log level (trace, debug, info, warn, error)" enum:"trace,debug,info,warn,error" default:"info" env:"VJMAP_LOG_LEVEL"`
	File  string `help:"Write logs to this file instead of the console" type:"path" env:"VJMAP_LOG_FILE"`
}

// CLI is the root command tree parsed by Kong.
type CLI struct {
	Log    LogConfig `embed:"" prefix:"log."`
	Config string    `help:"Path to a config file (json/yaml/toml)" type:"path"`

	Run    cmd.Run           `cmd:"" help:"Load a profile and forward physical input to virtual devices"`
	Check  cmd.Check         `cmd:"" help:"Validate a profile file without acquiring devices"`
	Detect cmd.Detect        `cmd:"" help:"Wait for a control movement and print its identity"`
	Cfg    cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
}
