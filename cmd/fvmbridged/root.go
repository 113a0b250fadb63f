package main

import (
	"fmt"
	"strings"

	"github.com/fluentlabs-xyz/fvmbridge/internal/config"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

// EnvReplacer replaces `-` to `_`.
// This is used to map flag like `--my-param` to environment variables like `MY_PARAM`.
var envReplacer = strings.NewReplacer("-", "_")

func init() {
	viper.SetEnvPrefix("FVMBRIDGE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(envReplacer)
}

var configFileFlag = &cli.StringFlag{
	Name:    "config",
	Usage:   "Path of an optional config file (yaml, toml, json or env) keyed by flag name",
	EnvVars: []string{"FVMBRIDGE_CONFIG"},
}

// loadConfigFile fills the flags that are set neither on the command line nor in the
// environment with the values found in the config file.
func loadConfigFile(c *cli.Context) error {
	path := c.String(configFileFlag.Name)
	if path == "" {
		return nil
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %s", path, err)
	}

	for _, flag := range config.Flags {
		name := flag.Names()[0]
		if c.IsSet(name) || !viper.IsSet(name) {
			continue
		}
		if err := c.Set(name, viper.GetString(name)); err != nil {
			return fmt.Errorf("invalid %s in config file: %s", name, err)
		}
	}
	return nil
}
