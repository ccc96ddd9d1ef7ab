package config

// Package config provides a reusable loader for Atlas configuration files
// and environment variables. It is versioned so that applications can depend
// on a stable API contract.
//
// Version: v0.1.0

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/atlas-lang/atlas/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config represents the unified configuration for the Atlas toolchain. It
// mirrors the structure of the YAML files under cmd/config.
type Config struct {
	Engine struct {
		Default        string `mapstructure:"default" json:"default"`
		MaxDiagnostics int    `mapstructure:"max_diagnostics" json:"max_diagnostics"`
	} `mapstructure:"engine" json:"engine"`

	Module struct {
		SearchPaths []string `mapstructure:"search_paths" json:"search_paths"`
	} `mapstructure:"module" json:"module"`

	Diagnostics struct {
		Format string `mapstructure:"format" json:"format"`
	} `mapstructure:"diagnostics" json:"diagnostics"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// Defaults returns the configuration Atlas runs with when no config file or
// environment override is present.
func Defaults() Config {
	var c Config
	c.Engine.Default = "interpreter"
	c.Engine.MaxDiagnostics = 25
	c.Module.SearchPaths = []string{"."}
	c.Diagnostics.Format = "human"
	c.Logging.Level = "info"
	return c
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig = Defaults()

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded. A missing
// config file is not an error: Atlas falls back to Defaults() so that `atlas
// run foo.atl` works with no project configuration at all.
func Load(env string) (*Config, error) {
	_ = godotenv.Load() // optional .env in the working directory

	cfg := Defaults()

	viper.SetConfigName("atlas")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, isNotFound := err.(viper.ConfigFileNotFoundError); !isNotFound {
			return nil, utils.Wrap(err, "load config")
		}
	} else if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("atlas")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	AppConfig = cfg
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the ATLAS_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("ATLAS_ENV", ""))
}
