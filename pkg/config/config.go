// Package config provides a reusable loader for the indexer's runtime
// configuration files and environment variables. It is versioned so that
// applications can depend on a stable API contract.
//
// Version: v0.1.0
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/chainindex/corert/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the unified runtime configuration for one indexer process. It
// mirrors the structure of the YAML files under cmd/config.
type Config struct {
	Pipeline struct {
		ReorgThreshold   int    `mapstructure:"reorg_threshold" json:"reorg_threshold"`
		CommitEvery      uint64 `mapstructure:"commit_every" json:"commit_every"`
		FlushEvery       uint64 `mapstructure:"flush_every" json:"flush_every"`
		ProgressEvery    uint64 `mapstructure:"progress_every" json:"progress_every"`
		ChannelCapacity  int    `mapstructure:"channel_capacity" json:"channel_capacity"`
	} `mapstructure:"pipeline" json:"pipeline"`

	RPC struct {
		CacheSize int `mapstructure:"cache_size" json:"cache_size"`
		RateLimit int `mapstructure:"rate_limit" json:"rate_limit"`
		Burst     int `mapstructure:"burst" json:"burst"`
	} `mapstructure:"rpc" json:"rpc"`

	Store struct {
		DBPath     string `mapstructure:"db_path" json:"db_path"`
		StripNulls bool   `mapstructure:"strip_nulls" json:"strip_nulls"`
	} `mapstructure:"store" json:"store"`

	Manifest struct {
		SubgraphDir string `mapstructure:"subgraph_dir" json:"subgraph_dir"`
	} `mapstructure:"manifest" json:"manifest"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
		JSON  bool   `mapstructure:"json" json:"json"`
	} `mapstructure:"logging" json:"logging"`

	HTTP struct {
		ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`
	} `mapstructure:"http" json:"http"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and
// returned. The function also loads a `.env` file from the working
// directory, if present, before reading environment variable overrides.
//
// If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.SetEnvPrefix("INDEXER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // picks up INDEXER_* overrides

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the INDEXER_ENV environment
// variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("INDEXER_ENV", ""))
}
