// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full client configuration. Everything has a working default;
// a config file and GROUPIE_* environment variables override it.
type Config struct {
	API   APIConfig   `mapstructure:"api"`
	Poll  PollConfig  `mapstructure:"poll"`
	Store StoreConfig `mapstructure:"store"`
	Log   LogConfig   `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// PollConfig carries the three independent timer cadences. They are separate
// timers, never shared.
type PollConfig struct {
	Lobby    time.Duration `mapstructure:"lobby"`
	Validity time.Duration `mapstructure:"validity"`
}

type StoreConfig struct {
	// Backend is "file", "redis" or "memory".
	Backend   string `mapstructure:"backend"`
	FilePath  string `mapstructure:"file_path"`
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads config.yaml from ./config (optional) and GROUPIE_* environment
// variables over the defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("poll.lobby", 3*time.Second)
	v.SetDefault("poll.validity", 5*time.Second)
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.file_path", ".groupie/state.json")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("log.level", "info")

	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("GROUPIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: unable to decode config into struct: %w", err)
	}
	return &c, nil
}
