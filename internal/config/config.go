package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API      APIConfig
	Data     DataConfig
	Games    GamesConfig
	Fetch    FetchConfig
	Throttle ThrottleConfig

	Development bool
}

type APIConfig struct {
	URL string
}

type DataConfig struct {
	Dir string
}

type GamesConfig struct {
	Dir string
}

type FetchConfig struct {
	PageSize int
	Timeout  time.Duration
}

type ThrottleConfig struct {
	// Interval is the minimum gap between API calls.
	Interval time.Duration
	// RateLimitDelay is how long to sleep after an HTTP 429. It doubles for
	// each consecutive rate limit.
	RateLimitDelay time.Duration
}

// Load reads configuration from the environment and an optional config file.
// If path is empty, ./config.{yaml,...} is used when present; defaults apply
// otherwise. A path given explicitly must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.url", "https://online-go.com/api/v1")
	v.SetDefault("data.dir", "./data")
	v.SetDefault("games.dir", "./games")
	v.SetDefault("fetch.pagesize", 50)
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("throttle.interval", 500*time.Millisecond)
	v.SetDefault("throttle.ratelimitdelay", 10*time.Second)
	v.SetDefault("development", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
