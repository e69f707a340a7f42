// README: Config loader with TOLL_* env overrides for HTTP, Redis, toll and logging settings.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type TollConfig struct {
	Currency         string `mapstructure:"currency"`
	Timezone         string `mapstructure:"timezone"`
	BatchConcurrency int    `mapstructure:"batch_concurrency"`
	MaxBatch         int    `mapstructure:"max_batch"`
}

type Config struct {
	HTTP struct {
		Addr            string        `mapstructure:"addr"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"http"`
	Redis struct {
		Addr     string        `mapstructure:"addr"`
		QuoteTTL time.Duration `mapstructure:"quote_ttl"`
	} `mapstructure:"redis"`
	Toll TollConfig `mapstructure:"toll"`
	Log  struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TOLL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "5s")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.quote_ttl", "10m")
	v.SetDefault("toll.currency", "SEK")
	v.SetDefault("toll.timezone", "Europe/Stockholm")
	v.SetDefault("toll.batch_concurrency", 8)
	v.SetDefault("toll.max_batch", 500)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	if path := os.Getenv("TOLL_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Toll.BatchConcurrency <= 0 {
		return Config{}, fmt.Errorf("toll.batch_concurrency must be positive, got %d", cfg.Toll.BatchConcurrency)
	}
	return cfg, nil
}

// Location resolves the toll time zone used for RFC 3339 inputs.
func (c TollConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}
