// README: Bench runner for the toll API; executes HTTP checks, an optional cache check and a load loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	bench := NewRunner(cfg)
	results := bench.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			pass++
		case StatusFail:
			fail++
		case StatusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL     string
	RedisAddr   string
	Timeout     time.Duration
	Concurrency int
	Duration    time.Duration
}

// loadConfig reads TOLL_BENCH_* defaults from the environment; flags win.
func loadConfig() Config {
	env := viper.New()
	env.SetEnvPrefix("TOLL_BENCH")
	env.AutomaticEnv()
	env.SetDefault("base_url", "http://localhost:8080")
	env.SetDefault("redis", "")
	env.SetDefault("timeout", 60*time.Second)
	env.SetDefault("concurrency", 20)
	env.SetDefault("duration", 10*time.Second)

	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", env.GetString("base_url"), "API base URL")
	flag.StringVar(&cfg.RedisAddr, "redis", env.GetString("redis"), "Redis address of the quote cache (empty skips the cache check)")
	flag.DurationVar(&cfg.Timeout, "timeout", env.GetDuration("timeout"), "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", env.GetInt("concurrency"), "Concurrency for perf tests")
	flag.DurationVar(&cfg.Duration, "duration", env.GetDuration("duration"), "Duration for perf tests")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return cfg
}
