package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

type Config struct {
	Addr          string
	AllowOrigins  string
	DBPath        string
	MatchInterval time.Duration
}

// Load parses args, falling back to CHESSINGTON_* environment variables and
// then to defaults. An empty DBPath keeps games in memory only.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("chessington", flag.ContinueOnError)

	var cfg Config
	fs.StringVar(&cfg.Addr, "addr", env("CHESSINGTON_ADDR", ":3000"), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", env("CHESSINGTON_ORIGINS", "http://localhost:5173"), "allowed CORS origins")
	fs.StringVar(&cfg.DBPath, "db", env("CHESSINGTON_DB", "chessington.db"), "sqlite database path")
	interval := fs.String("match-interval", env("CHESSINGTON_MATCH_INTERVAL", "1s"), "matchmaking tick")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	d, err := time.ParseDuration(*interval)
	if err != nil {
		return Config{}, fmt.Errorf("match-interval: %w", err)
	}
	if d <= 0 {
		return Config{}, fmt.Errorf("match-interval must be positive, got %s", d)
	}
	cfg.MatchInterval = d
	return cfg, nil
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
