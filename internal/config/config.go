package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service
type Config struct {
	Port             string
	LogLevel         string
	AuctionTokenCost int
	BidTokenCost     int
	DefaultDuration  time.Duration
	SweepInterval    time.Duration
	EndingSoonWindow time.Duration
	CatalogPath      string
	KafkaBrokers     []string
	KafkaTopic       string
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Port:             "8080",
		LogLevel:         "info",
		AuctionTokenCost: 20,
		BidTokenCost:     10,
		DefaultDuration:  4 * time.Hour,
		SweepInterval:    time.Second,
		EndingSoonWindow: 15 * time.Minute,
		KafkaTopic:       "shipbid.notifications",
	}
}

// Load reads envFile (a missing file is not an error) and then the process environment
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var err error

	if v, ok := lookup("PORT"); ok && v != "" {
		cfg.Port = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	if cfg.AuctionTokenCost, err = intVar(lookup, "AUCTION_TOKEN_COST", cfg.AuctionTokenCost); err != nil {
		return Config{}, err
	}
	if cfg.BidTokenCost, err = intVar(lookup, "BID_TOKEN_COST", cfg.BidTokenCost); err != nil {
		return Config{}, err
	}
	if cfg.DefaultDuration, err = durationVar(lookup, "DEFAULT_AUCTION_DURATION", cfg.DefaultDuration); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = durationVar(lookup, "SWEEP_INTERVAL", cfg.SweepInterval); err != nil {
		return Config{}, err
	}
	if cfg.EndingSoonWindow, err = durationVar(lookup, "ENDING_SOON_WINDOW", cfg.EndingSoonWindow); err != nil {
		return Config{}, err
	}
	if v, ok := lookup("TOKEN_CATALOG_PATH"); ok {
		cfg.CatalogPath = v
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	if v, ok := lookup("KAFKA_TOPIC"); ok && v != "" {
		cfg.KafkaTopic = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with
func (c Config) Validate() error {
	if c.AuctionTokenCost < 0 {
		return fmt.Errorf("config: AUCTION_TOKEN_COST must not be negative, got %d", c.AuctionTokenCost)
	}
	if c.BidTokenCost < 0 {
		return fmt.Errorf("config: BID_TOKEN_COST must not be negative, got %d", c.BidTokenCost)
	}
	if c.DefaultDuration <= 0 {
		return fmt.Errorf("config: DEFAULT_AUCTION_DURATION must be positive, got %s", c.DefaultDuration)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("config: SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}
	if c.EndingSoonWindow < 0 {
		return fmt.Errorf("config: ENDING_SOON_WINDOW must not be negative, got %s", c.EndingSoonWindow)
	}
	return nil
}

// Addr returns the HTTP listen address
func (c Config) Addr() string {
	return ":" + c.Port
}

func intVar(lookup func(string) (string, bool), key string, def int) (int, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func durationVar(lookup func(string) (string, bool), key string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
