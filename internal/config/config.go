package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Keys        KeyConfig
	ExchangeAPI ExchangeAPIConfig
	Timeseries  TimeseriesConfig
	Cache       CacheConfig
	Files       FileConfig
	History     HistoryConfig
	Metrics     MetricsConfig
	LogLevel    string `envconfig:"LOG_LEVEL" default:"warn"`
}

type KeyConfig struct {
	BinaryFile string `envconfig:"KEY_BINARY_FILE" default:"api_key.bin"`
	TextFile   string `envconfig:"KEY_TEXT_FILE" default:"api_key.txt"`
}

type ExchangeAPIConfig struct {
	BaseURL string `envconfig:"EXCHANGE_API_BASE_URL" default:"https://v6.exchangerate-api.com/v6"`
	// Timeout bounds every provider request; zero waits forever.
	Timeout time.Duration `envconfig:"EXCHANGE_API_TIMEOUT" default:"10s"`
}

type TimeseriesConfig struct {
	BaseURL string `envconfig:"TIMESERIES_API_BASE_URL" default:"https://api.exchangerate.host"`
	// APIKey falls back to the loaded key file when empty.
	APIKey string `envconfig:"TIMESERIES_API_KEY"`
}

type CacheConfig struct {
	TTL time.Duration `envconfig:"CACHE_TTL" default:"1h"`
}

type FileConfig struct {
	ConversionLog string `envconfig:"CONVERSION_LOG_FILE" default:"conversion_log.txt"`
	Export        string `envconfig:"EXPORT_FILE" default:"conversion_results.csv"`
}

type HistoryConfig struct {
	Days int `envconfig:"HISTORY_DAYS" default:"7"`
}

type MetricsConfig struct {
	Textfile string `envconfig:"METRICS_TEXTFILE"`
}

// LoadConfig reads an optional .env file and then the process environment.
// It reports whether a .env file was used.
func LoadConfig() (*Config, bool, error) {
	dotenv := true
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
		dotenv = false
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, dotenv, err
	}

	if cfg.Cache.TTL <= 0 {
		return nil, dotenv, errors.New("CACHE_TTL must be positive")
	}

	return &cfg, dotenv, nil
}
