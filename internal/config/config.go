package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

type Server struct {
	Port              string `json:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type KIS struct {
	// Environment selects the upstream deployment: "real" or "virtual".
	Environment        string `json:"environment"`
	AppKey             string `json:"app_key"`
	AppSecret          string `json:"app_secret"`
	AccountNo          string `json:"account_no"`
	AccountProductCode string `json:"account_product_code"`
	// MaxRequestsPerSecond gates outbound calls; KIS allows 20/s on the
	// real deployment and 2/s on the virtual one.
	MaxRequestsPerSecond int `json:"max_requests_per_second"`
	Burst                int `json:"burst"`
	CacheTTLSeconds      int `json:"cache_ttl_sec"`
	CacheMaxItems        int `json:"cache_max_items"`
}

type Logging struct {
	Level      string `json:"level"`
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

type Config struct {
	Server  Server  `json:"server"`
	KIS     KIS     `json:"kis"`
	Logging Logging `json:"logging"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10},
		KIS: KIS{
			Environment:          "virtual",
			AccountProductCode:   "01",
			MaxRequestsPerSecond: 2,
			Burst:                1,
			CacheTTLSeconds:      5,
			CacheMaxItems:        10000,
		},
		Logging: Logging{Level: "info"},
	}
}

// Load reads JSON config from path. If path is empty or the file does not
// exist, it returns defaults. Environment variables override select fields
// for secrecy.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("KIS_ENVIRONMENT"); v != "" {
		cfg.KIS.Environment = v
	}
	if v := os.Getenv("KIS_APP_KEY"); v != "" {
		cfg.KIS.AppKey = v
	}
	if v := os.Getenv("KIS_APP_SECRET"); v != "" {
		cfg.KIS.AppSecret = v
	}
	if v := os.Getenv("KIS_ACCOUNT_NO"); v != "" {
		cfg.KIS.AccountNo = v
	}
	if v := os.Getenv("KIS_ACCOUNT_PRODUCT_CODE"); v != "" {
		cfg.KIS.AccountProductCode = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	for _, e := range []struct {
		key string
		dst *int
		min int
	}{
		{"REQUEST_TIMEOUT_SEC", &cfg.Server.RequestTimeoutSec, 1},
		{"KIS_MAX_RPS", &cfg.KIS.MaxRequestsPerSecond, 0},
		{"KIS_BURST", &cfg.KIS.Burst, 1},
		{"KIS_CACHE_TTL_SEC", &cfg.KIS.CacheTTLSeconds, 0},
		{"KIS_CACHE_MAX_ITEMS", &cfg.KIS.CacheMaxItems, 1},
	} {
		if err := intEnv(e.key, e.dst, e.min); err != nil {
			return err
		}
	}
	return nil
}

// intEnv parses the integer environment variable key into dst. Malformed
// or out-of-range values are errors, not silently ignored.
func intEnv(key string, dst *int, min int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	x, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if x < min {
		return fmt.Errorf("%s: %d is below the minimum %d", key, x, min)
	}
	*dst = x
	return nil
}
