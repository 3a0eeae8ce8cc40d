// Package config resolves the environment/config surface spec.md §6
// names: cache root directory, upstream base URL, request delay,
// database DSN, and override-sync endpoint + API key. A failure here
// aborts startup, per spec.md §7's error taxonomy — every cmd/ entry
// point calls Load once before doing anything else.
//
// Grounded on the teacher's internal/client.Client reading
// SCRYFALL_PROXY_URL straight off the environment (client.go), scaled
// up to a full config struct the way ws-scraper layers file+env+flag
// config with spf13/viper (present in the pack via
// AKJUS-bsc-erigon's go.mod).
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is every environment-resolved setting the system needs at
// startup.
type Config struct {
	CacheRoot       string
	UpstreamBaseURL string
	RequestDelay    time.Duration
	DatabaseDSN     string
	SyncEndpoint    string
	SyncAPIKey      string
}

const envPrefix = "WXDEX"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("cache_root", "./cache")
	v.SetDefault("upstream_base_url", "")
	v.SetDefault("request_delay_seconds", 1)
	v.SetDefault("database_dsn", "./wxdex.db")
	v.SetDefault("sync_endpoint", "")
	v.SetDefault("sync_api_key", "")

	v.SetConfigName("wxdex")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/wxdex")
	return v
}

// Load resolves Config from (in ascending priority) defaults, an
// optional wxdex.yaml in the working directory or /etc/wxdex, and
// WXDEX_-prefixed environment variables. UpstreamBaseURL is the only
// field with no safe default; its absence aborts startup.
func Load() (Config, error) {
	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("config: read config file: %w", err)
		}
	}

	cfg := Config{
		CacheRoot:       v.GetString("cache_root"),
		UpstreamBaseURL: v.GetString("upstream_base_url"),
		RequestDelay:    time.Duration(v.GetInt("request_delay_seconds")) * time.Second,
		DatabaseDSN:     v.GetString("database_dsn"),
		SyncEndpoint:    v.GetString("sync_endpoint"),
		SyncAPIKey:      v.GetString("sync_api_key"),
	}

	if cfg.UpstreamBaseURL == "" {
		return Config{}, fmt.Errorf("config: upstream_base_url is required (set WXDEX_UPSTREAM_BASE_URL or wxdex.yaml)")
	}
	return cfg, nil
}
