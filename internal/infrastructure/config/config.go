package config

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Oracle struct {
		WsURL string `toml:"ws_url"`
	} `toml:"oracle"`

	Venue struct {
		StreamPrimary   string `toml:"stream_primary"`
		StreamSecondary string `toml:"stream_secondary"`
		RPCURL          string `toml:"rpc_url"`
	} `toml:"venue"`

	Registry struct {
		Trading          string `toml:"trading"`
		StableToken      string `toml:"stable_token"`
		Vault            string `toml:"vault"`
		PositionRegistry string `toml:"position_registry"`
	} `toml:"registry"`

	Trade struct {
		Referral string `toml:"referral"`
	} `toml:"trade"`

	Journal struct {
		Backend string `toml:"backend"` // none | sqlite | postgres | redis

		SQLite struct {
			Path string `toml:"path"`
		} `toml:"sqlite"`

		Postgres struct {
			DSN string `toml:"dsn"`
		} `toml:"postgres"`

		Redis struct {
			Addr    string `toml:"addr"`
			Prefix  string `toml:"prefix"`
			TTLSec  int    `toml:"ttl_sec"`
			Stream  string `toml:"stream"`
			Channel string `toml:"channel"`
		} `toml:"redis"`
	} `toml:"journal"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Journal.Backend) == "" {
		cfg.Journal.Backend = "none"
	}
	if cfg.Journal.Backend == "sqlite" && strings.TrimSpace(cfg.Journal.SQLite.Path) == "" {
		cfg.Journal.SQLite.Path = "data/perpdesk.db"
	}
	if cfg.Journal.Backend == "redis" && strings.TrimSpace(cfg.Journal.Redis.Prefix) == "" {
		cfg.Journal.Redis.Prefix = "perpdesk"
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Oracle.WsURL) == "" {
		return errors.New("oracle.ws_url is empty")
	}
	if strings.TrimSpace(cfg.Venue.StreamPrimary) == "" || strings.TrimSpace(cfg.Venue.StreamSecondary) == "" {
		return errors.New("venue stream endpoints must both be set")
	}
	if strings.TrimSpace(cfg.Venue.RPCURL) == "" {
		return errors.New("venue.rpc_url is empty")
	}

	for _, addr := range []struct{ name, v string }{
		{"registry.trading", cfg.Registry.Trading},
		{"registry.stable_token", cfg.Registry.StableToken},
		{"registry.vault", cfg.Registry.Vault},
		{"registry.position_registry", cfg.Registry.PositionRegistry},
	} {
		if strings.TrimSpace(addr.v) == "" {
			return errors.New(addr.name + " is empty")
		}
	}

	switch cfg.Journal.Backend {
	case "none", "sqlite":
	case "postgres":
		if strings.TrimSpace(cfg.Journal.Postgres.DSN) == "" {
			return errors.New("journal.postgres.dsn is empty")
		}
	case "redis":
		if strings.TrimSpace(cfg.Journal.Redis.Addr) == "" {
			return errors.New("journal.redis.addr is empty")
		}
	default:
		return errors.New("journal.backend must be none, sqlite, postgres or redis")
	}
	return nil
}
