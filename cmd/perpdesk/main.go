package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"perpdesk/internal/application/port"
	"perpdesk/internal/application/service"
	"perpdesk/internal/domain"
	"perpdesk/internal/infrastructure/config"
	"perpdesk/internal/infrastructure/logger"
	"perpdesk/internal/infrastructure/oracle"
	"perpdesk/internal/infrastructure/storage/postgres"
	"perpdesk/internal/infrastructure/storage/redis"
	"perpdesk/internal/infrastructure/storage/sqlite"
	"perpdesk/internal/infrastructure/venue"
	"perpdesk/internal/interfaces/console"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger.Setup(*debug)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	journal := buildJournal(cfg)
	defer func() {
		if journal != nil {
			_ = journal.Close()
		}
	}()

	// price attestation cache
	cache := service.NewQuoteCache()
	feed := oracle.NewFeed(cfg.Oracle.WsURL)
	go func() {
		if err := cache.Run(ctx, feed); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("quote cache exited")
		}
	}()

	// venue event normalization
	stream := venue.NewStream(cfg.Venue.StreamPrimary, cfg.Venue.StreamSecondary)
	normalizer := service.NewNormalizer(stream, journal)
	normalizer.SetTradingCallback(console.NewSink().TradingCallback)
	go func() {
		if err := normalizer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("event normalizer exited")
		}
	}()

	// trade submission
	registry := domain.Registry{
		Trading:          cfg.Registry.Trading,
		StableToken:      cfg.Registry.StableToken,
		Vault:            cfg.Registry.Vault,
		PositionRegistry: cfg.Registry.PositionRegistry,
	}
	caller := venue.NewCaller(cfg.Venue.RPCURL, registry)
	trades := service.NewTradeService(service.TradeDeps{
		Quotes:   cache,
		Caller:   caller,
		Lookup:   caller,
		Journal:  journal,
		Registry: registry,
		Referral: cfg.Trade.Referral,
	})

	log.Info().
		Str("config", *configPath).
		Str("journal", cfg.Journal.Backend).
		Str("referral", trades.Referral()).
		Msg("perpdesk started")

	<-ctx.Done()
	log.Warn().Msg("exit")
}

func buildJournal(cfg *config.Config) port.EventJournal {
	switch cfg.Journal.Backend {
	case "sqlite":
		repo, err := sqlite.New(cfg.Journal.SQLite.Path)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Journal.SQLite.Path).Msg("sqlite journal init failed")
		}
		return repo
	case "postgres":
		repo, err := postgres.New(cfg.Journal.Postgres.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres journal init failed")
		}
		return repo
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.Journal.Redis.Addr})
		ttl := time.Duration(cfg.Journal.Redis.TTLSec) * time.Second
		return redis.New(rdb, cfg.Journal.Redis.Prefix, ttl, cfg.Journal.Redis.Stream, cfg.Journal.Redis.Channel)
	default:
		return nil
	}
}
