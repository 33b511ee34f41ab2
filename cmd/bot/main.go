package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/JermWang/disclaw/internal/alert"
	"github.com/JermWang/disclaw/internal/autopost"
	"github.com/JermWang/disclaw/internal/candidates"
	"github.com/JermWang/disclaw/internal/config"
	"github.com/JermWang/disclaw/internal/notifier"
	"github.com/JermWang/disclaw/internal/provider"
	"github.com/JermWang/disclaw/internal/storage"
	"github.com/JermWang/disclaw/internal/tracker"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}

	log := newLogger(cfg.LogLevel)
	log.Info().Msg("disclaw starting")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	prov := provider.NewDexScreener()
	if cfg.Provider.BaseURL != "" {
		prov.BaseURL = cfg.Provider.BaseURL
	}
	log.Info().Str("provider", prov.Name()).Msg("market data source ready")

	var store storage.Storage
	if cfg.Database.SQLitePath != "" {
		db, err := storage.NewSQLite(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("open sqlite failed, falling back to in-memory store")
			store = storage.NewMemory()
		} else {
			store = db
		}
	} else {
		store = storage.NewMemory()
	}
	defer store.Close()

	discord := notifier.NewDiscord(cfg.Discord.BotToken, log)

	filter := candidates.Filter{
		MinLiquidityUSD:        cfg.Filter.MinLiquidityUSD,
		MinVolumeM5:            cfg.Filter.MinVolumeM5,
		MaxAgeHours:            cfg.Filter.MaxAgeHours,
		ExcludeRuggedDeployers: *cfg.Filter.ExcludeRuggedDeployers,
	}
	source := candidates.New(prov, filter, log)

	// Alerts are one-shot events, so their delivery rides out transient
	// Discord errors. Scan-cycle calls stay single-attempt.
	retrying := notifier.WithRetry(discord, 3)
	trk := tracker.New(store, prov, retrying, log)
	alerts := alert.New(store, prov, retrying, cfg.Alert.PinnedMint, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scanEvery, _ := cfg.ScanInterval() // validated above
	svc := autopost.New(ctx, source, store, discord, trk, alerts, autopost.Options{
		MinScore:  cfg.Autopost.MinScore,
		ScanEvery: scanEvery,
	}, log)
	if err := svc.Start(); err != nil {
		log.Fatal().Err(err).Msg("start autopost service")
	}
	defer svc.Stop()

	log.Info().Msg("disclaw is running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	log.Info().Msg("disclaw stopped")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}
