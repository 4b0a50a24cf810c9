// Package main runs the deckbuilding API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/knack117/mightstone-gpt/internal/api"
	"github.com/knack117/mightstone-gpt/internal/config"
	"github.com/knack117/mightstone-gpt/internal/deckbuilder"
	"github.com/knack117/mightstone-gpt/internal/deckstats"
	"github.com/knack117/mightstone-gpt/internal/edhrec"
	"github.com/knack117/mightstone-gpt/internal/logging"
	"github.com/knack117/mightstone-gpt/internal/scryfall"
	"github.com/knack117/mightstone-gpt/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to TOML config file")
	port        = flag.Int("port", 0, "Listen port (overrides config)")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	logFormat   = flag.String("log-format", "", "Log format: text or json (overrides config)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetVersion())
		return
	}

	// A .env file is optional; a missing one is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger := slog.Default()

	aggregator := edhrec.NewClient(edhrec.Options{
		BaseURL:         cfg.Upstream.EDHREC.BaseURL,
		UserAgent:       cfg.Upstream.UserAgent,
		RequestInterval: cfg.Upstream.EDHREC.Interval(),
		Timeout:         cfg.Upstream.EDHREC.Timeout(),
	})
	deckStats := deckstats.NewClient(deckstats.Options{
		BaseURL:         cfg.Upstream.DeckStats.BaseURL,
		UserAgent:       cfg.Upstream.UserAgent,
		RequestInterval: cfg.Upstream.DeckStats.Interval(),
		Timeout:         cfg.Upstream.DeckStats.Timeout(),
	})
	cards := scryfall.NewClient(scryfall.Options{
		BaseURL:         cfg.Upstream.Scryfall.BaseURL,
		UserAgent:       cfg.Upstream.UserAgent,
		RequestInterval: cfg.Upstream.Scryfall.Interval(),
		Timeout:         cfg.Upstream.Scryfall.Timeout(),
	})

	service := deckbuilder.NewService(deckbuilder.ServiceConfig{
		Aggregator: aggregator,
		DeckStats:  deckStats,
		Cards:      cards,
		Logger:     logger,
	})

	server := api.NewServer(&api.Config{
		Port:           cfg.Server.Port,
		RequestTimeout: cfg.RequestTimeout(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Version:        version.GetVersion(),
		Contact:        cfg.Upstream.ContactEmail,
	}, service, cards, logger)

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}
	logger.Info("service ready",
		"port", server.Port(),
		"version", version.GetVersion(),
		"instance_id", server.InstanceID())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
