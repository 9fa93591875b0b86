package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/skyhop/flightmcp/config"
	"github.com/skyhop/flightmcp/log"
	"github.com/skyhop/flightmcp/mcpserver"
	"github.com/skyhop/flightmcp/providers/skyscanner"
	"github.com/skyhop/flightmcp/search"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	log.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info(context.Background(), "shutting down")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(ctx, "failed to load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	// In stdio mode stdout belongs to the protocol.
	if cfg.Server.Mode == string(mcpserver.TransportModeSTDIO) {
		log.SetOutput(os.Stderr)
	}

	client, err := skyscanner.NewClient(cfg.Skyscanner.BaseURL, cfg.Skyscanner.APIKey, cfg.Skyscanner.Timeout())
	if err != nil {
		log.Fatalf(ctx, "failed to create upstream client: %v", err)
	}

	orchestrator := search.New(search.Options{
		Client:     client,
		CacheTTL:   cfg.Cache.TTL(),
		CacheSize:  cfg.Cache.MaxEntries,
		SessionTTL: cfg.Cache.SessionTTL(),
		SiteURL:    cfg.Skyscanner.SiteURL,
		Market:     cfg.Skyscanner.Market,
		Locale:     cfg.Skyscanner.Locale,
	})

	srv, err := mcpserver.NewServer(mcpserver.Config{
		Mode: mcpserver.TransportMode(cfg.Server.Mode),
		Port: cfg.Server.Port,
	}, orchestrator)
	if err != nil {
		log.Fatalf(ctx, "failed to create MCP server: %v", err)
	}

	if err := srv.Start(ctx); err != nil {
		log.Fatalf(ctx, "failed to start MCP server: %v", err)
	}

	switch mcpserver.TransportMode(cfg.Server.Mode) {
	case mcpserver.TransportModeSTDIO:
		srv.Wait()
	default:
		<-ctx.Done()
	}

	if err := srv.Stop(); err != nil {
		log.Errorf(context.Background(), "shutdown error: %v", err)
	}
}
