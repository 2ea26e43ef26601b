package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-market-engine/internal/adapters/auth/apikey"
	"pet-market-engine/internal/adapters/effects/relay"
	"pet-market-engine/internal/config"
	"pet-market-engine/internal/host"
	"pet-market-engine/internal/platform/logger"
	"pet-market-engine/internal/ports/auth"
	"pet-market-engine/internal/router"
)

// @title pet-market-engine API
// @version 1.0
// @description Host HTTP de los contratos Market (venta de comida) y Pet (mascotas con saturación).
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("dotenv: %v", err)
	}
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	lg := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    "pet-market-engine",
	})
	if zl, ok := lg.(*logger.ZapLogger); ok {
		defer zl.Sync()
	}

	store, closeStore, err := router.OpenStore(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer closeStore()

	var verifier auth.AuthVerifier // nil = modo dev
	if len(cfg.Auth.APIKeys) > 0 {
		v, err := apikey.NewVerifier(cfg.Auth.APIKeys)
		if err != nil {
			log.Fatalf("auth: %v", err)
		}
		verifier = v
	}

	var sink host.EffectSink
	rc, err := relay.NewClient(relay.Config{
		BaseURL: cfg.Relay.BaseURL,
		APIKey:  cfg.Relay.APIKey,
		Timeout: cfg.Relay.Timeout,
	})
	if err != nil {
		log.Fatalf("relay: %v", err)
	}
	if rc.IsConfigured() {
		sink = rc
	}

	r, err := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Store:        store,
		Sink:         sink,
		Logger:       lg,
		Market:       host.ContractRef{Address: cfg.Contracts.Market.Address, CodeHash: cfg.Contracts.Market.CodeHash},
		Pet:          host.ContractRef{Address: cfg.Contracts.Pet.Address, CodeHash: cfg.Contracts.Pet.CodeHash},
	})
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		lg.Info("starting server", map[string]any{
			"addr":    cfg.Server.Addr,
			"storage": cfg.Storage.Driver,
			"auth":    verifier != nil,
			"relay":   sink != nil,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("shutdown failed", map[string]any{"error": err})
	}
	lg.Info("server stopped", nil)
}
