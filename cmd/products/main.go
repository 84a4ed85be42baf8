package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ProductAPI/internal/catalog"
	"ProductAPI/internal/config"
	"ProductAPI/internal/identity"
	"ProductAPI/pkg/kit"
)

func main() {
	service := "products"

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(service, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	var verifier *identity.Verifier
	if cfg.JWTSecret != "" {
		verifier = identity.NewVerifier(cfg.JWTSecret)
	}

	var reg *prometheus.Registry
	if cfg.MetricsEnabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	s := &catalog.Server{Store: catalog.NewMemStore(), Log: log}
	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:                log,
		Service:            service,
		Registry:           reg,
		MetricsEnabled:     cfg.MetricsEnabled,
		MetricsToken:       cfg.MetricsToken,
		Verifier:           verifier,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	log.Info("server configured",
		zap.String("addr", cfg.Addr()),
		zap.Bool("metrics", cfg.MetricsEnabled),
		zap.Bool("token_verification", verifier != nil),
	)

	if err := kit.RunHTTPServer(context.Background(), cfg.Addr(), h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
