package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"opsdash/internal/gateway"
	ordersvc "opsdash/internal/gateway/orders"
	usersvc "opsdash/internal/gateway/users"
	"opsdash/internal/notify"
	orderspage "opsdash/internal/pages/orders"
	"opsdash/internal/pages/overview"
	userspage "opsdash/internal/pages/users"
	"opsdash/internal/platform/config"
	"opsdash/internal/platform/health"
	"opsdash/internal/platform/logger"
	"opsdash/internal/platform/metrics"
	"opsdash/internal/query"
	httptransport "opsdash/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Page logic lives in internal/pages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing opsdash",
		"addr", cfg.Addr,
		"gateway", cfg.GatewayBaseURL,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	client := gateway.New(cfg.GatewayBaseURL, cfg.GatewayTimeout,
		gateway.WithLogger(log),
		gateway.WithMetrics(m),
	)
	userService := usersvc.New(client)
	orderService := ordersvc.New(client)

	cache := query.New(
		query.WithTTL(cfg.CacheTTL),
		query.WithLogger(log),
		query.WithMetrics(m),
	)
	feed := notify.NewFeed()

	overviewController := overview.NewController(userService, orderService, cache, log)
	usersController := userspage.NewController(userService, cache, feed, log)
	ordersController := orderspage.NewController(orderService, cache, feed, log)

	pollCtx, stopPolling := context.WithCancel(context.Background())
	defer stopPolling()
	overviewController.Start(pollCtx, cfg.DashboardPollInterval)
	usersController.Start(pollCtx, cfg.ListPollInterval)
	ordersController.Start(pollCtx, cfg.ListPollInterval)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("gateway", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.GatewayTimeout)
		defer cancel()
		return client.Ping(ctx)
	})

	handler := httptransport.NewHandler(overviewController, usersController, ordersController, log)
	router := httptransport.NewRouter(handler, healthHandler, registry, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")
	stopPolling()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
