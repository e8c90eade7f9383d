package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/page-sentinel/internal/adapter/chromedp_loader"
	"github.com/user/page-sentinel/internal/adapter/file_loader"
	"github.com/user/page-sentinel/internal/adapter/hostclient"
	redis_adapter "github.com/user/page-sentinel/internal/adapter/redis"
	"github.com/user/page-sentinel/internal/delivery/http/handler"
	"github.com/user/page-sentinel/internal/delivery/http/router"
	"github.com/user/page-sentinel/internal/dom"
	"github.com/user/page-sentinel/internal/repository"
	"github.com/user/page-sentinel/internal/usecase"
	"github.com/user/page-sentinel/pkg/config"
	"github.com/user/page-sentinel/pkg/logger"
	"github.com/user/page-sentinel/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		panic("could not load config: " + err.Error())
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic("could not build logger: " + err.Error())
	}
	defer log.Sync()

	if cfg.PageURL == "" {
		log.Fatal("PAGE_URL is required")
	}

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ctx := context.Background()

	// --- Context menu side channel (optional) ---
	var snapshots repository.SnapshotRepository
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Warn("redis unavailable, context menu snapshots disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	} else {
		snapshots = redis_adapter.NewSnapshotRepo(rdb, cfg.SnapshotTTL)
		log.Info("redis connection established", zap.String("addr", cfg.RedisAddr))
	}

	// --- Page ---
	var loader repository.PageLoader
	if cfg.PageFile != "" {
		loader = file_loader.NewFileLoader(cfg.PageFile)
	} else {
		browser := chromedp_loader.NewChromedpLoader(cfg.PageLoadTimeout, cfg.UserAgents, log)
		defer browser.Close()
		loader = browser
	}

	raw, err := loader.Load(ctx, cfg.PageURL)
	if err != nil {
		log.Fatal("failed to load page", zap.String("url", cfg.PageURL), zap.Error(err))
	}
	doc, err := dom.FromRawPage(raw)
	if err != nil {
		log.Fatal("failed to parse page", zap.String("url", cfg.PageURL), zap.Error(err))
	}

	// --- Agent ---
	host := hostclient.New(cfg.HostURL, cfg.HostTimeout, log)
	agent := usecase.NewAgent(ctx, doc, host, snapshots, usecase.Options{
		ScanFeedbackDelay:    cfg.ScanFeedbackDelay,
		NotificationDuration: cfg.NotificationDuration,
	}, m, log)
	defer agent.Close()

	wrapped := agent.Attach()
	log.Info("agent attached", zap.String("url", agent.PageURL()), zap.Int("report_affordances", wrapped))

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(agent, snapshots, log)
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(apiHandler, m, reg, log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 70 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("could not start server", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exiting")
}
