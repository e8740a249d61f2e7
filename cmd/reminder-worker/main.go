package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"keyexpiry-workers/internal/channels"
	commonaws "keyexpiry-workers/internal/common/aws"
	"keyexpiry-workers/internal/common/config"
	"keyexpiry-workers/internal/common/database"
	"keyexpiry-workers/internal/common/httpclient"
	"keyexpiry-workers/internal/common/logger"
	"keyexpiry-workers/internal/common/observability"
	"keyexpiry-workers/internal/reminder"
	"keyexpiry-workers/internal/store"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting reminder worker...",
		zap.String("environment", cfg.App.Environment),
		zap.Int("horizonDays", cfg.Expiry.HorizonDays),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry (config cache; optional) ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Warn("redis unavailable, config cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Channel senders ---
	senders := []reminder.ChannelSender{channels.NewSystemSender()}

	if cfg.Notifications.Email.Enabled {
		sesClient, err := commonaws.NewSESClient(ctx, cfg.Notifications.Email.AWSRegion)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		senders = append(senders, channels.NewEmailSender(sesClient, cfg.Notifications.Email.FromEmail))
	}
	if cfg.Notifications.SMS.Enabled {
		snsClient, err := commonaws.NewSNSClient(ctx, cfg.Notifications.SMS.AWSRegion)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		senders = append(senders, channels.NewSMSSender(snsClient))
	}
	if cfg.Notifications.Webhook.Enabled {
		webhookClient := httpclient.NewClient(time.Duration(cfg.Notifications.Webhook.TimeoutMS) * time.Millisecond)
		senders = append(senders, channels.NewWebhookSender(webhookClient))
	}

	// --- Wire the engine ---
	clock := reminder.SystemClock()
	keyStore := store.NewKeyStore(pg.DB)
	settingsStore := store.NewSettingsStore(pg.DB)
	ledgerStore := store.NewLedgerStore(pg.DB)
	configStore := store.NewConfigStore(pg.DB)
	notificationStore := store.NewNotificationStore(pg.DB)

	var resolver *reminder.Resolver
	if redisClient != nil {
		resolver = reminder.NewResolver(configStore, redisClient.Client, time.Duration(cfg.Expiry.ConfigCacheTTLSec)*time.Second, log)
	} else {
		resolver = reminder.NewResolver(configStore, nil, 0, log)
	}

	dispatcher := reminder.NewNotificationDispatcher(resolver, notificationStore, clock, log, senders...)
	checkService := reminder.NewCheckService(
		reminder.NewScanner(keyStore, cfg.Expiry.HorizonDays),
		settingsStore,
		ledgerStore,
		dispatcher,
		clock,
		log,
		reminder.CheckServiceConfig{
			WorkerPoolSize: cfg.Expiry.WorkerPoolSize,
			KeyTimeout:     time.Duration(cfg.Expiry.KeyTimeoutMS) * time.Millisecond,
		},
	)

	// --- Metrics/pprof endpoint ---
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.Handle("/debug/pprof/", http.DefaultServeMux)
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			zapLog.Info("metrics endpoint listening", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				zapLog.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	// --- Scan loop ---
	interval := time.Duration(cfg.Expiry.ScanIntervalSec) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	zapLog.Info("scan loop started", zap.Duration("interval", interval))

	runOnce := func() {
		started := time.Now()
		report := checkService.CheckExpirations(ctx)
		status := "ok"
		if report.Failed > 0 {
			status = "partial"
		}
		obs.RecordRun(ctx, status)
		obs.RecordRunDuration(ctx, time.Since(started), status)
	}

	runOnce()
	for {
		select {
		case <-ctx.Done():
			zapLog.Info("shutdown signal received, stopping")
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
