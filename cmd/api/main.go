package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johncabili/portfolio/backend/internal/config"
	"github.com/johncabili/portfolio/backend/internal/handler"
	"github.com/johncabili/portfolio/backend/internal/model/assistant"
	"github.com/johncabili/portfolio/backend/internal/service/chat"
	"github.com/johncabili/portfolio/backend/internal/service/inquiry"
	"github.com/johncabili/portfolio/backend/internal/service/ratelimit"
	"github.com/johncabili/portfolio/backend/internal/service/responder"
	"github.com/johncabili/portfolio/backend/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, syncLogger, err := telemetry.NewLogger(telemetry.LogConfig{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer syncLogger()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Warn("failed to load .env file, continuing with system environment variables only", zap.Error(envErr))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", zap.Error(err))
		syncLogger()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	tracer, meter, shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Dir:            cfg.Telemetry.Dir,
		ExportInterval: cfg.Telemetry.ExportInterval,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
	}, logger)
	if err != nil {
		return fmt.Errorf("telemetry setup: %w", err)
	}
	defer shutdownTelemetry()

	recorder, err := telemetry.NewRecorder(meter, tracer)
	if err != nil {
		return fmt.Errorf("telemetry instruments: %w", err)
	}

	// Initialize assistant profile store
	profile := assistant.Seed()[0].WithOverrides(cfg.Assistant.OwnerEmail, cfg.Assistant.ResumePath, cfg.Assistant.SoundURL)
	profiles := assistant.NewMemoryStore([]assistant.Profile{profile})

	resp := responder.New(responder.Options{
		OwnerEmail:    profile.OwnerEmail,
		ResumePath:    profile.ResumePath,
		EffectDelay:   cfg.Chat.EffectDelay,
		FollowUpDelay: cfg.Chat.FollowUpDelay,
	})

	opts := []chat.Option{
		chat.WithLogger(logger),
		chat.WithRecorder(recorder),
		chat.WithConfig(chat.Config{
			MaxMessages:      cfg.Chat.MaxMessages,
			TypingMin:        cfg.Chat.TypingMin,
			TypingJitter:     cfg.Chat.TypingJitter,
			SubscriberBuffer: cfg.Chat.SubscriberBuffer,
		}),
	}

	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, message rate limiting disabled", zap.Error(err))
		} else {
			limiter := ratelimit.NewRedisLimiter(redisClient, cfg.Chat.RateWindow, cfg.Chat.RateMax, logger)
			opts = append(opts, chat.WithRateLimiter(limiter))
			logger.Info("message rate limiting enabled", zap.Duration("window", cfg.Chat.RateWindow), zap.Int("max", cfg.Chat.RateMax))
		}
		cancel()
	}

	chatService := chat.NewService(profile, resp, opts...)

	emailSender := inquiry.NewDisabledSender("email relay not configured")
	if cfg.SMTP.Enabled() {
		sender, err := inquiry.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.From, cfg.SMTP.FromName, cfg.SMTP.UseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}
	relay := inquiry.NewRelay(emailSender, profile.OwnerEmail, logger)

	router := handler.NewRouter(handler.Deps{
		Profiles:       profiles,
		Chat:           chatService,
		Relay:          relay,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	return startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) error {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       serverCfg.ReadTimeout,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("portfolio assistant listening", zap.String("addr", addr))
	return runServer(ctx, srv, serverCfg.ShutdownGrace)
}

func runServer(ctx context.Context, srv *http.Server, grace time.Duration) error {
	if grace <= 0 {
		grace = 10 * time.Second
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
