package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"greeterbot/internal/config"
	"greeterbot/internal/infrastructure"
	"greeterbot/internal/interfaces"
	api "greeterbot/internal/interfaces/http"
	"greeterbot/internal/logging"
	"greeterbot/internal/repository"
	"greeterbot/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

func newServeCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web host and every enabled chat host",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Usage:   "HTTP listen address (overrides LISTEN_ADDR)",
				Aliases: []string{"l"},
			},
			&cli.StringFlag{
				Name:  "variant",
				Usage: "Greeting variant, status or logo (overrides GREETER_VARIANT)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "trace, debug, info, warn or error (overrides LOG_LEVEL)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json (overrides LOG_FORMAT)",
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadServeConfig(cmd, os.LookupEnv)
	if err != nil {
		return cli.Exit(err, 1)
	}

	logger := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil {
		return cli.Exit(err, 1)
	}
	logger.Info("Server shutdown complete")
	return nil
}

// loadServeConfig reads the settings through lookup, applies flag overrides and validates the result
func loadServeConfig(cmd *cli.Command, lookup config.LookupFunc) (config.Service, error) {
	cfg, err := config.LoadServiceFrom(lookup)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyFlags(cmd *cli.Command, cfg *config.Service) {
	if cmd.IsSet("listen") {
		cfg.ListenAddr = cmd.String("listen")
	}
	if cmd.IsSet("variant") {
		cfg.Variant = strings.ToLower(cmd.String("variant"))
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.LogFormat = cmd.String("log-format")
	}
}

func serve(ctx context.Context, cfg config.Service, logger *slog.Logger) error {
	greeter, err := usecases.NewGreeter(cfg.Variant)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := infrastructure.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	observers := []interfaces.Observer{metrics}

	// nil interfaces, not typed nil pointers, keep the admin routes reporting 503
	var usage api.UsageReader
	if cfg.DatabaseURL != "" {
		pg, err := infrastructure.NewPostgresClient(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pg.Close()

		repo := repository.NewUsageRepository(pg.Pool, logger)
		observers = append(observers, repo)
		usage = repo
		logger.Info("Usage storage enabled")
	} else {
		logger.Info("Usage storage disabled (DATABASE_URL not set)")
	}

	lifecycle := usecases.NewLifecycle(logger, observers...)
	greeter.Register(lifecycle)

	sessions := infrastructure.NewSessionManager(cfg.SessionIdleTimeout)
	limiter := infrastructure.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessions.Run(gctx, sweepInterval)
		return nil
	})
	g.Go(func() error {
		limiter.Run(gctx)
		return nil
	})

	if cfg.TelegramToken != "" {
		host, err := infrastructure.NewTelegramHost(cfg.TelegramToken, lifecycle, sessions, limiter, logger)
		if err != nil {
			logger.Error("Telegram disabled", "error", err)
		} else {
			g.Go(func() error { return host.Run(gctx) })
		}
	} else {
		logger.Info("Telegram disabled (TELEGRAM_BOT_TOKEN not set)")
	}

	var pairing api.WhatsAppPairing
	if cfg.WhatsAppEnabled {
		client, err := infrastructure.NewWhatsAppClient(ctx, cfg.WhatsAppDBPath, cfg.LogLevel, logger)
		if err != nil {
			return fmt.Errorf("failed to create whatsapp client: %w", err)
		}
		pairing = client
		host := infrastructure.NewWhatsAppHost(client, lifecycle, sessions, limiter, logger)
		g.Go(func() error { return host.Run(gctx) })
	}

	tokens, err := api.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}
	if cfg.SessionSecret == "" {
		logger.Warn("SESSION_SECRET not set, web sessions will not survive a restart")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(logger.With("component", "http")))
	middleware := api.NewMiddleware(tokens, limiter, cfg.AdminUser, cfg.AdminPasswordHash)
	api.SetupRoutes(r,
		api.NewHandler(lifecycle, tokens, logger),
		api.NewAdminHandler(usage, pairing),
		middleware,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)
	if !middleware.AdminEnabled() {
		logger.Info("Admin routes disabled (ADMIN_PASSWORD_HASH not set)")
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", cfg.ListenAddr, "variant", cfg.Variant)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
