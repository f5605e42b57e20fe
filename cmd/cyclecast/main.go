package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/cyclecast/internal/api"
	"github.com/terraincognita07/cyclecast/internal/cli"
	"github.com/terraincognita07/cyclecast/internal/config"
	"github.com/terraincognita07/cyclecast/internal/db"
	"github.com/terraincognita07/cyclecast/internal/logging"
	"github.com/terraincognita07/cyclecast/internal/partnersync"
	"github.com/terraincognita07/cyclecast/internal/prediction"
	"go.uber.org/zap"
)

const (
	serviceName     = "cyclecast"
	shutdownTimeout = 10 * time.Second
)

var errUnknownCommand = errors.New("unknown command")

func main() {
	cfg := config.Load()

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	command, err := commandFromArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\nusage: cyclecast [serve|reset-pin|set-pin]\n", err)
		os.Exit(2)
	}

	paths := cli.Paths{DBPath: cfg.DBPath, PinDBPath: cfg.PinDBPath}
	switch command {
	case "reset-pin":
		err = cli.RunResetPinCommand(paths, os.Stdout, logger)
	case "set-pin":
		err = cli.RunSetPinCommand(paths, os.Stdout, logger)
	default:
		err = serve(cfg, logger)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func commandFromArgs(args []string) (string, error) {
	if len(args) == 0 {
		return "serve", nil
	}
	switch args[0] {
	case "serve", "reset-pin", "set-pin":
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownCommand, args[0])
	}
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	location := serveLocation(cfg, logger)
	reminderDays, _ := cfg.ReminderDays()

	sentryEnabled := initSentry(cfg, logger)
	if sentryEnabled {
		defer sentry.Flush(2 * time.Second)
	}

	database, err := db.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() { _ = db.Close(database) }()

	vault, err := db.OpenPinVault(cfg.PinDBPath, logger)
	if err != nil {
		return fmt.Errorf("pin vault init failed: %w", err)
	}
	defer func() { _ = vault.Close() }()

	wiring := api.Wiring{
		Store: db.NewStore(database),
		Vault: vault,
		Predictor: prediction.NewClient(prediction.Config{
			Endpoint: cfg.PredictionEndpoint,
			APIKey:   cfg.PredictionAPIKey,
			Model:    cfg.PredictionModel,
			Timeout:  cfg.PredictionTimeout,
			Referer:  cfg.PredictionReferer,
			Title:    cfg.PredictionTitle,
		}, time.Now, location, logger.Named("prediction")),
		PeriodReminderDays: reminderDays,
		Location:           location,
		Now:                time.Now,
		Logger:             logger,
	}

	if cfg.RedisEnabled() {
		redisDB, _ := cfg.RedisDatabase()
		client := db.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, redisDB)
		defer func() { _ = client.Close() }()

		cache := db.NewRedisPredictionCache(client)
		wiring.PredictionCache = cache
		wiring.SharedCache = cache
		logger.Info("using redis prediction cache", zap.String("addr", cfg.RedisAddr))
	}

	if cfg.PartnerSyncEnabled() {
		publisher, err := partnersync.Connect(partnersync.Config{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientID,
			Topic:    cfg.MQTTTopic,
			Username: cfg.MQTTUsername,
			Password: cfg.MQTTPassword,
		}, logger.Named("partnersync"))
		if err != nil {
			logger.Warn("partner sync disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			wiring.Publisher = publisher
		}
	}

	handler, err := api.NewHandler(api.NewDependencies(wiring), api.Options{
		SecretKey:      cfg.SecretKey,
		UnlockTokenTTL: cfg.UnlockTokenTTL,
		Location:       location,
		Logger:         logger.Named("api"),
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newApp(sentryEnabled)
	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("cyclecast listening",
		zap.String("port", cfg.Port),
		zap.String("db", cfg.DBPath),
		zap.String("tz", location.String()),
		zap.Bool("redis", cfg.RedisEnabled()),
		zap.Bool("partner_sync", wiring.Publisher != nil),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func initSentry(cfg *config.Config, logger *zap.Logger) bool {
	if cfg.SentryDSN == "" {
		return false
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
		Environment:      cfg.AppEnv,
	}); err != nil {
		logger.Error("sentry init failed", zap.Error(err))
		return false
	}
	return true
}

// serveLocation resolves TZ for the services. The process-wide time.Local is
// left untouched; every consumer receives the location explicitly.
func serveLocation(cfg *config.Config, logger *zap.Logger) *time.Location {
	location, err := cfg.Location()
	if err != nil {
		logger.Warn("invalid TZ, falling back to UTC", zap.Error(err))
	}
	return location
}

func newApp(sentryEnabled bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "cyclecast",
		DisableStartupMessage: true,
		ErrorHandler:          jsonErrorHandler,
	})

	if sentryEnabled {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	return app
}

// jsonErrorHandler keeps unmatched routes and recovered panics in the API's error shape.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		if code < fiber.StatusInternalServerError {
			message = fiberErr.Message
		}
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
