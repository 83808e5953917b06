package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/taskleaf/taskleaf/internal/api"
	"github.com/taskleaf/taskleaf/internal/config"
	"github.com/taskleaf/taskleaf/internal/db"
	"github.com/taskleaf/taskleaf/internal/gcal"
	"github.com/taskleaf/taskleaf/internal/weather"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OtelExporterEndpoint != "" {
		tp := initTracerProvider(ctx, cfg, logger)
		defer func() {
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("tracer provider shutdown failed", zap.Error(err))
			}
		}()
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	}

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	weatherClient := weather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, logger)
	calendarClient := gcal.NewClient(cfg.GoogleOAuthConfig, logger)
	handler := api.NewHandler(database, cfg, logger, weatherClient, calendarClient)

	app := fiber.New(fiber.Config{
		AppName:               "TaskLeaf",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORSOrigins(), ","),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("taskleaf listening",
		zap.String("port", cfg.Port),
		zap.String("db", cfg.DBPath),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func initTracerProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) *sdktrace.TracerProvider {
	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OtelExporterEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		logger.Fatal("OTLP trace exporter init failed", zap.Error(err))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("taskleaf"),
			semconv.ServiceVersionKey.String(cfg.Version),
		),
	)
	if err != nil {
		logger.Fatal("otel resource init failed", zap.Error(err))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	logger.Info("OTLP trace exporter initialized", zap.String("endpoint", cfg.OtelExporterEndpoint))
	return tp
}
