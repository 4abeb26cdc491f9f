package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"leaveapi/internal/config"
	"leaveapi/internal/database"
	"leaveapi/internal/database/migration"
	handlers "leaveapi/internal/http/handler"
	"leaveapi/internal/http/middleware"
	"leaveapi/internal/logging"
	"leaveapi/internal/notify"
	"leaveapi/internal/otel"
	"leaveapi/internal/repository/postgres"
	"leaveapi/internal/service"
	"leaveapi/internal/storage"
)

// @title Leave API
// @version 1.0
// @description Leave request lifecycle, annual quota and attachments.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.Location())

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped with error")
	}
	log.Info("server stopped")
}

func run(cfg *config.AppConfig, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Warn("tracer shutdown failed")
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hub := notify.NewHub(cfg.Events.BufferSize, log)
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "leave_event_subscribers",
		Help: "Number of connected server-sent event subscribers.",
	}, func() float64 { return float64(hub.Subscribers()) }))

	transitions, err := service.NewTransitionCounter(reg)
	if err != nil {
		return err
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	// Initialize repositories and services
	leaveRepo := postgres.NewLeavePostgres(db)
	employees := postgres.NewEmployeePostgres(db)
	attachments := service.NewAttachmentStore(objStore, leaveRepo, log)
	leaveSvc := service.NewLeaveService(
		leaveRepo,
		employees,
		service.NewQuotaLedger(leaveRepo, cfg.Leave.AnnualQuotaDays),
		attachments,
		hub,
		service.LeaveOptions{
			HRRequiresChiefApproval: cfg.Leave.HRRequiresChiefApproval,
			Transitions:             transitions,
			Logger:                  log,
		},
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Multipart overhead on top of the largest accepted file
		BodyLimit:             cfg.Leave.MaxUploadBytes + 1<<20,
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/events"
	})))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterRoutes(app, handlers.Dependencies{
		DB:                  db,
		Leave:               leaveSvc,
		Attachments:         attachments,
		Events:              hub,
		MaxUploadBytes:      int64(cfg.Leave.MaxUploadBytes),
		AttachmentURLExpiry: time.Duration(cfg.Leave.AttachmentURLExpirySec) * time.Second,
		Heartbeat:           time.Duration(cfg.Events.HeartbeatSec) * time.Second,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.WithFields(logrus.Fields{"addr": addr, "pid": os.Getpid()}).Info("server starting")
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		return app.ShutdownWithTimeout(30 * time.Second)
	})

	return g.Wait()
}
