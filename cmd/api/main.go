// @title Budget Loop API
// @version 1.0
// @description Personal finance tracker: transactions, budgets, savings goals, statistics and CSV export.
// @BasePath /api
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

	"github.com/budgetloop/budgetloop-backend/internal/amqp"
	"github.com/budgetloop/budgetloop-backend/internal/config"
	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/event"
	"github.com/budgetloop/budgetloop-backend/internal/handler"
	"github.com/budgetloop/budgetloop-backend/internal/middleware"
	"github.com/budgetloop/budgetloop-backend/internal/repository/kv"
	"github.com/budgetloop/budgetloop-backend/internal/repository/memory"
	"github.com/budgetloop/budgetloop-backend/internal/repository/persisted"
	"github.com/budgetloop/budgetloop-backend/internal/repository/postgres"
	"github.com/budgetloop/budgetloop-backend/internal/repository/remote"
	"github.com/budgetloop/budgetloop-backend/internal/repository/storage"
	"github.com/budgetloop/budgetloop-backend/internal/service"
	"github.com/budgetloop/budgetloop-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// repositories is the set of stores the services run on, plus whatever
// must be closed at shutdown.
type repositories struct {
	transactions domain.TransactionRepository
	budgets      domain.BudgetRepository
	goals        domain.GoalRepository
	preferences  domain.PreferencesRepository

	// watched is the key-value store behind the persisted repositories.
	watched *kv.Watched
	closers []func()
}

func (r *repositories) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage backend
	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("Failed to open storage")
	}
	defer repos.close()
	log.Info().Str("backend", cfg.StorageBackend).Msg("Storage ready")

	// Warm the snapshot store and the attachment store concurrently
	var objects storage.ObjectRepository
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := persisted.Warmup(gctx, repos.watched)
		if err != nil {
			return fmt.Errorf("warm up snapshots: %w", err)
		}
		log.Info().Interface("records", counts).Msg("Snapshots loaded")
		return nil
	})
	g.Go(func() error {
		var err error
		objects, err = openObjectStore(gctx, cfg)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize stores")
	}

	// Event fan-out: websocket clients always, AMQP when configured
	hub := websocket.NewHub()
	publishers := event.MultiPublisher{hub}
	var amqpPublisher *amqp.Publisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err = amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to AMQP broker")
		}
		publishers = append(publishers, amqpPublisher)
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("Publishing events to AMQP")
	}

	// Writes that reach the key-value store from any path become change events
	unsubscribe := repos.watched.Subscribe("", func(ch kv.Change) {
		hub.Publish(event.StorageChanged(ch.Key, ch.Deleted))
	})
	defer unsubscribe()

	// Initialize services
	transactionService := service.NewTransactionService(repos.transactions)
	transactionService.SetEventPublisher(publishers)
	budgetService := service.NewBudgetService(repos.budgets, repos.transactions)
	budgetService.SetEventPublisher(publishers)
	goalService := service.NewGoalService(repos.goals)
	goalService.SetEventPublisher(publishers)
	settingsService := service.NewSettingsService(repos.preferences)
	settingsService.SetEventPublisher(publishers)
	attachmentService := service.NewAttachmentService(repos.transactions, objects)
	attachmentService.SetEventPublisher(publishers)
	statsService := service.NewStatsService(repos.transactions, cfg.ExportLocale)
	exportService := service.NewExportService(repos.transactions, repos.budgets, repos.goals, settingsService, cfg.ExportLocale)

	// Initialize handlers
	handlers := handler.Handlers{
		Transaction: handler.NewTransactionHandler(transactionService),
		Attachment:  handler.NewAttachmentHandler(attachmentService),
		Stats:       handler.NewStatsHandler(statsService),
		Budget:      handler.NewBudgetHandler(budgetService),
		Goal:        handler.NewGoalHandler(goalService),
		Settings:    handler.NewSettingsHandler(settingsService),
		Export:      handler.NewExportHandler(exportService),
		WebSocket:   handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
	}

	metrics, err := middleware.NewMetrics("budget_loop")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create metrics")
	}
	if err := metrics.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "budget_loop",
		Name:      "websocket_clients",
		Help:      "Number of connected websocket clients.",
	}, func() float64 {
		return float64(hub.ClientCount())
	})); err != nil {
		log.Fatal().Err(err).Msg("Failed to register websocket gauge")
	}

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// Preflight runs before routing so unknown paths still get CORS headers
	e.Pre(middleware.Preflight(cfg.CORSOrigins))
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  middleware.AllowedMethods,
		AllowHeaders:  middleware.AllowedHeaders,
		ExposeHeaders: []string{"X-Total-Count", "X-Export-Rows", echo.HeaderContentDisposition},
		MaxAge:        86400,
	}))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	e.Use(middleware.RequestLogger())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.Recover())

	e.GET("/metrics", metrics.Handler())
	handler.RegisterRoutes(e, handlers, middleware.RateLimitMiddleware(rateLimiter))

	// Background budget sync
	var worker *service.BudgetSyncWorker
	if cfg.BudgetSyncInterval > 0 {
		worker = service.NewBudgetSyncWorker(budgetService, log.Logger, service.BudgetSyncWorkerConfig{
			Interval: cfg.BudgetSyncInterval,
		})
		worker.Start(ctx)
	}

	server, serverCtx := errgroup.WithContext(ctx)
	server.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	server.Go(func() error {
		<-serverCtx.Done()
		log.Info().Msg("Shutting down server...")

		if worker != nil {
			worker.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		hub.CloseAll()
		if amqpPublisher != nil {
			if err := amqpPublisher.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close AMQP publisher")
			}
		}
		rateLimiter.Stop()
		return nil
	})

	if err := server.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server exited")
}

// openRepositories builds the repositories for cfg.StorageBackend. Budgets,
// goals and preferences always live in the key-value store; only
// transactions have dedicated relational and remote backends.
func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	repos := &repositories{}

	persistAll := func(store kv.Store) {
		repos.watched = kv.NewWatched(store)
		repos.transactions = persisted.NewTransactionRepository(repos.watched)
		repos.budgets = persisted.NewBudgetRepository(repos.watched)
		repos.goals = persisted.NewGoalRepository(repos.watched)
		repos.preferences = persisted.NewPreferencesRepository(repos.watched)
		repos.closers = append(repos.closers, func() {
			if err := repos.watched.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close key-value store")
			}
		})
	}

	switch cfg.StorageBackend {
	case config.BackendMemory:
		// Preferences have no plain in-memory repository; a memory-backed
		// key-value store serves them instead.
		persistAll(kv.NewMemoryStore())
		repos.transactions = memory.NewTransactionRepository()
		repos.budgets = memory.NewBudgetRepository()
		repos.goals = memory.NewGoalRepository()

	case config.BackendSQLite:
		store, err := kv.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		persistAll(store)

	case config.BackendRedis:
		store, err := kv.NewRedisStore(kv.RedisConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			KeyPrefix:   cfg.Redis.KeyPrefix,
			DialTimeout: 5 * time.Second,
		})
		if err != nil {
			return nil, err
		}
		persistAll(store)

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		repos.closers = append(repos.closers, pool.Close)

		store, err := kv.NewPostgresStore(pool)
		if err != nil {
			repos.close()
			return nil, err
		}
		persistAll(store)

		transactions, err := postgres.NewTransactionRepository(pool)
		if err != nil {
			repos.close()
			return nil, err
		}
		repos.transactions = transactions

	case config.BackendRemote:
		remoteCfg := remote.DefaultConfig(cfg.RemoteAPIURL)
		if cfg.RemoteTimeout > 0 {
			remoteCfg.Timeout = cfg.RemoteTimeout
		}
		transactions, err := remote.NewTransactionRepository(remoteCfg)
		if err != nil {
			return nil, err
		}
		persistAll(kv.NewMemoryStore())
		repos.transactions = transactions

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	return repos, nil
}

// openObjectStore returns the attachment store, or nil when attachments are
// disabled.
func openObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectRepository, error) {
	switch cfg.ObjectStore {
	case config.ObjectStoreMemory:
		return storage.NewMemoryObjectRepository("http://localhost:" + cfg.Port + "/attachments"), nil
	case config.ObjectStoreS3:
		store, err := storage.NewS3ObjectRepository(ctx, storage.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PublicURL:       cfg.S3.PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("open S3 object store: %w", err)
		}
		return store, nil
	case config.ObjectStoreNone:
		log.Warn().Msg("No object store configured, attachments disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown object store %q", cfg.ObjectStore)
	}
}
