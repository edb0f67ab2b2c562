package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/gdugdh24/yuelao-backend/internal/config"
	"github.com/gdugdh24/yuelao-backend/internal/delivery/http"
	"github.com/gdugdh24/yuelao-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/yuelao-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/yuelao-backend/internal/infrastructure/database"
	"github.com/gdugdh24/yuelao-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/yuelao-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/yuelao-backend/internal/infrastructure/server"
	"github.com/gdugdh24/yuelao-backend/internal/infrastructure/sheets"
	"github.com/gdugdh24/yuelao-backend/internal/infrastructure/stripe"
	"github.com/gdugdh24/yuelao-backend/internal/repository"
	"github.com/gdugdh24/yuelao-backend/internal/repository/memory"
	redisrepo "github.com/gdugdh24/yuelao-backend/internal/repository/redis"
	"github.com/gdugdh24/yuelao-backend/internal/repository/sqlrepo"
	"github.com/gdugdh24/yuelao-backend/internal/usecase/admin"
	"github.com/gdugdh24/yuelao-backend/internal/usecase/payment"
	"github.com/gdugdh24/yuelao-backend/internal/usecase/pipeline"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *sqlx.DB
	Redis    *goredis.Client
	Gemini   *gemini.GeminiClient
	Mirror   *sheets.Mirror
	Pipeline *pipeline.PipelineUseCase
	Server   *server.Server
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	// Initialize archive
	archive, err := c.newArchive(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	if cfg.Sheets.WebhookURL != "" {
		c.Mirror = sheets.NewMirror(archive, cfg.Sheets, nil, logger)
		archive = c.Mirror
	}

	// Initialize Gemini Client
	c.Gemini, err = gemini.NewGeminiClient(ctx, cfg.Gemini, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize gemini: %w", err)
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize use cases
	c.Pipeline = pipeline.NewPipelineUseCase(
		c.Gemini,
		c.Gemini,
		archive,
		cfg.Pipeline,
		logger,
		pipeline.WithMetrics(metrics.New(registry)),
	)

	adminUseCase := admin.NewAdminUseCase(archive, cfg.Admin, logger)
	if adminUseCase.Enabled() {
		logger.Warn("admin entry point enabled")
	}

	// A nil gateway disables payments. Keep the interface itself nil.
	var gateway payment.Gateway
	if cfg.Stripe.SecretKey != "" {
		gateway = stripe.NewGateway(cfg.Stripe, nil)
	}
	paymentUseCase := payment.NewPaymentUseCase(gateway, logger)

	// Initialize router
	router := http.NewRouter(
		handler.NewSessionHandler(c.Pipeline, adminUseCase),
		handler.NewAdminHandler(adminUseCase),
		handler.NewPaymentHandler(paymentUseCase),
		middleware.NewAdminMiddleware(adminUseCase),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		logger,
	)

	// Initialize server
	c.Server = server.NewServer(&cfg.Server, router.Setup(), logger)

	return c, nil
}

func (c *Container) newArchive(ctx context.Context) (repository.SubmissionRepository, error) {
	cfg := c.Config

	switch cfg.Archive.Driver {
	case config.ArchivePostgres:
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		if err := sqlrepo.Migrate(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return sqlrepo.NewSubmissionRepository(db), nil

	case config.ArchiveSQLite:
		db, err := database.NewSQLiteDB(cfg.Archive.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite: %w", err)
		}
		c.DB = db
		if err := sqlrepo.Migrate(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
		}
		return sqlrepo.NewSubmissionRepository(db), nil

	case config.ArchiveRedis:
		client, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		c.Redis = client
		return redisrepo.NewSubmissionRepository(client, cfg.Archive.RedisKey), nil

	default:
		c.Logger.Warn("using in-memory archive; submissions are lost on restart")
		return memory.NewSubmissionRepository(), nil
	}
}

// Close stops background work and closes all connections
func (c *Container) Close() error {
	if c.Pipeline != nil {
		c.Pipeline.Shutdown()
	}

	// Drain sheet forwards once the pipeline has stopped writing.
	if c.Mirror != nil {
		c.Mirror.Close()
	}

	if c.Gemini != nil {
		c.Gemini.Close()
	}

	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Error("error closing redis", slog.Any("error", err))
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
