package container

import (
	"context"
	"fmt"
	"time"

	"booksite-backend/internal/config"
	authorRepo "booksite-backend/internal/domains/author/repository"
	authorService "booksite-backend/internal/domains/author/service"
	infraCache "booksite-backend/internal/infrastructure/cache"
	"booksite-backend/internal/infrastructure/database"
	"booksite-backend/pkg/cache"
	"booksite-backend/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application, built once.
type Container struct {
	// Infrastructure
	Config *config.Config
	DB     *database.DB
	Cache  cache.Cache

	// Repositories
	AuthorRepo authorRepo.RepositoryInterface

	// Services
	AuthorService authorService.ServiceInterface
}

// NewContainer loads configuration from the environment and builds the
// dependency graph.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	return New(ctx, cfg, dbConfig)
}

// New builds the dependency graph from explicit configuration.
//
// Initialization order:
// 1. Logger (Config)
// 2. Infrastructure (DB, Cache)
// 3. Repositories
// 4. Services
func New(ctx context.Context, cfg *config.Config, dbConfig *database.DBConfig) (*Container, error) {
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	logger.Info("initializing container", map[string]interface{}{
		"env":     cfg.App.Environment,
		"version": cfg.App.Version,
	})

	c := &Container{Config: cfg}

	// ========================================
	// DATABASE
	// ========================================
	db := database.NewDB(dbConfig)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	if cfg.App.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			c.Cleanup()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// ========================================
	// CACHE
	// ========================================
	c.initCache(ctx)

	// ========================================
	// REPOSITORIES & SERVICES
	// ========================================
	c.AuthorRepo = authorRepo.NewSQLRepository()
	c.AuthorService = authorService.NewAuthorService(db.Conn, c.AuthorRepo, c.Cache, cfg.Redis.TTL)

	logger.Debug("container initialized")
	return c, nil
}

// initCache connects Redis when enabled. Redis failure is not critical:
// the container falls back to no caching.
func (c *Container) initCache(ctx context.Context) {
	if !c.Config.Redis.Enabled {
		c.Cache = cache.Noop{}
		return
	}

	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		logger.Warn("redis connection failed, caching disabled", map[string]interface{}{
			"host":  c.Config.Redis.Host,
			"error": err.Error(),
		})
		_ = rc.Close()
		c.Cache = cache.Noop{}
		return
	}
	c.Cache = rc
}

// Cleanup releases database and cache connections
func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
}
