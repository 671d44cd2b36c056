package di

import (
	"context"
	"fmt"
	"sync"

	"intelfeed/internal/auth"
	"intelfeed/internal/news"
	newsconfig "intelfeed/internal/news/config"
	"intelfeed/internal/reports"
	"intelfeed/internal/shared/eventbus"
	"intelfeed/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container is the dependency injection container with lifecycle management.
type Container struct {
	mu sync.RWMutex

	// Module instances
	AuthModule    *auth.Module
	NewsModule    *news.Module
	ReportsModule *reports.Module

	// Infrastructure
	MongoDB  *mongo.Database
	Redis    *redis.Client
	EventBus eventbus.EventBusInterface
	Logger   logger.Logger
}

// NewContainer creates a new DI container.
func NewContainer(log logger.Logger) *Container {
	return &Container{Logger: log}
}

// InitializeInfrastructure stores the shared connections and the event bus.
func (c *Container) InitializeInfrastructure(mongoDB *mongo.Database, redisCfg *newsconfig.RedisConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Logger == nil {
		c.Logger = logger.NewLogger()
	}

	c.MongoDB = mongoDB
	c.Redis = newsconfig.NewRedisClient(redisCfg)
	c.EventBus = eventbus.NewEventBus(c.Logger)
	return nil
}

// InitializeAuth builds the auth module.
func (c *Container) InitializeAuth() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MongoDB == nil {
		return fmt.Errorf("infrastructure must be initialized before the auth module")
	}

	module, err := auth.NewModule(c.MongoDB, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}
	c.AuthModule = module
	return nil
}

// InitializeNews builds the news module.
func (c *Container) InitializeNews() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.MongoDB == nil || c.Redis == nil {
		return fmt.Errorf("infrastructure must be initialized before the news module")
	}

	module, err := news.NewModule(c.MongoDB, c.Redis, c.EventBus, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create news module: %w", err)
	}
	c.NewsModule = module
	return nil
}

// InitializeReports builds the reports module on top of the news module.
func (c *Container) InitializeReports() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.NewsModule == nil {
		return fmt.Errorf("news module must be initialized before the reports module")
	}

	module, err := reports.NewModule(c.MongoDB, c.Redis, c.NewsModule.Usecase, c.EventBus, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create reports module: %w", err)
	}
	c.ReportsModule = module
	return nil
}

// Start launches the background workers of all initialized modules.
func (c *Container) Start(ctx context.Context) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.NewsModule != nil {
		c.NewsModule.Start(ctx)
	}
}

// HealthCheck pings the shared connections.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoDB != nil {
		if err := c.MongoDB.Client().Ping(ctx, nil); err != nil {
			return fmt.Errorf("mongodb health check failed: %w", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}
	return nil
}

// Cleanup shuts modules down in reverse initialization order and closes
// the shared connections.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.NewsModule != nil {
		c.NewsModule.Stop()
		c.NewsModule = nil
	}
	c.ReportsModule = nil
	c.AuthModule = nil

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
		c.Redis = nil
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
