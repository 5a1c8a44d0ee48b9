package di

import (
	"context"
	"time"

	"gorm.io/gorm"

	"agenda-api/application/serviceimpl"
	"agenda-api/domain/repositories"
	"agenda-api/domain/services"
	"agenda-api/infrastructure/postgres"
	"agenda-api/infrastructure/redis"
	"agenda-api/pkg/config"
	"agenda-api/pkg/logger"
	"agenda-api/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redis.RedisClient
	PersonaCache   *redis.PersonaCache
	EventScheduler scheduler.EventScheduler

	// Repositories
	PersonaRepository repositories.PersonaRepository

	// Services
	PersonaService services.PersonaService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Startup("config_loaded", "Configuration loaded", nil)
	return nil
}

func (c *Container) initInfrastructure() error {
	// Initialize Database
	dbConfig := postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Startup("db_connected", "Database connected", nil)

	// Run migrations
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Startup("db_migrated", "Database migrated", nil)

	// Initialize Redis; the view cache is optional, so a failed connection
	// only degrades
	if c.Config.Redis.Enabled {
		redisConfig := redis.RedisConfig{
			Host:     c.Config.Redis.Host,
			Port:     c.Config.Redis.Port,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		}
		c.RedisClient = redis.NewRedisClient(redisConfig)

		if err := c.RedisClient.Ping(context.Background()); err != nil {
			logger.StartupWarn("redis_connection_failed", "Redis connection failed, persona cache disabled", map[string]interface{}{"error": err.Error()})
		} else {
			c.PersonaCache = redis.NewPersonaCache(c.RedisClient, time.Duration(c.Config.Redis.TTL)*time.Second)
			logger.Startup("redis_connected", "Redis connected", nil)
		}
	} else {
		logger.Startup("redis_disabled", "Redis disabled, persona cache off", nil)
	}

	return nil
}

func (c *Container) initRepositories() error {
	c.PersonaRepository = postgres.NewPersonaRepository(c.DB)
	logger.Startup("repositories_initialized", "Repositories initialized", nil)
	return nil
}

func (c *Container) initServices() error {
	c.PersonaService = serviceimpl.NewPersonaService(c.PersonaRepository, c.PersonaCache)
	logger.Startup("services_initialized", "Services initialized", nil)
	return nil
}

func (c *Container) initScheduler() error {
	if !c.Config.Sweep.Enabled {
		logger.Startup("sweep_disabled", "Friendship sweep disabled", nil)
		return nil
	}

	c.EventScheduler = scheduler.NewEventScheduler()
	c.EventScheduler.Start()

	// The delete cascade is best-effort; the sweep repairs any friendship
	// rows it left dangling.
	err := c.EventScheduler.AddJob("friendship-sweep", c.Config.Sweep.Cron, func() {
		ctx := context.Background()
		removed, err := c.PersonaService.SweepFriendships(ctx)
		if err != nil {
			logger.SchedulerError("friendship_sweep_failed", "Friendship sweep failed", err, nil)
			return
		}
		if removed > 0 {
			logger.Scheduler("friendship_sweep_done", "Friendship sweep completed", map[string]interface{}{"removed": removed})
		}
	})
	if err != nil {
		logger.StartupWarn("sweep_schedule_failed", "Failed to schedule friendship sweep", map[string]interface{}{"error": err.Error()})
		return nil
	}

	logger.Startup("sweep_scheduled", "Friendship sweep scheduled", map[string]interface{}{"cron": c.Config.Sweep.Cron})
	return nil
}

func (c *Container) Cleanup() error {
	logger.Startup("cleanup_started", "Starting cleanup...", nil)

	// Stop scheduler
	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
	}

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.StartupWarn("redis_close_failed", "Failed to close Redis connection", map[string]interface{}{"error": err.Error()})
		} else {
			logger.Startup("redis_closed", "Redis connection closed", nil)
		}
	}

	// Close database connection
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.StartupWarn("db_close_failed", "Failed to close database connection", map[string]interface{}{"error": err.Error()})
			} else {
				logger.Startup("db_closed", "Database connection closed", nil)
			}
		}
	}

	logger.Startup("cleanup_completed", "Cleanup completed", nil)
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}
