package app

import (
	"context"
	"fmt"

	"github.com/haneul/card-quest-go/internal/adapter"
	"github.com/haneul/card-quest-go/internal/config"
	"github.com/haneul/card-quest-go/internal/gateway"
	"github.com/haneul/card-quest-go/internal/service/cache"
	"github.com/haneul/card-quest-go/internal/service/database"
	"github.com/haneul/card-quest-go/internal/service/generator"
	"github.com/haneul/card-quest-go/internal/service/history"
	"github.com/haneul/card-quest-go/internal/service/quest"
	"github.com/haneul/card-quest-go/internal/service/synthetic"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing the runtime
// gateway.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Gateway *gateway.Gateway

	closers []func()
}

// Close tears down infrastructure in reverse construction order.
func (c *Container) Close() {
	if c == nil {
		return
	}
	c.Gateway.Close()
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services. All heavy-weight
// initialization (cache/database/HTTP clients) happens here so the
// quest orchestrator stays focused on acquisition logic.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Cache
	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	// Generator backend
	generatorSvc, err := generator.NewService(cfg.Generator.BaseURL, cfg.Generator.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator client: %w", err)
	}

	// Synthetic fallback, optionally enriched with scraped avatars
	var syntheticSvc quest.SyntheticSource
	if cfg.Fallback.EnableSynthetic {
		var scraper *synthetic.AvatarScraper
		if cfg.Fallback.EnableScraper {
			scraper = synthetic.NewAvatarScraper(cacheSvc, logger)
		}
		syntheticSvc = synthetic.NewService(scraper, logger)
		logger.Info("Synthetic fallback enabled",
			zap.Bool("avatar_scraper", cfg.Fallback.EnableScraper),
		)
	}

	// Attempt history (optional)
	var historySvc quest.HistoryRecorder
	if cfg.Postgres.EnableHistory {
		postgresSvc, pgErr := database.NewPostgresService(database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, logger)
		if pgErr != nil {
			return nil, fmt.Errorf("failed to create postgres service: %w", pgErr)
		}
		closers = append(closers, func() {
			_ = postgresSvc.Close()
		})

		repo, repoErr := history.NewRepository(ctx, postgresSvc, logger)
		if repoErr != nil {
			return nil, fmt.Errorf("failed to create history repository: %w", repoErr)
		}
		historySvc = repo
	}

	questSvc := quest.NewService(generatorSvc, cacheSvc, syntheticSvc, historySvc, logger)
	formatter := adapter.NewResponseFormatter()
	gw := gateway.New(questSvc, formatter, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Gateway: gw,
		closers: closers,
	}, nil
}
