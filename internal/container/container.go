package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"catalog/harvester/internal/client"
	"catalog/harvester/internal/config"
	"catalog/harvester/internal/extractor"
	"catalog/harvester/internal/metrics"
	"catalog/harvester/internal/proxy"
	"catalog/harvester/internal/queue"
	"catalog/harvester/internal/repository"
	"catalog/harvester/internal/service"
	"catalog/harvester/internal/state"
	"catalog/harvester/internal/storage"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Client       client.CatalogClient
	Repository   repository.ProductRepository
	Queue        queue.Queue
	StateManager state.StateManager

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized. Postgres and
// Redis are only connected when enabled.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config:       cfg,
		Queue:        queue.NewNoopQueue(),
		StateManager: state.NewNoopStateManager(),
	}

	proxySupplier, err := proxy.NewProxySupplier(ctx, cfg.Catalog.Proxies, cfg.Catalog.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize proxy supplier: %w", err)
	}
	container.Client = client.NewCatalogClient(cfg.Catalog, proxySupplier)

	fileRepo, err := repository.NewFileRepository(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	repos := []repository.ProductRepository{fileRepo}

	if cfg.Database.Enabled {
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		container.db = db

		if err := repository.EnsureSchema(ctx, db, cfg.Database.Table); err != nil {
			container.Close()
			return nil, err
		}
		repos = append(repos, repository.NewPostgresRepository(db, cfg.Database.Table))
		log.Info("✅ Connected to Postgres successfully")
	}
	container.Repository = repository.NewMultiRepository(repos...)

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		container.redis = rdb

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.Queue = queue.NewRedisQueue(rdb, cfg.Redis.StreamPrefix, cfg.Redis.StreamMaxLen)
		container.StateManager = state.NewRedisStateManager(rdb)
	}

	store, err := storage.NewAssetStore(cfg.Output.AssetsDir)
	if err != nil {
		container.Close()
		return nil, err
	}

	container.Service = service.NewService(
		container.Client,
		extractor.New(),
		store,
		container.Repository,
		container.Queue,
		container.StateManager,
		service.Options{
			MaxProducts: cfg.Harvest.MaxProducts,
			PageSize:    cfg.Harvest.PageSize,
			Retries:     cfg.Harvest.Retries,
			Backoff:     cfg.Harvest.Backoff,
			Concurrency: cfg.Harvest.Concurrency,
		},
	)

	return container, nil
}

// Run executes one harvest. The metrics listener, when configured, lives for the
// duration of the run.
func (c *Container) Run(ctx context.Context) (*state.RunSummary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if c.Config.Metrics.Addr != "" {
		g.Go(func() error {
			return metrics.Serve(ctx, c.Config.Metrics.Addr)
		})
	}

	var summary *state.RunSummary
	g.Go(func() error {
		defer cancel()

		var err error
		summary, err = c.Service.Run(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("⚠️ Failed to close Redis client: %v", err)
		}
	}

	log.Info("Container shut down successfully")
}
