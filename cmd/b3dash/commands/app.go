package commands

import (
	"context"
	"fmt"

	"github.com/wonny/b3dash/internal/export"
	"github.com/wonny/b3dash/internal/external/yahoo"
	"github.com/wonny/b3dash/internal/store"
	"github.com/wonny/b3dash/internal/tickers"
	"github.com/wonny/b3dash/pkg/config"
	"github.com/wonny/b3dash/pkg/database"
	"github.com/wonny/b3dash/pkg/httputil"
	"github.com/wonny/b3dash/pkg/logger"
	"github.com/wonny/b3dash/pkg/metrics"
	"github.com/wonny/b3dash/pkg/redis"
)

// app holds the wired dependencies shared by every command
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	metrics  *metrics.Recorder
	redis    *redis.Client
	yahoo    *yahoo.Client
	provider *yahoo.CachedProvider
	lists    tickers.Lists
	tickers  *tickers.Service
}

// newApp loads config and wires clients, cache and ticker service
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	var rec *metrics.Recorder
	if cfg.MetricsEnabled {
		rec = metrics.New()
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	httpClient := httputil.New(cfg, log)
	if redisClient.Enabled() {
		httpClient.WithRateLimiter(redis.NewRateLimiter(redisClient, "b3dash"), redis.YahooRateLimit)
	}

	yahooClient := yahoo.NewClient(httpClient, cfg.Yahoo, log)

	lists, err := tickers.LoadLists(cfg.Selector.ListsFile)
	if err != nil {
		redisClient.Close()
		return nil, err
	}

	validator := tickers.NewValidator(yahooClient, cfg.Selector, log, rec)
	selector := tickers.NewSelector(yahooClient, validator, lists, cfg.Selector.MaxTickers, tickers.SystemClock{}, log, rec)
	cache := tickers.NewCache(cfg.TickerCachePath(), cfg.Selector.FreshnessWindow, tickers.SystemClock{}, log, rec)
	service := tickers.NewService(selector, cache, log,
		tickers.WithCacheEmpty(cfg.Selector.CacheEmpty),
		tickers.WithDefaults(lists.Fallback),
	)

	return &app{
		cfg:      cfg,
		log:      log,
		metrics:  rec,
		redis:    redisClient,
		yahoo:    yahooClient,
		provider: yahoo.NewCachedProvider(yahooClient, redis.NewCache(redisClient, "b3dash")),
		lists:    lists,
		tickers:  service,
	}, nil
}

// newExporter builds the history exporter; withDB also upserts into PostgreSQL
// and returns the repository (nil otherwise)
func (a *app) newExporter(ctx context.Context, withDB bool, opts ...export.Option) (*export.Exporter, *store.PriceRepository, func(), error) {
	cleanup := func() {}
	var repo *store.PriceRepository

	if withDB {
		db, err := database.New(ctx, a.cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		repo = store.NewPriceRepository(db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		opts = append(opts, export.WithSaver(repo))
		cleanup = db.Close
		a.log.Info("Connected to database")
	}

	return export.NewExporter(a.provider, a.cfg.DataDir, a.log, opts...), repo, cleanup, nil
}

// Close releases the Redis connection
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
}
