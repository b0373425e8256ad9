package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"sjsage522/invoicerobot/config"
	"sjsage522/invoicerobot/helpers"
	"sjsage522/invoicerobot/internal"
	"sjsage522/invoicerobot/internal/browser"
	"sjsage522/invoicerobot/internal/crawler"
	"sjsage522/invoicerobot/logger"
	"sjsage522/invoicerobot/services/cache"
	"sjsage522/invoicerobot/services/fetcher"
	"sjsage522/invoicerobot/services/publisher"
	"sjsage522/invoicerobot/services/worker"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load environment variables
	godotenv.Load()

	cfg := config.LoadConfig()
	now := time.Now()

	closeLog, err := logger.InitWithFile(helpers.LogFileName(cfg.LogsDir, now))
	if err != nil {
		logger.Init()
		logger.Default.Warn().Err(err).Msg("Failed to open log file, logging to console only")
	} else {
		defer closeLog()
	}
	log := logger.Default

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		fmt.Println(worker.FailureMessage)
		return 1
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("target", cfg.TargetURL).
		Str("base_dir", cfg.BaseDir).
		Msg("Starting application")

	ctx := context.Background()

	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize services")
		fmt.Println(worker.FailureMessage)
		return 1
	}
	defer services.Cleanup()

	w := worker.NewWorker(internal.Dependencies{
		FS: services.FS,
		OpenSession: crawler.NewSessionFactory(
			browser.Options{Headless: cfg.Headless, Bin: cfg.BrowserBin},
			crawler.PageConfig{
				Selectors:   crawler.DefaultSelectors,
				ElementWait: cfg.ElementWait,
				NextWait:    cfg.NextWait,
			},
		),
		Fetcher:   services.Fetcher,
		Publisher: services.Publisher,
		Cache:     services.Cache,
		LockTTL:   cfg.RunLockTTL,
		Logger:    logger.ForWorker(),
		Now:       time.Now,
	}, worker.Options{
		TargetURL:      cfg.TargetURL,
		ResultsDir:     cfg.ResultsDir,
		ImagesDir:      cfg.ImagesDir(helpers.RunStamp(now)),
		ErrorImagesDir: cfg.ErrorImagesDir,
		Columns:        config.LedgerColumns,
	})

	report := w.Run(ctx)
	fmt.Println(report.StatusLine())
	return report.ExitCode()
}

// Services holds all the initialized services
type Services struct {
	FS        afero.Fs
	Fetcher   fetcher.Fetcher
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
}

// initializeServices wires the filesystem, the asset fetcher and the optional
// Memcache run lock and Redis report stream
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{
		FS:        afero.NewOsFs(),
		Publisher: publisher.NopPublisher{},
	}

	f, err := fetcher.NewHTTPFetcher(services.FS, cfg.HTTPTimeout)
	if err != nil {
		return nil, err
	}
	services.Fetcher = f

	if cfg.MemcacheAddr != "" {
		memcache := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := memcache.Ping(); err != nil {
			return nil, fmt.Errorf("failed to reach memcache at %s: %w", cfg.MemcacheAddr, err)
		}
		services.Cache = memcache
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamMaxLength,
		)
		if err := redisPublisher.Ping(); err != nil {
			redisPublisher.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		services.Publisher = redisPublisher
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	return services, nil
}
