package internal

import (
	"time"

	"sjsage522/invoicerobot/internal/crawler"
	"sjsage522/invoicerobot/logger"
	"sjsage522/invoicerobot/services/cache"
	"sjsage522/invoicerobot/services/fetcher"
	"sjsage522/invoicerobot/services/publisher"

	"github.com/spf13/afero"
)

// Dependencies holds all service dependencies of a robot run
type Dependencies struct {
	FS          afero.Fs
	OpenSession crawler.SessionFactory
	Fetcher     fetcher.Fetcher

	// Optional
	Publisher publisher.Publisher
	Cache     cache.CacheService
	LockTTL   time.Duration
	Logger    *logger.Logger
	Now       func() time.Time
}
