package cache

import (
	"github.com/courseforge/monetize/internal/config"
	"github.com/courseforge/monetize/internal/logger"
)

// Initialize initializes the cache system
func Initialize(cfg *config.Configuration, log *logger.Logger) *InMemoryCache {
	log.Info("Initializing cache system")

	globalCache = NewInMemoryCache(cfg.Cache.Enabled)

	log.Info("Cache system initialized")

	return globalCache
}
