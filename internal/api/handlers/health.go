package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/draft-sim/internal/cache"
	"github.com/stitts-dev/draft-sim/internal/services"
	"github.com/stitts-dev/draft-sim/pkg/database"
)

type HealthHandler struct {
	pools *services.PoolService
	db    *database.DB
	cache *cache.PoolCache
}

// NewHealthHandler takes optional db and cache; nil means not configured
func NewHealthHandler(pools *services.PoolService, db *database.DB, poolCache *cache.PoolCache) *HealthHandler {
	return &HealthHandler{
		pools: pools,
		db:    db,
		cache: poolCache,
	}
}

// GetHealth returns 200 whenever the server is running
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "draftsim",
	})
}

// GetReady returns 200 once a player pool is loaded and its backing stores answer
func (h *HealthHandler) GetReady(c *gin.Context) {
	checks := gin.H{}
	ready := true

	loaded, loadedAt := h.pools.Loaded()
	if loaded {
		checks["pool"] = gin.H{"status": "ok", "loaded_at": loadedAt.UTC().Format(time.RFC3339)}
	} else {
		checks["pool"] = gin.H{"status": "not_loaded"}
		ready = false
	}

	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			checks["database"] = gin.H{"status": "error", "error": err.Error()}
			ready = false
		} else {
			checks["database"] = gin.H{"status": "ok"}
		}
	}

	// a failing cache degrades readiness but never blocks it
	if h.cache.Enabled() {
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			checks["cache"] = gin.H{"status": "degraded", "breaker": h.cache.State().String(), "error": err.Error()}
		} else {
			checks["cache"] = gin.H{"status": "ok", "breaker": h.cache.State().String()}
		}
	}

	status := http.StatusOK
	label := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		label = "not_ready"
	}
	c.JSON(status, gin.H{
		"status": label,
		"checks": checks,
	})
}
