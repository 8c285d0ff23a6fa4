package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/draft-sim/internal/api/handlers"
	"github.com/stitts-dev/draft-sim/internal/api/middleware"
	"github.com/stitts-dev/draft-sim/internal/cache"
	"github.com/stitts-dev/draft-sim/internal/services"
	"github.com/stitts-dev/draft-sim/pkg/config"
	"github.com/stitts-dev/draft-sim/pkg/database"
)

// NewRouter builds the HTTP surface. db and poolCache may be nil.
func NewRouter(cfg *config.Config, pools *services.PoolService, db *database.DB, poolCache *cache.PoolCache, logger *logrus.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	healthHandler := handlers.NewHealthHandler(pools, db, poolCache)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	SetupRoutes(router.Group("/api/v1"), cfg, pools, logger)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, cfg *config.Config, pools *services.PoolService, logger *logrus.Logger) {
	simulationHandler := handlers.NewSimulationHandler(pools, cfg, logger)
	playerHandler := handlers.NewPlayerHandler(pools, logger)

	limiter := middleware.NewClientRateLimiter(cfg.SimulationRateLimit)

	// Simulation endpoints
	group.POST("/simulations", middleware.RateLimit(limiter), simulationHandler.RunSimulation)
	group.GET("/simulations/stream", middleware.RateLimit(limiter), simulationHandler.StreamSimulation)

	// Player pool endpoints
	group.GET("/players", playerHandler.GetPlayers)
	group.POST("/players/refresh", middleware.RateLimit(limiter), playerHandler.RefreshPlayers)
}
