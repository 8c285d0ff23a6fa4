package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/draft-sim/internal/models"
	"github.com/stitts-dev/draft-sim/internal/services"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

type PlayerHandler struct {
	pools  *services.PoolService
	logger *logrus.Logger
}

func NewPlayerHandler(pools *services.PoolService, logger *logrus.Logger) *PlayerHandler {
	return &PlayerHandler{
		pools:  pools,
		logger: logger,
	}
}

// GetPlayers lists the current pool in value order, optionally filtered by ?position=
func (h *PlayerHandler) GetPlayers(c *gin.Context) {
	pool, err := h.pools.Current(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Player pool unavailable")
		utils.SendServiceUnavailable(c, utils.ErrCodePoolUnavailable, "Player pool is not available")
		return
	}

	players := pool.Players()
	if pos := strings.ToUpper(strings.TrimSpace(c.Query("position"))); pos != "" {
		filtered := make([]models.PlayerRecord, 0, len(players))
		for _, p := range players {
			if string(p.Position) == pos {
				filtered = append(filtered, p)
			}
		}
		players = filtered
	}

	utils.SendSuccessWithMeta(c, players, &utils.Meta{Total: len(players)})
}

// RefreshPlayers reloads the pool from its source
func (h *PlayerHandler) RefreshPlayers(c *gin.Context) {
	pool, err := h.pools.Refresh(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Player pool refresh failed")
		if services.IsPoolError(err) {
			utils.SendFailure(c, "Player data is invalid", err)
			return
		}
		utils.SendServiceUnavailable(c, utils.ErrCodePoolUnavailable, "Player source is not available")
		return
	}

	utils.SendSuccess(c, gin.H{
		"source":  h.pools.SourceName(),
		"players": pool.Len(),
	})
}
