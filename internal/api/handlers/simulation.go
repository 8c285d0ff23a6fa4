package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/draft-sim/internal/draft"
	"github.com/stitts-dev/draft-sim/internal/models"
	"github.com/stitts-dev/draft-sim/internal/report"
	"github.com/stitts-dev/draft-sim/internal/services"
	"github.com/stitts-dev/draft-sim/internal/simulator"
	"github.com/stitts-dev/draft-sim/pkg/config"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

type SimulationHandler struct {
	pools  *services.PoolService
	cfg    *config.Config
	logger *logrus.Logger
}

func NewSimulationHandler(pools *services.PoolService, cfg *config.Config, logger *logrus.Logger) *SimulationHandler {
	return &SimulationHandler{
		pools:  pools,
		cfg:    cfg,
		logger: logger,
	}
}

// SimulationRequest overrides the configured league; zero fields keep the defaults
type SimulationRequest struct {
	Trials     int                     `json:"trials" binding:"omitempty,min=1"`
	Teams      int                     `json:"teams" binding:"omitempty,min=1"`
	HeroSeat   int                     `json:"hero_seat" binding:"omitempty,min=1"`
	Randomness *int                    `json:"randomness" binding:"omitempty,min=0"`
	TopK       int                     `json:"top_k" binding:"omitempty,min=1"`
	Roster     map[models.Position]int `json:"roster"`
}

// simulationPlan is a validated request ready to run
type simulationPlan struct {
	runner     *simulator.Runner
	trials     int
	topK       int
	randomness int
}

// planError carries the HTTP status for a request that cannot run
type planError struct {
	status int
	err    *utils.AppError
}

func (h *SimulationHandler) engineConfig(req SimulationRequest) draft.EngineConfig {
	cfg := h.cfg.EngineConfig()
	if req.Teams > 0 {
		cfg.Teams = req.Teams
	}
	if req.HeroSeat > 0 {
		cfg.HeroSeat = req.HeroSeat
	}
	if req.Randomness != nil {
		cfg.Randomness = *req.Randomness
	}
	if len(req.Roster) > 0 {
		cfg.Roster = draft.RosterShape(req.Roster)
	}
	return cfg
}

func (h *SimulationHandler) plan(ctx context.Context, req SimulationRequest) (*simulationPlan, *planError) {
	trials := req.Trials
	if trials == 0 {
		trials = h.cfg.Trials
	}
	if h.cfg.MaxTrials > 0 && trials > h.cfg.MaxTrials {
		return nil, &planError{http.StatusBadRequest, utils.NewAppError(utils.ErrCodeValidation,
			"Too many trials", fmt.Sprintf("maximum is %d", h.cfg.MaxTrials))}
	}
	topK := req.TopK
	if topK == 0 {
		topK = h.cfg.TopK
	}

	engineConfig := h.engineConfig(req)
	engine, err := draft.NewEngine(engineConfig, nil)
	if err != nil {
		return nil, &planError{http.StatusBadRequest, utils.NewAppError(utils.ErrCodeValidation,
			"Invalid league configuration", err.Error())}
	}

	pool, err := h.pools.Current(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Player pool unavailable")
		return nil, &planError{http.StatusServiceUnavailable, utils.NewAppError(utils.ErrCodePoolUnavailable,
			"Player pool is not available")}
	}

	return &simulationPlan{
		runner:     simulator.NewRunner(engine, pool, h.cfg.Workers, h.logger),
		trials:     trials,
		topK:       topK,
		randomness: engineConfig.Randomness,
	}, nil
}

// runError maps a failed batch to a response
func (h *SimulationHandler) runError(err error) *planError {
	status, code := utils.StatusFor(err)
	message := "Simulation failed"
	if status < http.StatusInternalServerError {
		message = "Simulation cannot run"
	} else {
		h.logger.WithError(err).Error("Simulation failed")
	}
	return &planError{status, utils.NewAppError(code, message, err.Error())}
}

// RunSimulation runs a batch synchronously and returns the ranked report
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req SimulationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, "Invalid request body", err.Error())
			return
		}
	}

	plan, perr := h.plan(c.Request.Context(), req)
	if perr != nil {
		utils.SendError(c, perr.status, perr.err)
		return
	}

	summary, err := plan.runner.Run(c.Request.Context(), plan.trials, nil)
	if err != nil {
		perr := h.runError(err)
		utils.SendError(c, perr.status, perr.err)
		return
	}

	rep := report.New(summary, plan.randomness, plan.topK)
	utils.SendSuccessWithMeta(c, rep, &utils.Meta{Total: len(summary.Counts), TopK: plan.topK})
}
