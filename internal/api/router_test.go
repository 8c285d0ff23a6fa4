package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/draft-sim/internal/models"
	"github.com/stitts-dev/draft-sim/internal/services"
	"github.com/stitts-dev/draft-sim/pkg/config"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

// leagueSource serves a deterministic pool large enough for a ten team draft
type leagueSource struct {
	fail atomic.Value // holds sourceFailure so successive Stores share one concrete type
}

type sourceFailure struct{ err error }

func (s *leagueSource) Name() string { return "league" }

func (s *leagueSource) Load(ctx context.Context) ([]models.PlayerRecord, error) {
	if f, ok := s.fail.Load().(sourceFailure); ok && f.err != nil {
		return nil, f.err
	}

	groups := []struct {
		pos   models.Position
		count int
	}{
		{models.PositionQB, 15},
		{models.PositionRB, 35},
		{models.PositionWR, 45},
		{models.PositionTE, 15},
	}
	var records []models.PlayerRecord
	for gi, g := range groups {
		for i := 0; i < g.count; i++ {
			records = append(records, models.PlayerRecord{
				Name:          fmt.Sprintf("%s%02d", g.pos, i+1),
				Position:      g.pos,
				ADP:           11 + i*3 + gi,
				RelativeValue: 100 - float64(i)*2.5 - float64(gi),
				FantasyPoints: 300 - float64(i)*6 - float64(gi)*2,
			})
		}
	}
	return records, nil
}

type testServer struct {
	router *gin.Engine
	source *leagueSource
	pools  *services.PoolService
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadConfig(nil)
	require.NoError(t, err)
	cfg.Trials = 40
	cfg.MaxTrials = 500
	cfg.Workers = 2
	cfg.SimulationRateLimit = 0
	if mutate != nil {
		mutate(cfg)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	source := &leagueSource{}
	pools := services.NewPoolService(source, nil, log, 0)

	return &testServer{
		router: NewRouter(cfg, pools, nil, nil, log),
		source: source,
		pools:  pools,
	}
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *utils.AppError `json:"error"`
	Meta    *utils.Meta     `json:"meta"`
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

type simulationData struct {
	Trials     int `json:"trials"`
	Completed  int `json:"completed"`
	Dropped    int `json:"dropped"`
	Randomness int `json:"randomness"`
	Players    []struct {
		Name       string  `json:"name"`
		Position   string  `json:"position"`
		Count      int     `json:"count"`
		Percentage float64 `json:"percentage"`
	} `json:"players"`
}

func TestRunSimulation_Defaults(t *testing.T) {
	srv := newTestServer(t, nil)

	code, resp := srv.do(t, http.MethodPost, "/api/v1/simulations", "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)

	var data simulationData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, 40, data.Trials)
	assert.Equal(t, 40, data.Completed)
	assert.Equal(t, 5, data.Randomness)
	assert.LessOrEqual(t, len(data.Players), 20)
	assert.Equal(t, 20, resp.Meta.TopK)

	for i := 1; i < len(data.Players); i++ {
		assert.GreaterOrEqual(t, data.Players[i-1].Percentage, data.Players[i].Percentage)
	}
}

func TestRunSimulation_Overrides(t *testing.T) {
	srv := newTestServer(t, nil)

	code, resp := srv.do(t, http.MethodPost, "/api/v1/simulations",
		`{"trials": 25, "teams": 8, "hero_seat": 1, "randomness": 0, "top_k": 3}`)
	require.Equal(t, http.StatusOK, code, resp.Error)

	var data simulationData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, 25, data.Trials)
	assert.Equal(t, 0, data.Randomness)
	assert.LessOrEqual(t, len(data.Players), 3)
}

func TestRunSimulation_Rejects(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"trials":`},
		{name: "negative trials", body: `{"trials": -1}`},
		{name: "over max trials", body: `{"trials": 501}`},
		{name: "hero seat outside league", body: `{"teams": 4, "hero_seat": 5}`},
		{name: "negative randomness", body: `{"randomness": -2}`},
		{name: "unknown roster slot", body: `{"roster": {"K": 1}}`},
		{name: "league larger than pool", body: `{"teams": 20, "hero_seat": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := srv.do(t, http.MethodPost, "/api/v1/simulations", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, utils.ErrCodeValidation, resp.Error.Code)
		})
	}
}

func TestRunSimulation_PoolUnavailable(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.source.fail.Store(sourceFailure{err: errors.New("source offline")})

	code, resp := srv.do(t, http.MethodPost, "/api/v1/simulations", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, utils.ErrCodePoolUnavailable, resp.Error.Code)
}

func TestRunSimulation_RateLimited(t *testing.T) {
	srv := newTestServer(t, func(c *config.Config) {
		c.SimulationRateLimit = 1
		c.Trials = 10
	})

	code, _ := srv.do(t, http.MethodPost, "/api/v1/simulations", "")
	assert.Equal(t, http.StatusOK, code)

	code, resp := srv.do(t, http.MethodPost, "/api/v1/simulations", "")
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, utils.ErrCodeRateLimited, resp.Error.Code)
}

func TestGetPlayers(t *testing.T) {
	srv := newTestServer(t, nil)

	code, resp := srv.do(t, http.MethodGet, "/api/v1/players", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 110, resp.Meta.Total)

	code, resp = srv.do(t, http.MethodGet, "/api/v1/players?position=qb", "")
	require.Equal(t, http.StatusOK, code)

	var players []models.PlayerRecord
	require.NoError(t, json.Unmarshal(resp.Data, &players))
	assert.Len(t, players, 15)
	for _, p := range players {
		assert.Equal(t, models.PositionQB, p.Position)
	}
}

func TestRefreshPlayers(t *testing.T) {
	srv := newTestServer(t, nil)

	code, resp := srv.do(t, http.MethodPost, "/api/v1/players/refresh", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"source": "league", "players": 110}`, string(resp.Data))

	srv.source.fail.Store(sourceFailure{err: fmt.Errorf("%w: duplicate player", utils.ErrInvalidInput)})
	code, resp = srv.do(t, http.MethodPost, "/api/v1/players/refresh", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, utils.ErrCodeData, resp.Error.Code)

	srv.source.fail.Store(sourceFailure{err: errors.New("connection refused")})
	code, resp = srv.do(t, http.MethodPost, "/api/v1/players/refresh", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, utils.ErrCodePoolUnavailable, resp.Error.Code)
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_loaded")

	_, err := srv.pools.Current(context.Background())
	require.NoError(t, err)

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)
}
