package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/draft-sim/internal/models"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

func TestSnakeOrder(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4}, SnakeOrder(0, 4))
	assert.Equal(t, []int{4, 3, 2, 1}, SnakeOrder(1, 4))
	assert.Equal(t, []int{1, 2, 3, 4}, SnakeOrder(2, 4))
}

func TestNewEngine_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{name: "no teams", mutate: func(c *EngineConfig) { c.Teams = 0 }},
		{name: "hero seat zero", mutate: func(c *EngineConfig) { c.HeroSeat = 0 }},
		{name: "hero seat past last team", mutate: func(c *EngineConfig) { c.HeroSeat = 11 }},
		{name: "negative randomness", mutate: func(c *EngineConfig) { c.Randomness = -1 }},
		{name: "empty roster", mutate: func(c *EngineConfig) { c.Roster = RosterShape{} }},
		{name: "unknown slot", mutate: func(c *EngineConfig) { c.Roster = RosterShape{"K": 1} }},
		{name: "negative slot", mutate: func(c *EngineConfig) { c.Roster[models.PositionWR] = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultEngineConfig()
			tt.mutate(&cfg)

			_, err := NewEngine(cfg, nil)
			assert.ErrorIs(t, err, utils.ErrInvalidConfig)
		})
	}
}

func TestEngine_RunTrial(t *testing.T) {
	engine, err := NewEngine(DefaultEngineConfig(), nil)
	require.NoError(t, err)
	require.Equal(t, 8, engine.Rounds())

	pool := leaguePool(t)
	result, err := engine.RunTrial(pool)
	require.NoError(t, err)

	drafted := 0
	seen := make(map[string]bool)
	for _, team := range result.Teams {
		assert.Len(t, team.Players, engine.Rounds(), "seat %d", team.Seat)
		drafted += len(team.Players)
		for _, p := range team.Players {
			assert.False(t, seen[p.Name], "%s drafted twice", p.Name)
			seen[p.Name] = true
		}
	}
	assert.Equal(t, 10*8, drafted)
	assert.Len(t, result.Picks, 80)
	assert.Equal(t, 10, result.Hero.Seat)
	assert.Same(t, result.Teams[9], result.Hero)
	assert.Equal(t, Qualifies(result.Teams, result.Hero), result.Qualifies)

	assert.Equal(t, 110, pool.Len(), "shared pool must not be modified by a trial")
}

func TestEngine_RunTrialFollowsSnakeOrder(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.Teams = 4
	cfg.HeroSeat = 2
	engine, err := NewEngine(cfg, fixedJitter(0))
	require.NoError(t, err)

	result, err := engine.RunTrial(leaguePool(t))
	require.NoError(t, err)

	for i, pick := range result.Picks {
		round := i / 4
		assert.Equal(t, round+1, pick.Round)
		assert.Equal(t, SnakeOrder(round, 4)[i%4], pick.Seat)
	}
}

func TestEngine_DeterministicWithFixedJitter(t *testing.T) {
	engine, err := NewEngine(DefaultEngineConfig(), fixedJitter(0))
	require.NoError(t, err)
	pool := leaguePool(t)

	first, err := engine.RunTrial(pool)
	require.NoError(t, err)
	second, err := engine.RunTrial(pool)
	require.NoError(t, err)

	assert.Equal(t, first.Picks, second.Picks)
}

func TestEngine_HeroFillsPositionSlots(t *testing.T) {
	engine, err := NewEngine(DefaultEngineConfig(), nil)
	require.NoError(t, err)

	result, err := engine.RunTrial(leaguePool(t))
	require.NoError(t, err)

	// FLEX may stay open: once RB/WR/TE are full the hero takes the best player left
	for _, pos := range models.PlayerPositions {
		assert.Zero(t, result.Hero.Needs[pos], "hero left %s open", pos)
	}
}

func TestEngine_PoolTooSmall(t *testing.T) {
	engine, err := NewEngine(DefaultEngineConfig(), nil)
	require.NoError(t, err)

	pool, err := NewPlayerPool(leagueRecords()[:40])
	require.NoError(t, err)

	_, err = engine.RunTrial(pool)
	assert.ErrorIs(t, err, utils.ErrPoolExhausted)
}

func teamWithTotals(seat int, value, points float64) *TeamState {
	team := NewTeamState(seat, DefaultRoster())
	team.TotalValue = value
	team.TotalPoints = points
	return team
}

func TestQualifies(t *testing.T) {
	tests := []struct {
		name     string
		hero     *TeamState
		others   []*TeamState
		expected bool
	}{
		{
			name:     "hero leads both",
			hero:     teamWithTotals(10, 90, 900),
			others:   []*TeamState{teamWithTotals(1, 80, 800), teamWithTotals(2, 85, 850)},
			expected: true,
		},
		{
			name:     "ties on both axes qualify",
			hero:     teamWithTotals(10, 90, 900),
			others:   []*TeamState{teamWithTotals(1, 90, 900)},
			expected: true,
		},
		{
			name:     "value tie but points short",
			hero:     teamWithTotals(10, 90, 880),
			others:   []*TeamState{teamWithTotals(1, 90, 900)},
			expected: false,
		},
		{
			name:     "leaders split across teams",
			hero:     teamWithTotals(10, 95, 880),
			others:   []*TeamState{teamWithTotals(1, 90, 900)},
			expected: false,
		},
		{
			name:     "points lead but value short",
			hero:     teamWithTotals(10, 85, 950),
			others:   []*TeamState{teamWithTotals(1, 90, 900)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teams := append([]*TeamState{}, tt.others...)
			teams = append(teams, tt.hero)
			assert.Equal(t, tt.expected, Qualifies(teams, tt.hero))
		})
	}
}

func TestNewPlayerPool(t *testing.T) {
	pool, err := NewPlayerPool([]models.PlayerRecord{
		player("Low", models.PositionWR, 30, 5, 50),
		player("TieLowPts", models.PositionRB, 20, 10, 90),
		player("TieHighPts", models.PositionRB, 25, 10, 110),
	})
	require.NoError(t, err)

	names := []string{}
	for _, p := range pool.Players() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"TieHighPts", "TieLowPts", "Low"}, names)

	p, ok := pool.Lookup("Low")
	assert.True(t, ok)
	assert.Equal(t, models.PositionWR, p.Position)

	_, err = NewPlayerPool([]models.PlayerRecord{
		player("Dup", models.PositionWR, 30, 5, 50),
		player("Dup", models.PositionRB, 20, 10, 90),
	})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = NewPlayerPool(nil)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}
