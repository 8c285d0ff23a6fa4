package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/draft-sim/internal/models"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

func quarterbacks() []models.PlayerRecord {
	// value-sorted, as the engine hands them over
	return []models.PlayerRecord{
		player("B", models.PositionQB, 12, 15, 150),
		player("A", models.PositionQB, 5, 10, 100),
		player("C", models.PositionQB, 201, 8, 80),
	}
}

func TestHeroPick_LookaheadWindow(t *testing.T) {
	needed := []models.Position{models.PositionQB}

	chosen, err := heroPickWithin(quarterbacks(), needed, 2)
	require.NoError(t, err)
	assert.Equal(t, "B", chosen.Name, "B is the most valuable of the two earliest ADPs")

	chosen, err = heroPickWithin(quarterbacks(), needed, 1)
	require.NoError(t, err)
	assert.Equal(t, "A", chosen.Name, "only A fits in a one-player window")
}

func TestHeroPick_UsesSeatLookahead(t *testing.T) {
	team := NewTeamState(9, DefaultRoster())
	require.Equal(t, 2, HeroLookahead(team.Seat, 10))

	chosen, err := HeroPick(quarterbacks(), []models.Position{models.PositionQB}, team, 10)
	require.NoError(t, err)
	assert.Equal(t, "B", chosen.Name)
}

func TestHeroPick_Deterministic(t *testing.T) {
	pool := leaguePool(t)
	team := NewTeamState(10, DefaultRoster())
	needed := team.NeededPositions()

	first, err := HeroPick(pool.Working(), needed, team, 10)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := HeroPick(pool.Working(), needed, team, 10)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestHeroPick_FallsBackToBestAtNeededPosition(t *testing.T) {
	remaining := []models.PlayerRecord{
		player("W1", models.PositionWR, 1, 50, 500),
		player("W2", models.PositionWR, 2, 40, 400),
		player("T2", models.PositionTE, 40, 35, 350),
		player("T1", models.PositionTE, 30, 30, 300),
	}

	chosen, err := heroPickWithin(remaining, []models.Position{models.PositionTE}, 2)
	require.NoError(t, err)
	assert.Equal(t, "T2", chosen.Name)
}

func TestHeroPick_FallsBackToBestRemaining(t *testing.T) {
	chosen, err := heroPickWithin(quarterbacks(), nil, 20)
	require.NoError(t, err)
	assert.Equal(t, "B", chosen.Name)

	chosen, err = heroPickWithin(quarterbacks(), []models.Position{models.PositionTE}, 20)
	require.NoError(t, err)
	assert.Equal(t, "B", chosen.Name)
}

func TestHeroPick_EmptyPool(t *testing.T) {
	_, err := HeroPick(nil, []models.Position{models.PositionQB}, NewTeamState(1, DefaultRoster()), 10)
	assert.ErrorIs(t, err, utils.ErrPoolExhausted)
}

func TestHeroLookahead(t *testing.T) {
	assert.Equal(t, 20, HeroLookahead(10, 10))
	assert.Equal(t, 18, HeroLookahead(1, 10))
	assert.Equal(t, 2, HeroLookahead(9, 10))
	assert.Equal(t, -4, HeroLookahead(12, 14))
}

func TestHead(t *testing.T) {
	players := quarterbacks()

	assert.Len(t, head(players, 2), 2)
	assert.Len(t, head(players, 10), 3)
	assert.Len(t, head(players, 0), 0)
	assert.Len(t, head(players, -1), 2, "negative n drops players from the end")
	assert.Len(t, head(players, -10), 0)
}

func runningBacks() []models.PlayerRecord {
	return []models.PlayerRecord{
		player("W1", models.PositionWR, 5, 60, 600),
		player("R1", models.PositionRB, 20, 50, 500),
		player("R2", models.PositionRB, 10, 45, 450),
		player("R3", models.PositionRB, 30, 40, 400),
	}
}

func TestOpponentPick_JitterIndexesADPOrder(t *testing.T) {
	needed := []models.Position{models.PositionRB}

	tests := []struct {
		name     string
		jitter   fixedJitter
		expected string
	}{
		{name: "no deviation takes earliest ADP", jitter: 0, expected: "R2"},
		{name: "deviation of one", jitter: 1, expected: "R1"},
		{name: "deviation of two", jitter: 2, expected: "R3"},
		{name: "deviation past the candidates resets to first", jitter: 4, expected: "R2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chosen, err := OpponentPick(runningBacks(), needed, 5, tt.jitter)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, chosen.Name)
		})
	}
}

func TestOpponentPick_NoCandidatesTakesBestRemaining(t *testing.T) {
	chosen, err := OpponentPick(runningBacks(), []models.Position{models.PositionTE}, 5, fixedJitter(3))
	require.NoError(t, err)
	assert.Equal(t, "W1", chosen.Name)

	chosen, err = OpponentPick(runningBacks(), nil, 5, CryptoJitter{})
	require.NoError(t, err)
	assert.Equal(t, "W1", chosen.Name)
}

func TestOpponentPick_EmptyPool(t *testing.T) {
	_, err := OpponentPick(nil, []models.Position{models.PositionRB}, 5, CryptoJitter{})
	assert.ErrorIs(t, err, utils.ErrPoolExhausted)
}

func TestOpponentPick_StaysInsideWindow(t *testing.T) {
	needed := []models.Position{models.PositionRB}
	allowed := map[string]bool{"R1": true, "R2": true, "R3": true}

	for i := 0; i < 200; i++ {
		chosen, err := OpponentPick(runningBacks(), needed, 5, CryptoJitter{})
		require.NoError(t, err)
		assert.True(t, allowed[chosen.Name], "unexpected pick %s", chosen.Name)
	}
}

func TestCryptoJitter_Range(t *testing.T) {
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		v := CryptoJitter{}.Intn(6)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 6)
		seen[v] = true
	}
	assert.Len(t, seen, 6, "every offset should appear in 2000 draws")
}
