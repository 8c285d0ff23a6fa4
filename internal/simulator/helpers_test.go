package simulator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/draft-sim/internal/draft"
	"github.com/stitts-dev/draft-sim/internal/models"
)

func leaguePool(t *testing.T) *draft.PlayerPool {
	t.Helper()

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

	pool, err := draft.NewPlayerPool(records)
	require.NoError(t, err)
	return pool
}

// heroResult builds a trial result whose hero drafted names
func heroResult(qualifies bool, names ...string) *draft.TrialResult {
	hero := draft.NewTeamState(10, draft.DefaultRoster())
	for _, name := range names {
		hero.PickCount[name]++
	}
	return &draft.TrialResult{Hero: hero, Teams: []*draft.TeamState{hero}, Qualifies: qualifies}
}
