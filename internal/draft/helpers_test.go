package draft

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/draft-sim/internal/models"
)

// fixedJitter always draws the same offset, clamped to the range
type fixedJitter int

func (f fixedJitter) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func player(name string, pos models.Position, adp int, value, points float64) models.PlayerRecord {
	return models.PlayerRecord{Name: name, Position: pos, ADP: adp, RelativeValue: value, FantasyPoints: points}
}

// leagueRecords builds a pool large enough for a ten-team, eight-round draft
func leagueRecords() []models.PlayerRecord {
	groups := []struct {
		pos     models.Position
		count   int
		offset  int
		penalty float64
	}{
		{models.PositionQB, 15, 3, 4},
		{models.PositionRB, 35, 0, 0},
		{models.PositionWR, 45, 1, 1},
		{models.PositionTE, 15, 5, 6},
	}

	var records []models.PlayerRecord
	for _, g := range groups {
		for i := 0; i < g.count; i++ {
			records = append(records, player(
				fmt.Sprintf("%s%02d", g.pos, i+1),
				g.pos,
				11+i*3+g.offset,
				100-float64(i)*2.5-g.penalty,
				300-float64(i)*6-g.penalty*2,
			))
		}
	}
	return records
}

func leaguePool(t *testing.T) *PlayerPool {
	t.Helper()
	pool, err := NewPlayerPool(leagueRecords())
	require.NoError(t, err)
	return pool
}
