package draft

import (
	"sort"

	"github.com/stitts-dev/draft-sim/internal/models"
)

// TeamState tracks one seat's roster needs, picks, and running totals for a
// single trial. It is never shared between trials.
type TeamState struct {
	Seat        int                                       `json:"seat"`
	Needs       map[models.Position]int                   `json:"needs"`
	Slots       map[models.Position][]models.PlayerRecord `json:"slots"`
	Players     []models.PlayerRecord                     `json:"players"`
	TotalValue  float64                                   `json:"total_value"`
	TotalPoints float64                                   `json:"total_points"`
	PickCount   map[string]int                            `json:"pick_count"`
}

func NewTeamState(seat int, roster RosterShape) *TeamState {
	return &TeamState{
		Seat:      seat,
		Needs:     roster.needs(),
		Slots:     make(map[models.Position][]models.PlayerRecord),
		Players:   make([]models.PlayerRecord, 0, roster.Rounds()),
		PickCount: make(map[string]int),
	}
}

// AddPlayer rosters the player in its own slot, else in FLEX when eligible.
// A pick with no open slot is still kept on the roster and in the totals.
// It returns the slot filled, or "" for an overflow pick.
func (t *TeamState) AddPlayer(player models.PlayerRecord) models.Position {
	var slot models.Position
	switch {
	case t.Needs[player.Position] > 0:
		slot = player.Position
	case t.Needs[models.PositionFLEX] > 0 && player.Position.IsFlexEligible():
		slot = models.PositionFLEX
	}

	if slot != "" {
		t.Slots[slot] = append(t.Slots[slot], player)
		t.Needs[slot]--
	}

	t.Players = append(t.Players, player)
	t.TotalValue += player.RelativeValue
	t.TotalPoints += player.FantasyPoints
	t.PickCount[player.Name]++

	return slot
}

// NeededPositions lists positions with open slots in roster order. An open
// FLEX slot resolves to the RB/WR/TE position with the fewest players already
// slotted whose own need is still open, or to nothing if all three are full.
func (t *TeamState) NeededPositions() []models.Position {
	needed := make([]models.Position, 0, len(models.PlayerPositions)+1)
	for _, pos := range models.PlayerPositions {
		if t.Needs[pos] > 0 {
			needed = append(needed, pos)
		}
	}

	if t.Needs[models.PositionFLEX] > 0 {
		candidates := make([]models.Position, len(models.FlexPositions))
		copy(candidates, models.FlexPositions)
		sort.SliceStable(candidates, func(i, j int) bool {
			return len(t.Slots[candidates[i]]) < len(t.Slots[candidates[j]])
		})
		for _, pos := range candidates {
			if t.Needs[pos] != 0 {
				needed = append(needed, pos)
				break
			}
		}
	}

	return needed
}
