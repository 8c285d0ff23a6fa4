package draft

import (
	"fmt"

	"github.com/stitts-dev/draft-sim/internal/models"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

// RosterShape maps each roster slot (including FLEX) to the number of players it holds
type RosterShape map[models.Position]int

// slotOrder is the order needs are reported in
var slotOrder = []models.Position{
	models.PositionQB,
	models.PositionRB,
	models.PositionWR,
	models.PositionTE,
	models.PositionFLEX,
}

// DefaultRoster returns the standard QB/2RB/3WR/TE/FLEX shape
func DefaultRoster() RosterShape {
	return RosterShape{
		models.PositionQB:   1,
		models.PositionRB:   2,
		models.PositionWR:   3,
		models.PositionTE:   1,
		models.PositionFLEX: 1,
	}
}

// Rounds is the number of draft rounds needed to fill every slot
func (r RosterShape) Rounds() int {
	total := 0
	for _, slot := range slotOrder {
		total += r[slot]
	}
	return total
}

func (r RosterShape) Validate() error {
	for slot, count := range r {
		if !isSlot(slot) {
			return fmt.Errorf("%w: unknown roster slot %q", utils.ErrInvalidConfig, slot)
		}
		if count < 0 {
			return fmt.Errorf("%w: roster slot %s has negative count %d", utils.ErrInvalidConfig, slot, count)
		}
	}
	if r.Rounds() == 0 {
		return fmt.Errorf("%w: roster has no slots", utils.ErrInvalidConfig)
	}
	return nil
}

func (r RosterShape) needs() map[models.Position]int {
	needs := make(map[models.Position]int, len(slotOrder))
	for _, slot := range slotOrder {
		needs[slot] = r[slot]
	}
	return needs
}

func isSlot(p models.Position) bool {
	for _, slot := range slotOrder {
		if p == slot {
			return true
		}
	}
	return false
}
