package draft

import (
	"fmt"
	"sort"

	"github.com/stitts-dev/draft-sim/internal/models"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

// PlayerPool is the read-only catalog shared by every trial. Players are held
// sorted by relative value, then fantasy points, both descending.
type PlayerPool struct {
	players []models.PlayerRecord
	index   map[string]int
}

// NewPlayerPool validates and sorts the records. Names must be unique.
func NewPlayerPool(records []models.PlayerRecord) (*PlayerPool, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: player pool is empty", utils.ErrInvalidInput)
	}

	players := make([]models.PlayerRecord, len(records))
	copy(players, records)
	sortByValue(players)

	index := make(map[string]int, len(players))
	for i, p := range players {
		if _, dup := index[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate player %q", utils.ErrInvalidInput, p.Name)
		}
		index[p.Name] = i
	}

	return &PlayerPool{players: players, index: index}, nil
}

func (p *PlayerPool) Len() int {
	return len(p.players)
}

// Players returns a copy of the value-sorted catalog
func (p *PlayerPool) Players() []models.PlayerRecord {
	return p.Working()
}

// Working returns a fresh mutable copy for one trial
func (p *PlayerPool) Working() []models.PlayerRecord {
	working := make([]models.PlayerRecord, len(p.players))
	copy(working, p.players)
	return working
}

// Lookup finds a player by name
func (p *PlayerPool) Lookup(name string) (models.PlayerRecord, bool) {
	i, ok := p.index[name]
	if !ok {
		return models.PlayerRecord{}, false
	}
	return p.players[i], true
}

func sortByValue(players []models.PlayerRecord) {
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].RelativeValue != players[j].RelativeValue {
			return players[i].RelativeValue > players[j].RelativeValue
		}
		return players[i].FantasyPoints > players[j].FantasyPoints
	})
}

func sortByADP(players []models.PlayerRecord) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].ADP < players[j].ADP
	})
}

// removePlayer drops name from players keeping order
func removePlayer(players []models.PlayerRecord, name string) []models.PlayerRecord {
	for i := range players {
		if players[i].Name == name {
			return append(players[:i], players[i+1:]...)
		}
	}
	return players
}

func sortByRelativeValue(players []models.PlayerRecord) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].RelativeValue > players[j].RelativeValue
	})
}
