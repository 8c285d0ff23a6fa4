package draft

import (
	"lukechampine.com/frand"

	"github.com/stitts-dev/draft-sim/internal/models"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

// Jitter draws the ADP deviation for opponent picks
type Jitter interface {
	// Intn returns a uniform int in [0, n)
	Intn(n int) int
}

// CryptoJitter draws from a CSPRNG so concurrent trials never share a seed
type CryptoJitter struct{}

func (CryptoJitter) Intn(n int) int {
	return frand.Intn(n)
}

// OpponentPick takes a player near the top of ADP among needed positions.
// The index into the ADP-sorted candidates is a uniform draw in
// [0, randomness], falling back to the first candidate when fewer exist.
// With no candidate at a needed position it takes the best remaining player.
// remaining must be value-sorted.
func OpponentPick(remaining []models.PlayerRecord, needed []models.Position, randomness int, jitter Jitter) (models.PlayerRecord, error) {
	if len(remaining) == 0 {
		return models.PlayerRecord{}, utils.ErrPoolExhausted
	}

	candidates := filterPositions(remaining, needed)
	sortByADP(candidates)

	offset := jitter.Intn(randomness + 1)
	if len(candidates) <= offset {
		offset = 0
	}

	if len(candidates) > 0 {
		return candidates[offset], nil
	}
	return remaining[0], nil
}

// HeroLookahead is how many ADP-ranked players the hero expects to still be
// available at its next pick. Tuned for a ten-team league.
func HeroLookahead(seat, teamCount int) int {
	return 20 - (seat%teamCount)*2
}

// HeroPick takes the most valuable needed player among those likely to be
// gone before the hero picks again. remaining must be value-sorted.
func HeroPick(remaining []models.PlayerRecord, needed []models.Position, team *TeamState, teamCount int) (models.PlayerRecord, error) {
	return heroPickWithin(remaining, needed, HeroLookahead(team.Seat, teamCount))
}

func heroPickWithin(remaining []models.PlayerRecord, needed []models.Position, lookahead int) (models.PlayerRecord, error) {
	if len(remaining) == 0 {
		return models.PlayerRecord{}, utils.ErrPoolExhausted
	}

	window := make([]models.PlayerRecord, len(remaining))
	copy(window, remaining)
	sortByADP(window)
	window = head(window, lookahead)
	sortByRelativeValue(window)

	for _, p := range window {
		if containsPosition(needed, p.Position) {
			return p, nil
		}
	}

	for _, pos := range needed {
		for _, p := range remaining {
			if p.Position == pos {
				return p, nil
			}
		}
	}

	return remaining[0], nil
}

// head keeps the first n players; a negative n drops the last -n instead
func head(players []models.PlayerRecord, n int) []models.PlayerRecord {
	if n < 0 {
		n = len(players) + n
		if n < 0 {
			n = 0
		}
	}
	if n > len(players) {
		n = len(players)
	}
	return players[:n]
}

func filterPositions(players []models.PlayerRecord, positions []models.Position) []models.PlayerRecord {
	filtered := make([]models.PlayerRecord, 0, len(players))
	for _, p := range players {
		if containsPosition(positions, p.Position) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func containsPosition(positions []models.Position, pos models.Position) bool {
	for _, p := range positions {
		if p == pos {
			return true
		}
	}
	return false
}
