package draft

import (
	"fmt"

	"github.com/stitts-dev/draft-sim/internal/models"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

// EngineConfig describes the league being simulated
type EngineConfig struct {
	Teams      int         `json:"teams"`
	HeroSeat   int         `json:"hero_seat"`
	Randomness int         `json:"randomness"`
	Roster     RosterShape `json:"roster"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Teams:      10,
		HeroSeat:   10,
		Randomness: 5,
		Roster:     DefaultRoster(),
	}
}

func (c EngineConfig) Validate() error {
	if c.Teams < 1 {
		return fmt.Errorf("%w: team count must be positive, got %d", utils.ErrInvalidConfig, c.Teams)
	}
	if c.HeroSeat < 1 || c.HeroSeat > c.Teams {
		return fmt.Errorf("%w: hero seat %d outside 1..%d", utils.ErrInvalidConfig, c.HeroSeat, c.Teams)
	}
	if c.Randomness < 0 {
		return fmt.Errorf("%w: randomness must not be negative, got %d", utils.ErrInvalidConfig, c.Randomness)
	}
	return c.Roster.Validate()
}

// Pick is one selection in the draft log
type Pick struct {
	Round  int                 `json:"round"`
	Seat   int                 `json:"seat"`
	Slot   models.Position     `json:"slot,omitempty"`
	Player models.PlayerRecord `json:"player"`
}

// TrialResult is the outcome of one simulated draft
type TrialResult struct {
	Hero      *TeamState   `json:"hero"`
	Teams     []*TeamState `json:"teams"`
	Picks     []Pick       `json:"picks"`
	Qualifies bool         `json:"qualifies"`
}

// Engine runs complete snake drafts. It holds no per-trial state and is safe
// for concurrent use as long as its Jitter is.
type Engine struct {
	config EngineConfig
	jitter Jitter
}

// NewEngine validates config. A nil jitter uses CryptoJitter.
func NewEngine(config EngineConfig, jitter Jitter) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if jitter == nil {
		jitter = CryptoJitter{}
	}
	return &Engine{config: config, jitter: jitter}, nil
}

func (e *Engine) Config() EngineConfig {
	return e.config
}

func (e *Engine) Rounds() int {
	return e.config.Roster.Rounds()
}

// PicksPerTrial is the number of players leaving the pool in one draft
func (e *Engine) PicksPerTrial() int {
	return e.config.Teams * e.Rounds()
}

// RunTrial drafts every round on a private copy of pool
func (e *Engine) RunTrial(pool *PlayerPool) (*TrialResult, error) {
	teams := make([]*TeamState, e.config.Teams)
	for i := range teams {
		teams[i] = NewTeamState(i+1, e.config.Roster)
	}

	remaining := pool.Working()
	picks := make([]Pick, 0, e.PicksPerTrial())

	for round := 0; round < e.Rounds(); round++ {
		for _, seat := range SnakeOrder(round, e.config.Teams) {
			team := teams[seat-1]
			needed := team.NeededPositions()

			var (
				chosen models.PlayerRecord
				err    error
			)
			if seat == e.config.HeroSeat {
				chosen, err = HeroPick(remaining, needed, team, e.config.Teams)
			} else {
				chosen, err = OpponentPick(remaining, needed, e.config.Randomness, e.jitter)
			}
			if err != nil {
				return nil, fmt.Errorf("round %d seat %d: %w", round+1, seat, err)
			}

			slot := team.AddPlayer(chosen)
			remaining = removePlayer(remaining, chosen.Name)
			picks = append(picks, Pick{Round: round + 1, Seat: seat, Slot: slot, Player: chosen})
		}
	}

	hero := teams[e.config.HeroSeat-1]
	return &TrialResult{
		Hero:      hero,
		Teams:     teams,
		Picks:     picks,
		Qualifies: Qualifies(teams, hero),
	}, nil
}

// SnakeOrder returns the seats picking in a zero-based round: ascending on
// even rounds, descending on odd ones
func SnakeOrder(round, teamCount int) []int {
	order := make([]int, teamCount)
	for i := range order {
		if round%2 == 0 {
			order[i] = i + 1
		} else {
			order[i] = teamCount - i
		}
	}
	return order
}

// Qualifies reports whether hero holds the league-high total relative value
// and, at the same time, the league-high total fantasy points. Ties count.
func Qualifies(teams []*TeamState, hero *TeamState) bool {
	if hero == nil || len(teams) == 0 {
		return false
	}
	maxValue, maxPoints := teams[0].TotalValue, teams[0].TotalPoints
	for _, t := range teams[1:] {
		if t.TotalValue > maxValue {
			maxValue = t.TotalValue
		}
		if t.TotalPoints > maxPoints {
			maxPoints = t.TotalPoints
		}
	}
	return hero.TotalValue == maxValue && hero.TotalPoints == maxPoints
}
