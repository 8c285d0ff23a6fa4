package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Position is a rostered football position. FLEX is a slot, not a player position.
type Position string

const (
	PositionQB   Position = "QB"
	PositionRB   Position = "RB"
	PositionWR   Position = "WR"
	PositionTE   Position = "TE"
	PositionFLEX Position = "FLEX"
)

// PlayerPositions lists the positions a player can hold, in roster order
var PlayerPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE}

// FlexPositions are the positions eligible for the FLEX slot
var FlexPositions = []Position{PositionRB, PositionWR, PositionTE}

// IsFlexEligible reports whether p can fill the FLEX slot
func (p Position) IsFlexEligible() bool {
	for _, fp := range FlexPositions {
		if p == fp {
			return true
		}
	}
	return false
}

// UnrankedADP is assigned to players without a consensus draft position
const UnrankedADP = 201

// PlayerRecord is a validated player row. Values are fixed at ingestion.
type PlayerRecord struct {
	Name          string   `json:"name" yaml:"name"`
	Position      Position `json:"position" yaml:"position"`
	RelativeValue float64  `json:"relative_value" yaml:"relative_value"`
	FantasyPoints float64  `json:"fantasy_points" yaml:"fantasy_points"`
	ADP           int      `json:"adp" yaml:"adp"`
}

// PlayerRanking is the raw rankings table row, stored the way the CSV export ships it
type PlayerRanking struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Player        string    `gorm:"uniqueIndex;not null" json:"player"`
	PositionRank  string    `gorm:"not null" json:"position_rank"`
	RelativeValue float64   `gorm:"not null" json:"relative_value"`
	FFPts         float64   `gorm:"column:ff_pts;not null" json:"ff_pts"`
	ADP           string    `gorm:"column:adp;not null" json:"adp"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PlayerRanking) TableName() string {
	return "player_rankings"
}

// ParsePositionRank extracts the position from a "POS-rank" string such as "WR-12"
func ParsePositionRank(positionRank string) (Position, error) {
	pos, _, _ := strings.Cut(strings.TrimSpace(positionRank), "-")
	position := Position(strings.ToUpper(pos))
	for _, p := range PlayerPositions {
		if position == p {
			return position, nil
		}
	}
	return "", fmt.Errorf("unknown position in %q", positionRank)
}

// ParseADP converts a "round.pick" ADP into round*10 + pick. "--" means unranked.
func ParseADP(adp string) (int, error) {
	round, pick, err := splitADP(adp)
	if err != nil {
		return 0, err
	}
	if round < 0 {
		return UnrankedADP, nil
	}
	return round*10 + pick, nil
}

// splitADP returns round -1 for the unranked sentinel
func splitADP(adp string) (int, int, error) {
	adp = strings.TrimSpace(adp)
	if adp == "--" {
		return -1, 0, nil
	}
	r, p, ok := strings.Cut(adp, ".")
	if !ok {
		return 0, 0, fmt.Errorf("ADP %q is not in round.pick form", adp)
	}
	round, err := strconv.Atoi(r)
	if err != nil {
		return 0, 0, fmt.Errorf("ADP %q has invalid round: %w", adp, err)
	}
	pick, err := strconv.Atoi(p)
	if err != nil {
		return 0, 0, fmt.Errorf("ADP %q has invalid pick: %w", adp, err)
	}
	if round < 0 || pick < 0 {
		return 0, 0, fmt.Errorf("ADP %q is out of range", adp)
	}
	return round, pick, nil
}
