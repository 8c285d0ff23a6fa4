package ingest

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/stitts-dev/draft-sim/internal/models"
)

// Column headers of the rankings export
const (
	ColumnPlayer        = "Player"
	ColumnPositionRank  = "Position Rank"
	ColumnRelativeValue = "Relative Value"
	ColumnFFPts         = "FF Pts"
	ColumnADP           = "ADP"
)

var requiredColumns = []string{
	ColumnPlayer,
	ColumnPositionRank,
	ColumnRelativeValue,
	ColumnFFPts,
	ColumnADP,
}

// rawRow is one unvalidated rankings row, from a CSV line or a table row
type rawRow struct {
	line          int
	player        string
	positionRank  string
	relativeValue string
	ffPts         string
	adp           string
}

func (r rawRow) toRecord() (models.PlayerRecord, error) {
	name := strings.TrimSpace(r.player)
	if name == "" {
		return models.PlayerRecord{}, &DataError{Line: r.line, Field: ColumnPlayer, Reason: "player name is empty"}
	}

	position, err := models.ParsePositionRank(r.positionRank)
	if err != nil {
		return models.PlayerRecord{}, &DataError{Line: r.line, Field: ColumnPositionRank, Value: r.positionRank, Reason: "unknown position"}
	}

	value, err := parseFloat(r.relativeValue)
	if err != nil {
		return models.PlayerRecord{}, &DataError{Line: r.line, Field: ColumnRelativeValue, Value: r.relativeValue, Reason: numberReason(err)}
	}

	points, err := parseFloat(r.ffPts)
	if err != nil {
		return models.PlayerRecord{}, &DataError{Line: r.line, Field: ColumnFFPts, Value: r.ffPts, Reason: numberReason(err)}
	}

	adp, err := models.ParseADP(r.adp)
	if err != nil {
		return models.PlayerRecord{}, &DataError{Line: r.line, Field: ColumnADP, Value: r.adp, Reason: "expected round.pick or --"}
	}

	return models.PlayerRecord{
		Name:          name,
		Position:      position,
		RelativeValue: value,
		FantasyPoints: points,
		ADP:           adp,
	}, nil
}

var errNotFinite = errors.New("not finite")

// parseFloat rejects NaN and infinities, which strconv accepts
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func numberReason(err error) string {
	if errors.Is(err, errNotFinite) {
		return "must be a finite number"
	}
	return "not a number"
}

// buildRecords validates every row. Any bad row fails the whole load.
func buildRecords(rows []rawRow) ([]models.PlayerRecord, error) {
	if len(rows) == 0 {
		return nil, &DataError{Reason: "no player rows"}
	}

	records := make([]models.PlayerRecord, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		if first, ok := seen[record.Name]; ok {
			return nil, &DataError{
				Line:   row.line,
				Field:  ColumnPlayer,
				Value:  record.Name,
				Reason: "duplicate player, first seen on line " + strconv.Itoa(first),
			}
		}
		seen[record.Name] = row.line
		records = append(records, record)
	}
	return records, nil
}
