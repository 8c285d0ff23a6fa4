package ingest

import (
	"context"
	"fmt"
	"io"

	"gorm.io/gorm/clause"

	"github.com/stitts-dev/draft-sim/internal/models"
	"github.com/stitts-dev/draft-sim/pkg/database"
)

// Migrate creates or updates the rankings table
func Migrate(db *database.DB) error {
	if err := db.AutoMigrate(&models.PlayerRanking{}); err != nil {
		return fmt.Errorf("failed to migrate player rankings: %w", err)
	}
	return nil
}

// ReadRankings parses and validates a rankings export, keeping the raw
// column values for storage
func ReadRankings(r io.Reader) ([]models.PlayerRanking, error) {
	rows, err := readCSVRows(r)
	if err != nil {
		return nil, err
	}
	if _, err := buildRecords(rows); err != nil {
		return nil, err
	}

	rankings := make([]models.PlayerRanking, 0, len(rows))
	for _, row := range rows {
		record, _ := row.toRecord()
		value, _ := parseFloat(row.relativeValue)
		points, _ := parseFloat(row.ffPts)
		rankings = append(rankings, models.PlayerRanking{
			Player:        record.Name,
			PositionRank:  row.positionRank,
			RelativeValue: value,
			FFPts:         points,
			ADP:           row.adp,
		})
	}
	return rankings, nil
}

// SaveToDB upserts rankings by player name and returns the number written
func SaveToDB(ctx context.Context, db *database.DB, rankings []models.PlayerRanking) (int, error) {
	if len(rankings) == 0 {
		return 0, &DataError{Reason: "no player rows"}
	}

	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player"}},
		DoUpdates: clause.AssignmentColumns([]string{"position_rank", "relative_value", "ff_pts", "adp", "updated_at"}),
	}).CreateInBatches(rankings, 100)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to save player rankings: %w", result.Error)
	}
	return len(rankings), nil
}

// LoadFromDB reads the rankings table and validates it like a CSV export.
// Row IDs stand in for line numbers in any DataError.
func LoadFromDB(ctx context.Context, db *database.DB) ([]models.PlayerRecord, error) {
	var rankings []models.PlayerRanking
	if err := db.WithContext(ctx).Order("id").Find(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query player rankings: %w", err)
	}

	rows := make([]rawRow, 0, len(rankings))
	for _, r := range rankings {
		rows = append(rows, rawRow{
			line:          int(r.ID),
			player:        r.Player,
			positionRank:  r.PositionRank,
			relativeValue: fmt.Sprint(r.RelativeValue),
			ffPts:         fmt.Sprint(r.FFPts),
			adp:           r.ADP,
		})
	}
	return buildRecords(rows)
}
