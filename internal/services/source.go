package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/stitts-dev/draft-sim/internal/ingest"
	"github.com/stitts-dev/draft-sim/internal/models"
	"github.com/stitts-dev/draft-sim/pkg/database"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

// Source loads validated player records
type Source interface {
	Name() string
	Load(ctx context.Context) ([]models.PlayerRecord, error)
}

type CSVSource struct {
	Path string
}

func (s *CSVSource) Name() string {
	return "csv:" + s.Path
}

func (s *CSVSource) Load(ctx context.Context) ([]models.PlayerRecord, error) {
	return ingest.LoadCSVFile(s.Path)
}

// DBSourceName is the cache name of the rankings table source
const DBSourceName = "db:player_rankings"

type DBSource struct {
	DB *database.DB
}

func (s *DBSource) Name() string {
	return DBSourceName
}

func (s *DBSource) Load(ctx context.Context) ([]models.PlayerRecord, error) {
	return ingest.LoadFromDB(ctx, s.DB)
}

// NewSource resolves a PLAYER_SOURCE value: "db" reads the rankings table,
// "csv:<path>" or a bare path reads a CSV export
func NewSource(location string, db *database.DB) (Source, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil, fmt.Errorf("%w: player source is empty", utils.ErrInvalidConfig)
	case location == "db":
		if db == nil {
			return nil, fmt.Errorf("%w: player source db needs DATABASE_URL", utils.ErrInvalidConfig)
		}
		return &DBSource{DB: db}, nil
	case strings.HasPrefix(location, "csv:"):
		return &CSVSource{Path: strings.TrimPrefix(location, "csv:")}, nil
	default:
		return &CSVSource{Path: location}, nil
	}
}
