package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stitts-dev/draft-sim/internal/models"
)

// LoadCSVFile reads a rankings export from disk
func LoadCSVFile(path string) ([]models.PlayerRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open player file: %w", err)
	}
	defer f.Close()

	records, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// LoadCSV parses a rankings export. Columns are located by header name and
// extra columns are ignored.
func LoadCSV(r io.Reader) ([]models.PlayerRecord, error) {
	rows, err := readCSVRows(r)
	if err != nil {
		return nil, err
	}
	return buildRecords(rows)
}

func readCSVRows(r io.Reader) ([]rawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DataError{Reason: "file is empty"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []rawRow
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if blank(fields) {
			continue
		}

		get := func(column string) string {
			idx := columns[column]
			if idx >= len(fields) {
				return ""
			}
			return fields[idx]
		}
		rows = append(rows, rawRow{
			line:          line,
			player:        get(ColumnPlayer),
			positionRank:  get(ColumnPositionRank),
			relativeValue: get(ColumnRelativeValue),
			ffPts:         get(ColumnFFPts),
			adp:           get(ColumnADP),
		})
	}
	return rows, nil
}

func columnIndex(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, &DataError{Line: 1, Field: required, Reason: "missing column"}
		}
	}
	return columns, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
