// Package export renders a snapshot's record set as a downloadable
// spreadsheet for offline review.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pulsehq/demosnap/internal/domain"
)

const sheetName = "Demographics"

// fixedColumns is the header prefix before company-defined attributes.
var fixedColumns = []string{"User ID", "Department", "Role", "Tenure", "Location", "Team", "Level"}

// Service builds export documents from snapshots.
type Service struct{}

// NewService creates an export service.
func NewService() *Service {
	return &Service{}
}

// BuildWorkbook renders one snapshot as an xlsx workbook: one row per
// user, fixed columns first, then the sorted union of custom attribute
// keys across the record set.
func (s *Service) BuildWorkbook(snapshot domain.Snapshot) (*excelize.File, error) {
	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	attributeKeys := customAttributeKeys(snapshot.Records)
	header := append(append([]string{}, fixedColumns...), attributeKeys...)

	if err := writeRow(file, 1, header); err != nil {
		return nil, err
	}
	for i, record := range snapshot.Records {
		if err := writeRow(file, i+2, recordRow(record, attributeKeys)); err != nil {
			return nil, err
		}
	}

	return file, nil
}

// WriteCSV streams the same tabular layout as CSV.
func (s *Service) WriteCSV(w io.Writer, snapshot domain.Snapshot) error {
	attributeKeys := customAttributeKeys(snapshot.Records)
	writer := csv.NewWriter(w)

	if err := writer.Write(append(append([]string{}, fixedColumns...), attributeKeys...)); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, record := range snapshot.Records {
		if err := writer.Write(recordRow(record, attributeKeys)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeRow(file *excelize.File, rowNumber int, values []string) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNumber)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := file.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}

func recordRow(record domain.DemographicRecord, attributeKeys []string) []string {
	row := []string{
		record.UserID,
		record.Department,
		record.Role,
		record.TenureBucket,
		record.Location,
		record.Team,
		record.Level,
	}
	for _, key := range attributeKeys {
		row = append(row, formatAttribute(record.CustomAttributes[key]))
	}
	return row
}

func customAttributeKeys(records []domain.DemographicRecord) []string {
	seen := map[string]struct{}{}
	for _, record := range records {
		for key := range record.CustomAttributes {
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func formatAttribute(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
