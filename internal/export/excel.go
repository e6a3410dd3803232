package export

import (
	"bytes"
	"fmt"

	"github.com/jonesrussell/boardwatch/internal/models"
	"github.com/xuri/excelize/v2"
)

// ScanToExcel renders a scan record as an xlsx workbook with the same row
// layout as the CSV export.
func ScanToExcel(record models.ScanRecord) ([]byte, error) {
	rows := make([][]string, 0, len(record.Boards)+1)
	rows = append(rows, scanHeader)
	for _, board := range record.Boards {
		rows = append(rows, scanRows(record.Summary, board)...)
	}

	return writeSheet("Scan", rows)
}

// ProbeToExcel renders a probe session as an xlsx workbook.
func ProbeToExcel(session models.ProbeSession) ([]byte, error) {
	rows := make([][]string, 0, len(session.Results)+1)
	rows = append(rows, probeHeader)
	for _, result := range session.Results {
		rows = append(rows, probeRow(result))
	}

	return writeSheet("Probe", rows)
}

func writeSheet(sheet string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for i, row := range rows {
		cell, cellErr := excelize.CoordinatesToCellName(1, i+1)
		if cellErr != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, cellErr)
		}
		values := make([]any, len(row))
		for j, field := range row {
			values[j] = field
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
