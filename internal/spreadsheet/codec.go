// Package spreadsheet is the thin workbook boundary: it decodes an uploaded
// .xlsx into a row-oriented table and encodes the reconciled table back.
package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sithumonline/payment-reconciler/internal/models"
)

// Decode reads the first sheet of an .xlsx workbook. The first row's cells
// define the column set; every later row becomes a name-to-value map.
func Decode(r io.Reader) (*models.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	var columns []string
	for _, cell := range rows[0] {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		columns = append(columns, name)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheetName)
	}

	sheet := &models.Sheet{Columns: columns}
	for _, cells := range rows[1:] {
		row := models.Row{}
		for i, col := range columns {
			if i < len(cells) {
				row[col] = cells[i]
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// Encode serializes a table back into .xlsx bytes, columns in table order
// with a header row first.
func Encode(sheet *models.Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Sheet1"

	header := make([]interface{}, len(sheet.Columns))
	for i, col := range sheet.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for n, row := range sheet.Rows {
		cells := make([]interface{}, len(sheet.Columns))
		for i, col := range sheet.Columns {
			cells[i] = row[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", n+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
