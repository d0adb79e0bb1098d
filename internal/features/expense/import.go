package expense

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Expected column order of an imported workbook's first sheet. Row one is a
// header and is skipped.
const (
	columnEmployee = iota
	columnDescription
	columnMerchant
	columnNetAmount
	columnTaxAmount
	columnNote
	columnCount
)

// ImportExpenses parses an uploaded xlsx workbook into expense items ready
// for curation. Amounts and references still have to be mapped in the UI
// before syncing.
func (s *ExpenseServiceImpl) ImportExpenses(file io.Reader) ([]ExpenseItem, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	items := make([]ExpenseItem, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if isEmptyRow(row) {
			continue
		}
		if len(row) < columnCount {
			padded := make([]string, columnCount)
			copy(padded, row)
			row = padded
		}

		netAmount, err := parseAmount(row[columnNetAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid net amount %q", i+1, row[columnNetAmount])
		}
		taxAmount, err := parseAmount(row[columnTaxAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid tax amount %q", i+1, row[columnTaxAmount])
		}

		items = append(items, ExpenseItem{
			ID:           primitive.NewObjectID().Hex(),
			EmployeeName: strings.TrimSpace(row[columnEmployee]),
			Description:  strings.TrimSpace(row[columnDescription]),
			Merchant:     strings.TrimSpace(row[columnMerchant]),
			Note:         strings.TrimSpace(row[columnNote]),
			NetAmount:    netAmount,
			TaxAmount:    taxAmount,
			Categories:   []TrackingCategory{},
		})
	}

	return items, nil
}

func parseAmount(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
