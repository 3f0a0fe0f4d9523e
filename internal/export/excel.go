// Package export writes the consolidated statements and the controls
// report to a styled workbook. All formatting lives here; the core hands
// over ordered labels and amounts only.
package export

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/meridian-games/fecpl/internal/pl"
	"github.com/meridian-games/fecpl/internal/quality"
)

const controlsSheet = "Controls"

// amountFormat renders amounts with thousand separators, negatives in
// parentheses (the house reporting convention).
const amountFormat = "#,##0;(#,##0)"

// Write renders one sheet per reporting group plus the controls sheet and
// saves the workbook as PL_<period>.xlsx under dir, returning the path.
func Write(dir string, result *pl.Result, report *quality.Report) (string, error) {
	book := excelize.NewFile()
	defer book.Close()

	header, err := book.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
	})
	if err != nil {
		return "", fmt.Errorf("export: header style: %w", err)
	}
	amount, err := book.NewStyle(&excelize.Style{CustomNumFmt: ptr(amountFormat)})
	if err != nil {
		return "", fmt.Errorf("export: amount style: %w", err)
	}
	computed, err := book.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: ptr(amountFormat),
	})
	if err != nil {
		return "", fmt.Errorf("export: computed style: %w", err)
	}

	first := true
	for _, group := range pl.ReportingGroups {
		statement, found := result.Statements[group.Name]
		if !found {
			continue
		}
		if first {
			if err := book.SetSheetName("Sheet1", group.Name); err != nil {
				return "", fmt.Errorf("export: rename sheet: %w", err)
			}
			first = false
		} else if _, err := book.NewSheet(group.Name); err != nil {
			return "", fmt.Errorf("export: sheet %s: %w", group.Name, err)
		}
		if err := writeStatement(book, group.Name, statement, header, amount, computed); err != nil {
			return "", err
		}
	}

	if _, err := book.NewSheet(controlsSheet); err != nil {
		return "", fmt.Errorf("export: controls sheet: %w", err)
	}
	if err := writeControls(book, report, header); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("PL_%s.xlsx", result.Period))
	if err := book.SaveAs(path); err != nil {
		return "", fmt.Errorf("export: save %s: %w", path, err)
	}
	return path, nil
}

func writeStatement(book *excelize.File, sheet string, statement *pl.GroupStatement, header, amount, computed int) error {
	if err := book.SetSheetRow(sheet, "A1", &[]interface{}{"P&L line", "Montant"}); err != nil {
		return fmt.Errorf("export: %s header: %w", sheet, err)
	}
	if err := book.SetCellStyle(sheet, "A1", "B1", header); err != nil {
		return fmt.Errorf("export: %s header style: %w", sheet, err)
	}

	for i, line := range statement.Lines() {
		row := i + 2
		if err := book.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]interface{}{line.Label, line.Amount}); err != nil {
			return fmt.Errorf("export: %s row %d: %w", sheet, row, err)
		}
		style := amount
		if _, isComputed := statement.Computed[line.Label]; isComputed {
			style = computed
		}
		cell := fmt.Sprintf("B%d", row)
		if err := book.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("export: %s style %s: %w", sheet, cell, err)
		}
	}

	if err := book.SetColWidth(sheet, "A", "A", 42); err != nil {
		return fmt.Errorf("export: %s col width: %w", sheet, err)
	}
	return book.SetColWidth(sheet, "B", "B", 16)
}

func writeControls(book *excelize.File, report *quality.Report, header int) error {
	if err := book.SetSheetRow(controlsSheet, "A1", &[]interface{}{"Status", "Detail", "Value"}); err != nil {
		return fmt.Errorf("export: controls header: %w", err)
	}
	if err := book.SetCellStyle(controlsSheet, "A1", "C1", header); err != nil {
		return fmt.Errorf("export: controls header style: %w", err)
	}
	if err := book.SetCellValue(controlsSheet, "E1", "Run"); err != nil {
		return fmt.Errorf("export: controls run cell: %w", err)
	}
	if err := book.SetCellValue(controlsSheet, "F1", report.RunID.String()); err != nil {
		return fmt.Errorf("export: controls run id: %w", err)
	}

	for i, result := range report.Results {
		row := i + 2
		values := []interface{}{string(result.Status), result.Detail, result.Value}
		if err := book.SetSheetRow(controlsSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("export: controls row %d: %w", row, err)
		}
	}
	if err := book.SetColWidth(controlsSheet, "B", "B", 60); err != nil {
		return fmt.Errorf("export: controls col width: %w", err)
	}
	return book.SetColWidth(controlsSheet, "C", "C", 30)
}

func ptr[T any](v T) *T { return &v }
