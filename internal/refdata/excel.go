package refdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"github.com/meridian-games/fecpl/internal/fec"
)

// WorkbookLoader reads the reference workbooks: the per-entity PCG mapping
// book (one sheet per entity plus one structure sheet per reporting
// group), and the two allocation-basis books.
type WorkbookLoader struct {
	validate *validator.Validate
}

// NewWorkbookLoader constructs a loader with struct validation wired in.
func NewWorkbookLoader() *WorkbookLoader {
	return &WorkbookLoader{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// LoadMappings reads one mapping sheet per entity from the PCG workbook.
// Entities without a sheet are simply absent from the result; the caller
// decides whether to skip them.
func (w *WorkbookLoader) LoadMappings(path string, entities []string) (map[string]MappingTable, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("refdata: open mapping workbook: %w", err)
	}
	defer book.Close()

	tables := make(map[string]MappingTable, len(entities))
	for _, entity := range entities {
		rows, err := book.GetRows(entity)
		if err != nil {
			continue // entity has no mapping sheet
		}
		entries, err := parseMappingRows(rows)
		if err != nil {
			return nil, fmt.Errorf("refdata: mapping sheet %s: %w", entity, err)
		}
		table, err := NewMappingTable(entries)
		if err != nil {
			return nil, fmt.Errorf("refdata: mapping sheet %s: %w", entity, err)
		}
		tables[entity] = table
	}
	return tables, nil
}

func parseMappingRows(rows [][]string) ([]MappingEntry, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty sheet")
	}
	cols, err := sheetColumns(rows[0], "numero_compte", "mapping_pl_detail")
	if err != nil {
		return nil, err
	}
	entries := make([]MappingEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		account := cellAt(row, cols["numero_compte"])
		if account == "" {
			continue
		}
		entries = append(entries, MappingEntry{
			AccountNum: account,
			Code:       cellAt(row, cols["mapping_pl_detail"]),
		})
	}
	return entries, nil
}

// LoadStructures reads one declarative structure sheet per reporting
// group. Row kind is derived from the code/label pair.
func (w *WorkbookLoader) LoadStructures(path string, groups []string) (map[string][]StructureRow, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("refdata: open structure workbook: %w", err)
	}
	defer book.Close()

	structures := make(map[string][]StructureRow, len(groups))
	for _, group := range groups {
		rows, err := book.GetRows(group)
		if err != nil {
			return nil, fmt.Errorf("refdata: structure sheet %q missing", group)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("refdata: structure sheet %q empty", group)
		}
		cols, err := sheetColumns(rows[0], "code", "label")
		if err != nil {
			return nil, fmt.Errorf("refdata: structure sheet %q: %w", group, err)
		}
		structure := make([]StructureRow, 0, len(rows)-1)
		for _, row := range rows[1:] {
			code := cellAt(row, cols["code"])
			label := cellAt(row, cols["label"])
			if code == "" {
				continue
			}
			structure = append(structure, StructureRow{
				Code:  code,
				Label: label,
				Kind:  DeriveKind(code, label),
			})
		}
		structures[group] = structure
	}
	return structures, nil
}

// LoadBUSplits reads the revenue/COGS allocation basis, filtered to the
// target month when the sheet carries a periode column.
func (w *WorkbookLoader) LoadBUSplits(path string, period fec.Period) ([]BUSplitRow, error) {
	rows, err := firstSheetRows(path)
	if err != nil {
		return nil, fmt.Errorf("refdata: open BU split workbook: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	cols, err := sheetColumns(rows[0], "entite", "type", "BU", "Montant")
	if err != nil {
		return nil, fmt.Errorf("refdata: BU split workbook: %w", err)
	}
	periodCol, hasPeriod := columnOf(rows[0], "periode")

	var splits []BUSplitRow
	for i, row := range rows[1:] {
		if hasPeriod && !cellInPeriod(cellAt(row, periodCol), period) {
			continue
		}
		split := BUSplitRow{
			Entity:       cellAt(row, cols["entite"]),
			Kind:         cellAt(row, cols["type"]),
			BusinessUnit: cellAt(row, cols["BU"]),
			Amount:       parseCellAmount(cellAt(row, cols["Montant"])),
		}
		if split.Entity == "" && split.Kind == "" && split.BusinessUnit == "" {
			continue
		}
		if err := w.validate.Struct(split); err != nil {
			return nil, fmt.Errorf("refdata: BU split row %d: %w", i+2, err)
		}
		splits = append(splits, split)
	}
	return splits, nil
}

// LoadPayrollSplits reads the payroll allocation basis, keyed by payroll
// group rather than by entity.
func (w *WorkbookLoader) LoadPayrollSplits(path string, period fec.Period) ([]PayrollSplitRow, error) {
	rows, err := firstSheetRows(path)
	if err != nil {
		return nil, fmt.Errorf("refdata: open payroll split workbook: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	cols, err := sheetColumns(rows[0], "entite", "type", "montant")
	if err != nil {
		return nil, fmt.Errorf("refdata: payroll split workbook: %w", err)
	}
	periodCol, hasPeriod := columnOf(rows[0], "periode")

	var splits []PayrollSplitRow
	for i, row := range rows[1:] {
		if hasPeriod && !cellInPeriod(cellAt(row, periodCol), period) {
			continue
		}
		split := PayrollSplitRow{
			Group:  cellAt(row, cols["entite"]),
			Type:   cellAt(row, cols["type"]),
			Amount: parseCellAmount(cellAt(row, cols["montant"])),
		}
		if split.Group == "" && split.Type == "" {
			continue
		}
		if err := w.validate.Struct(split); err != nil {
			return nil, fmt.Errorf("refdata: payroll split row %d: %w", i+2, err)
		}
		splits = append(splits, split)
	}
	return splits, nil
}

func firstSheetRows(path string) ([][]string, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer book.Close()
	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return book.GetRows(sheets[0])
}

func sheetColumns(header []string, required ...string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}

func columnOf(header []string, name string) (int, bool) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, true
		}
	}
	return 0, false
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseCellAmount tolerates both plain and locale-formatted decimals.
func parseCellAmount(s string) float64 {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// cellPeriodLayouts covers the date renderings seen in the basis books:
// day-first French dates and the default spreadsheet formats.
var cellPeriodLayouts = []string{"02/01/2006", "2/1/2006", "2006-01-02", "01-02-06"}

func cellInPeriod(cell string, period fec.Period) bool {
	for _, layout := range cellPeriodLayouts {
		if d, err := time.Parse(layout, cell); err == nil {
			return period.Contains(d)
		}
	}
	return false
}
