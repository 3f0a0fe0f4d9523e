package refdata

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/meridian-games/fecpl/internal/fec"
)

func writeSheet(t *testing.T, book *excelize.File, sheet string, rows [][]interface{}) {
	t.Helper()
	idx, err := book.GetSheetIndex(sheet)
	require.NoError(t, err)
	if idx < 0 {
		_, err = book.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(sheet, cell, &row))
	}
}

func saveWorkbook(t *testing.T, name string, sheets map[string][][]interface{}) string {
	t.Helper()
	book := excelize.NewFile()
	first := true
	for sheet, rows := range sheets {
		if first {
			require.NoError(t, book.SetSheetName("Sheet1", sheet))
			first = false
		}
		writeSheet(t, book, sheet, rows)
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, book.SaveAs(path))
	require.NoError(t, book.Close())
	return path
}

func TestLoadMappings(t *testing.T) {
	path := saveWorkbook(t, "mapping_pcg.xlsx", map[string][][]interface{}{
		"FR": {
			{"numero_compte", "mapping_pl_detail"},
			{"706100", "rev_to_allocate"},
			{"613200", "i2"},
			{"512000", "NA"},
		},
	})

	loader := NewWorkbookLoader()
	tables, err := loader.LoadMappings(path, []string{"FR", "PID"})
	require.NoError(t, err)
	require.Contains(t, tables, "FR")
	require.NotContains(t, tables, "PID") // no sheet, entity absent
	require.Equal(t, "rev_to_allocate", tables["FR"]["706100"])
}

func TestLoadMappingsDuplicateAborts(t *testing.T) {
	path := saveWorkbook(t, "mapping_pcg.xlsx", map[string][][]interface{}{
		"FR": {
			{"numero_compte", "mapping_pl_detail"},
			{"706100", "a1"},
			{"706100", "a2"},
		},
	})

	loader := NewWorkbookLoader()
	_, err := loader.LoadMappings(path, []string{"FR"})
	require.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestLoadStructures(t *testing.T) {
	path := saveWorkbook(t, "mapping_pcg.xlsx", map[string][][]interface{}{
		"P&L PID": {
			{"code", "label"},
			{"a1", "Revenue Publishing"},
			{"a2", "Revenue Distribution"},
			{"a1+a2", "Total revenue"},
		},
	})

	loader := NewWorkbookLoader()
	structures, err := loader.LoadStructures(path, []string{"P&L PID"})
	require.NoError(t, err)
	rows := structures["P&L PID"]
	require.Len(t, rows, 3)
	require.Equal(t, KindDetail, rows[0].Kind)
	require.Equal(t, KindTotal, rows[2].Kind)
}

func TestLoadStructuresMissingSheet(t *testing.T) {
	path := saveWorkbook(t, "mapping_pcg.xlsx", map[string][][]interface{}{
		"FR": {{"numero_compte", "mapping_pl_detail"}},
	})

	loader := NewWorkbookLoader()
	_, err := loader.LoadStructures(path, []string{"P&L PID"})
	require.Error(t, err)
}

func TestLoadBUSplitsFiltersPeriod(t *testing.T) {
	path := saveWorkbook(t, "split_ca_cogs.xlsx", map[string][][]interface{}{
		"splits": {
			{"periode", "entite", "type", "BU", "Montant"},
			{"01/12/2025", "FR", "Revenue", "Publishing", "60"},
			{"01/12/2025", "FR", "Revenue", "Distribution", "40"},
			{"01/11/2025", "FR", "Revenue", "Publishing", "999"},
		},
	})

	loader := NewWorkbookLoader()
	splits, err := loader.LoadBUSplits(path, fec.Period{Year: 2025, Month: time.December})
	require.NoError(t, err)
	require.Len(t, splits, 2)
	require.Equal(t, "Publishing", splits[0].BusinessUnit)
	require.InDelta(t, 60.0, splits[0].Amount, 1e-9)
}

func TestLoadPayrollSplits(t *testing.T) {
	path := saveWorkbook(t, "split_rh.xlsx", map[string][][]interface{}{
		"splits": {
			{"periode", "entite", "type", "montant"},
			{"01/12/2025", "PID+FR", "Operating staff costs", "1000"},
			{"01/12/2025", "PID+FR", "Operating activation", "250"},
		},
	})

	loader := NewWorkbookLoader()
	splits, err := loader.LoadPayrollSplits(path, fec.Period{Year: 2025, Month: time.December})
	require.NoError(t, err)
	require.Len(t, splits, 2)
	require.Equal(t, "PID+FR", splits[0].Group)
}
