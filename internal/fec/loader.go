package fec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrFileMissing indicates that no FEC export exists for an entity/period.
// The pipeline treats this as "entity has no data this month".
var ErrFileMissing = errors.New("fec: export file missing")

// ecritureDateLayout is the statutory FEC date format.
const ecritureDateLayout = "20060102"

// Loader reads statutory FEC exports from a directory. Files are named
// FEC_<period>_<entity>.txt, tab-separated, latin-1 encoded, with
// comma-decimal amounts.
type Loader struct {
	dir string
}

// NewLoader constructs a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load reads the export for one entity and period.
func (l *Loader) Load(entity string, period Period) ([]LedgerLine, error) {
	path := filepath.Join(l.dir, fmt.Sprintf("FEC_%s_%s.txt", period, entity))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileMissing, path)
		}
		return nil, fmt.Errorf("fec: open %s: %w", path, err)
	}
	defer f.Close()

	lines, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("fec: parse %s: %w", path, err)
	}
	return lines, nil
}

// Parse reads FEC rows from r. The reader is decoded from latin-1 before
// splitting; header names are matched after trimming so exports with
// padded headers still resolve.
func Parse(r io.Reader) ([]LedgerLine, error) {
	reader := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty export")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header, "JournalCode", "CompteNum", "EcritureDate", "Debit", "Credit")
	if err != nil {
		return nil, err
	}

	var lines []LedgerLine
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		get := func(name string) string {
			idx := cols[name]
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		line := LedgerLine{
			JournalCode: get("JournalCode"),
			AccountNum:  get("CompteNum"),
			Debit:       parseAmount(get("Debit")),
			Credit:      parseAmount(get("Credit")),
		}
		// Unparsable dates stay zero; the netter's period filter drops
		// them and the quality controller reports the count.
		if d, err := time.Parse(ecritureDateLayout, get("EcritureDate")); err == nil {
			line.Date = d
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// parseAmount converts a locale-formatted decimal ("1 234,56") to float64.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func columnIndex(header []string, required ...string) (map[string]int, error) {
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
