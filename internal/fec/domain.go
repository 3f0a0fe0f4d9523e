package fec

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Journal code reserved for opening-balance entries. Those lines carry the
// prior-year carryover and never contribute to a monthly statement.
const OpeningJournalCode = "AN"

// ErrInvalidPeriod indicates a period string that is not YYYYMM.
var ErrInvalidPeriod = errors.New("fec: invalid period, expected YYYYMM")

// LedgerLine is one posted journal row from a FEC export. Lines are read
// once by the loader and never mutated afterwards.
type LedgerLine struct {
	JournalCode string
	AccountNum  string
	Date        time.Time
	Debit       float64
	Credit      float64
}

// AccountClass returns the leading digit of the account number, which
// identifies the account class under the French chart of accounts.
func (l LedgerLine) AccountClass() byte {
	if l.AccountNum == "" {
		return 0
	}
	return l.AccountNum[0]
}

// AccountBalance is the net signed amount of one account for one month.
type AccountBalance struct {
	AccountNum string
	Amount     float64
}

// Period identifies the calendar month being closed.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses the YYYYMM form used across input file names.
func ParsePeriod(s string) (Period, error) {
	if len(s) != 6 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	month, err := strconv.Atoi(s[4:])
	if err != nil || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// Contains reports whether t falls inside the period. The zero time is
// never contained, so lines with unparsable dates drop out of the monthly
// filter (the quality controller counts them separately).
func (p Period) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return t.Year() == p.Year && t.Month() == p.Month
}

// String renders the period back to its YYYYMM form.
func (p Period) String() string {
	return fmt.Sprintf("%04d%02d", p.Year, int(p.Month))
}
