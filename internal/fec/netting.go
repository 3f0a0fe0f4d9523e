package fec

import "sort"

// NetByAccount folds the ledger lines of one entity into one signed net
// amount per account for the target month.
//
// Opening-balance entries (journal "AN") are excluded, as are lines dated
// outside the period. Sign convention follows the French chart of
// accounts: class-7 accounts (revenue) net credit minus debit, everything
// else nets debit minus credit, so both a booked revenue and a booked
// expense come out positive.
func NetByAccount(lines []LedgerLine, period Period) []AccountBalance {
	totals := make(map[string]float64)
	for _, line := range lines {
		if line.JournalCode == OpeningJournalCode {
			continue
		}
		if !period.Contains(line.Date) {
			continue
		}
		net := line.Debit - line.Credit
		if line.AccountClass() == '7' {
			net = line.Credit - line.Debit
		}
		// An account that nets to zero must still appear, so the key is
		// registered even when net == 0.
		totals[line.AccountNum] += net
	}

	balances := make([]AccountBalance, 0, len(totals))
	for account, amount := range totals {
		balances = append(balances, AccountBalance{AccountNum: account, Amount: amount})
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].AccountNum < balances[j].AccountNum })
	return balances
}
