package ledger

import (
	"sort"

	"siteledger/internal/model"

	"github.com/shopspring/decimal"
)

// StatementLine is a ledger transaction annotated with the cumulative
// balance after it was applied.
type StatementLine struct {
	model.SupplierTransaction
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// Statement computes the running balance over a transaction set and
// returns it newest-first, ready for display.
//
// Ordering: business date ascending, ties broken by entry timestamp then
// id. The tie-break matters: store query order is not guaranteed stable
// and must not leak into statements.
//
// Return order is the reverse of computation order; callers wanting the
// current balance read it off the first line. An empty input yields an
// empty statement and no current balance.
func Statement(txns []model.SupplierTransaction) []StatementLine {
	ordered := make([]model.SupplierTransaction, len(txns))
	copy(ordered, txns)

	sort.Slice(ordered, func(i, j int) bool {
		a, b := &ordered[i], &ordered[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.EnteredAt.Equal(b.EnteredAt) {
			return a.EnteredAt.Before(b.EnteredAt)
		}
		return a.ID < b.ID
	})

	lines := make([]StatementLine, 0, len(ordered))
	running := decimal.Zero
	for i := range ordered {
		t := &ordered[i]
		kind, ok := NormalizeKind(t.Kind)
		if ok {
			switch kind {
			case model.KindPurchase:
				running = running.Add(Amount(t))
			case model.KindPayment:
				running = running.Sub(Amount(t))
			}
		}
		lines = append(lines, StatementLine{SupplierTransaction: *t, RunningBalance: running})
	}

	// newest first
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}

// CurrentBalance returns the running balance of the most recent line.
// ok is false when the statement is empty; the caller decides what an
// empty ledger means for display.
func CurrentBalance(lines []StatementLine) (decimal.Decimal, bool) {
	if len(lines) == 0 {
		return decimal.Zero, false
	}
	return lines[0].RunningBalance, true
}
