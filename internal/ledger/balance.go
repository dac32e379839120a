package ledger

import (
	"strings"

	"siteledger/internal/model"

	"github.com/shopspring/decimal"
)

// ============================================================================
// Balance calculator
// ============================================================================
//
// Balances are never stored. Every read reduces the full transaction set,
// so these functions must be pure: no locks, no caches, no side effects.

const (
	BalanceTypePayable  = "payable"  // we still owe the supplier
	BalanceTypeOverpaid = "overpaid" // supplier owes us back
	BalanceTypeSettled  = "settled"
)

// Balance is the derived position against a supplier.
// RawBalance is signed (purchases - payments); OutstandingBalance is its
// absolute value so callers never re-derive sign semantics.
type Balance struct {
	TotalPurchases     decimal.Decimal `json:"total_purchases"`
	TotalPayments      decimal.Decimal `json:"total_payments"`
	RawBalance         decimal.Decimal `json:"raw_balance"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	BalanceType        string          `json:"balance_type"`
}

// Amount parses a stored amount value. The ledger tolerates dirty
// historical rows: blanks and non-numeric junk coerce to zero so that
// aggregate reads never fail on old data.
func Amount(t *model.SupplierTransaction) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(t.Amount))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Calculate reduces a transaction set to the balance against supplierID.
// projectID scopes the balance to one project; projectID == 0 means all
// projects for the supplier. Rows with an unrecognized kind count as
// neither purchase nor payment.
func Calculate(txns []model.SupplierTransaction, supplierID, projectID int64) Balance {
	purchases := decimal.Zero
	payments := decimal.Zero

	for i := range txns {
		t := &txns[i]
		if t.SupplierID != supplierID {
			continue
		}
		if projectID != 0 && t.ProjectID != projectID {
			continue
		}

		kind, ok := NormalizeKind(t.Kind)
		if !ok {
			continue
		}
		switch kind {
		case model.KindPurchase:
			purchases = purchases.Add(Amount(t))
		case model.KindPayment:
			payments = payments.Add(Amount(t))
		}
	}

	raw := purchases.Sub(payments)

	balanceType := BalanceTypeSettled
	switch {
	case raw.IsPositive():
		balanceType = BalanceTypePayable
	case raw.IsNegative():
		balanceType = BalanceTypeOverpaid
	}

	return Balance{
		TotalPurchases:     purchases,
		TotalPayments:      payments,
		RawBalance:         raw,
		OutstandingBalance: raw.Abs(),
		BalanceType:        balanceType,
	}
}
