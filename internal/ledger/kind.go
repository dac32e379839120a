package ledger

import (
	"strings"

	"siteledger/internal/model"
)

// NormalizeKind maps a stored kind value onto the two canonical kinds.
// Rows written by the old bookkeeping app used accounting shorthand:
// "credit" was a purchase taken on credit, "debit" a payment out.
//
// ok is false for anything unrecognized. Calculators skip such rows
// instead of failing, so a future kind can land in the store without
// breaking every balance read.
func NormalizeKind(raw string) (kind string, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case model.KindPurchase, "CREDIT":
		return model.KindPurchase, true
	case model.KindPayment, "DEBIT":
		return model.KindPayment, true
	default:
		return "", false
	}
}
