package ledger

import (
	"testing"
	"time"

	"siteledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(id, supplierID, projectID int64, kind, amount string) model.SupplierTransaction {
	return model.SupplierTransaction{
		ID:         id,
		SupplierID: supplierID,
		ProjectID:  projectID,
		Kind:       kind,
		Amount:     amount,
		Date:       time.Date(2025, 6, int(id%28)+1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCalculate_Payable(t *testing.T) {
	txns := []model.SupplierTransaction{
		txn(1, 7, 1, model.KindPurchase, "1000"),
		txn(2, 7, 1, model.KindPayment, "600"),
	}

	b := Calculate(txns, 7, 0)

	assert.Equal(t, "1000", b.TotalPurchases.String())
	assert.Equal(t, "600", b.TotalPayments.String())
	assert.Equal(t, "400", b.RawBalance.String())
	assert.Equal(t, "400", b.OutstandingBalance.String())
	assert.Equal(t, BalanceTypePayable, b.BalanceType)
}

func TestCalculate_Overpaid(t *testing.T) {
	txns := []model.SupplierTransaction{
		txn(1, 7, 1, model.KindPurchase, "500"),
		txn(2, 7, 1, model.KindPayment, "800"),
	}

	b := Calculate(txns, 7, 0)

	assert.Equal(t, "-300", b.RawBalance.String())
	assert.Equal(t, "300", b.OutstandingBalance.String())
	assert.Equal(t, BalanceTypeOverpaid, b.BalanceType)
}

func TestCalculate_EmptyIsSettled(t *testing.T) {
	b := Calculate(nil, 7, 0)

	assert.True(t, b.TotalPurchases.IsZero())
	assert.True(t, b.TotalPayments.IsZero())
	assert.True(t, b.RawBalance.IsZero())
	assert.True(t, b.OutstandingBalance.IsZero())
	assert.Equal(t, BalanceTypeSettled, b.BalanceType)
}

func TestCalculate_LegacyKindAliases(t *testing.T) {
	canonical := []model.SupplierTransaction{
		txn(1, 7, 1, model.KindPurchase, "1000"),
		txn(2, 7, 1, model.KindPayment, "600"),
	}
	legacy := []model.SupplierTransaction{
		txn(1, 7, 1, "credit", "1000"),
		txn(2, 7, 1, "debit", "600"),
	}

	assert.Equal(t, Calculate(canonical, 7, 0), Calculate(legacy, 7, 0))
}

func TestCalculate_UnrecognizedKindIgnored(t *testing.T) {
	txns := []model.SupplierTransaction{
		txn(1, 7, 1, model.KindPurchase, "1000"),
		txn(2, 7, 1, "ADJUSTMENT", "9999"),
	}

	b := Calculate(txns, 7, 0)

	assert.Equal(t, "1000", b.RawBalance.String())
}

func TestCalculate_MalformedAmountCoercesToZero(t *testing.T) {
	txns := []model.SupplierTransaction{
		txn(1, 7, 1, model.KindPurchase, "250.50"),
		txn(2, 7, 1, model.KindPurchase, ""),
		txn(3, 7, 1, model.KindPurchase, "n/a"),
		txn(4, 7, 1, model.KindPayment, "  50.50 "),
	}

	b := Calculate(txns, 7, 0)

	assert.Equal(t, "250.5", b.TotalPurchases.String())
	assert.Equal(t, "50.5", b.TotalPayments.String())
	assert.Equal(t, "200", b.RawBalance.String())
}

func TestCalculate_FiltersSupplierAndProject(t *testing.T) {
	txns := []model.SupplierTransaction{
		txn(1, 7, 1, model.KindPurchase, "100"),
		txn(2, 7, 2, model.KindPurchase, "200"),
		txn(3, 9, 1, model.KindPurchase, "5000"), // other supplier
	}

	all := Calculate(txns, 7, 0)
	assert.Equal(t, "300", all.TotalPurchases.String())

	scoped := Calculate(txns, 7, 2)
	assert.Equal(t, "200", scoped.TotalPurchases.String())
}

func TestCalculate_Identities(t *testing.T) {
	txns := []model.SupplierTransaction{
		txn(1, 7, 1, model.KindPurchase, "123.45"),
		txn(2, 7, 2, "credit", "0.55"),
		txn(3, 7, 1, model.KindPayment, "200"),
		txn(4, 7, 2, "debit", "24"),
		txn(5, 7, 1, "garbage", "1"),
	}

	b := Calculate(txns, 7, 0)

	require.True(t, b.RawBalance.Equal(b.TotalPurchases.Sub(b.TotalPayments)))
	require.True(t, b.OutstandingBalance.Equal(b.RawBalance.Abs()))

	// exhaustive and exclusive type classification
	switch b.BalanceType {
	case BalanceTypePayable:
		assert.True(t, b.RawBalance.IsPositive())
	case BalanceTypeOverpaid:
		assert.True(t, b.RawBalance.IsNegative())
	case BalanceTypeSettled:
		assert.True(t, b.RawBalance.IsZero())
	default:
		t.Fatalf("unknown balance type %q", b.BalanceType)
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	txns := []model.SupplierTransaction{
		txn(1, 7, 1, model.KindPurchase, "77.70"),
		txn(2, 7, 1, model.KindPayment, "7.77"),
	}

	first := Calculate(txns, 7, 0)
	second := Calculate(txns, 7, 0)

	assert.Equal(t, first, second)
}

func TestNormalizeKind(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"PURCHASE", model.KindPurchase, true},
		{"purchase", model.KindPurchase, true},
		{"credit", model.KindPurchase, true},
		{"CREDIT", model.KindPurchase, true},
		{"PAYMENT", model.KindPayment, true},
		{"debit", model.KindPayment, true},
		{" Debit ", model.KindPayment, true},
		{"refund", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		kind, ok := NormalizeKind(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, kind, "raw=%q", tc.raw)
	}
}
