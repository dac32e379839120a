package model

import (
	"time"
)

// ============================================================================
// Transaction kind constants
// ============================================================================

const (
	KindPurchase = "PURCHASE" // goods/material received from the supplier
	KindPayment  = "PAYMENT"  // money paid out to the supplier
)

// ============================================================================
// Supplier ledger transaction entity
// ============================================================================

// SupplierTransaction is one row of the supplier ledger.
// It is the authoritative source for every balance the system shows.
//
// Ledger design rules:
// 1. Append only. Rows are never deleted and amounts are never edited;
//    the single permitted mutation is attaching the approval-entry link.
// 2. Every row belongs to exactly one supplier and one project.
// 3. Amount is stored as text. Historical data imported from the old books
//    contains blanks and junk values; the ledger package coerces those to
//    zero instead of refusing to compute.
type SupplierTransaction struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionNo string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"transaction_no"` // globally unique number
	SupplierID    int64     `gorm:"index;not null" json:"supplier_id"`
	ProjectID     int64     `gorm:"index;not null" json:"project_id"`
	Kind          string    `gorm:"type:varchar(20);not null" json:"kind"` // PURCHASE / PAYMENT (legacy rows: credit / debit)
	Amount        string    `gorm:"type:varchar(32);not null" json:"amount"`
	Date          time.Time `gorm:"index;not null" json:"date"` // business date, distinct from entry time
	Description   string    `gorm:"type:varchar(256);not null" json:"description"`
	PaymentMode   string    `gorm:"type:varchar(32)" json:"payment_mode,omitempty"` // payments only

	// LinkedApprovalEntryID references the payment-out approval entry.
	// Nil at creation, set exactly once after the entry is created.
	// Always nil for purchases.
	LinkedApprovalEntryID *string `gorm:"type:varchar(64)" json:"linked_approval_entry_id"`

	EnteredBy string    `gorm:"type:varchar(64);not null" json:"entered_by"`
	EnteredAt time.Time `gorm:"autoCreateTime;index" json:"entered_at"`
}

func (SupplierTransaction) TableName() string {
	return "supplier_transaction"
}
