package model

import (
	"time"
)

const (
	PaymentOutStatusPendingApproval = "PENDING_APPROVAL"
	PaymentOutStatusApproved        = "APPROVED"
	PaymentOutStatusRejected        = "REJECTED"
)

// PaymentOutEntry is the approval-workflow record created alongside every
// payment transaction. The approval state machine itself lives elsewhere;
// the ledger only creates entries (always PENDING_APPROVAL) and maintains
// the bidirectional link with the ledger transaction:
//
//	entry.TransactionNo      -> ledger transaction   (set at creation)
//	txn.LinkedApprovalEntryID -> entry.EntryNo       (set after creation)
type PaymentOutEntry struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryNo       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"entry_no"`
	TransactionNo string    `gorm:"type:varchar(64);index;not null" json:"transaction_no"` // back-reference to the ledger row
	SupplierID    int64     `gorm:"index;not null" json:"supplier_id"`
	ProjectID     int64     `gorm:"index;not null" json:"project_id"`
	Amount        string    `gorm:"type:varchar(32);not null" json:"amount"`
	PaymentMode   string    `gorm:"type:varchar(32);not null" json:"payment_mode"`
	Description   string    `gorm:"type:varchar(256)" json:"description"`
	Status        string    `gorm:"type:varchar(20);index;not null;default:PENDING_APPROVAL" json:"status"`
	RequestedBy   string    `gorm:"type:varchar(64);not null" json:"requested_by"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PaymentOutEntry) TableName() string {
	return "payment_out_entry"
}
