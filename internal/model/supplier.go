package model

import (
	"time"
)

// Supplier is a vendor the business buys materials or services from.
// The ledger references suppliers by id; deleting a supplier is not
// supported once transactions exist.
type Supplier struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"`
	Contact   string    `gorm:"type:varchar(128)" json:"contact"`
	Notes     string    `gorm:"type:varchar(256)" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Supplier) TableName() string {
	return "supplier"
}
