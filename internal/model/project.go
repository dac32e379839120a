package model

import (
	"time"
)

const (
	ProjectStatusActive    = "ACTIVE"
	ProjectStatusOnHold    = "ON_HOLD"
	ProjectStatusCompleted = "COMPLETED"
)

// Project is a construction site/job that ledger transactions are
// attributed to. Transactions may outlive the project record itself,
// so read paths must tolerate a missing project.
type Project struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(128);not null" json:"name"`
	Status    string    `gorm:"type:varchar(20);not null;default:ACTIVE" json:"status"`
	Location  string    `gorm:"type:varchar(128)" json:"location"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Project) TableName() string {
	return "project"
}
