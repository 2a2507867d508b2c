package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/carelog-health/carelog/internal/shared/constants"
)

// BillingEventModel represents the database persistence model for processed
// billing events. Rows are insert-only; the unique SID index turns a webhook
// redelivery into a duplicate key error instead of a double apply.
type BillingEventModel struct {
	ID          uint           `gorm:"primarykey"`
	SID         string         `gorm:"column:sid;uniqueIndex:uk_sid;not null;size:128;comment:provider event ID, or evt_xxx for synthesized events"`
	EventType   string         `gorm:"not null;size:50"`
	UserID      string         `gorm:"not null;size:64;index:idx_user_processed,priority:1"`
	Payload     datatypes.JSON `gorm:"comment:raw provider payload kept for audit"`
	ProcessedAt time.Time      `gorm:"not null;index:idx_user_processed,priority:2"`
	CreatedAt   time.Time
}

// TableName specifies the table name for GORM
func (BillingEventModel) TableName() string {
	return constants.TableBillingEvents
}
