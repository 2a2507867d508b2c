package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/carelog-health/carelog/internal/shared/constants"
)

// UserEntitlementStateModel represents the database persistence model for
// per-user entitlement state. One row per user; the unique user_id index is
// what makes concurrent first-touch creation safe.
type UserEntitlementStateModel struct {
	ID                      uint       `gorm:"primarykey"`
	UserID                  string     `gorm:"uniqueIndex:uk_user_id;not null;size:64"`
	Tier                    string     `gorm:"not null;size:20;default:free;index:idx_tier_period_end,priority:1"`
	Status                  string     `gorm:"not null;size:20;default:''"`
	CurrentPeriodStart      *time.Time `gorm:"comment:billing period start, null for free users"`
	CurrentPeriodEnd        *time.Time `gorm:"index:idx_tier_period_end,priority:2;comment:billing period end, null for free users"`
	CancelAtPeriodEnd       bool       `gorm:"not null;default:false"`
	Timezone                string     `gorm:"not null;size:64;default:UTC"`
	AIMealPlansUsed         int        `gorm:"not null;default:0"`
	AIRecipeSuggestionsUsed int        `gorm:"not null;default:0"`
	PDFExportsUsed          int        `gorm:"not null;default:0"`
	BarcodeScansToday       int        `gorm:"not null;default:0"`
	DayAnchor               time.Time  `gorm:"not null;comment:start of the day the daily counters belong to"`
	MonthAnchor             time.Time  `gorm:"not null;comment:start of the quota period the monthly counters belong to"`
	AITokens                int        `gorm:"not null;default:0"`
	ExportTokens            int        `gorm:"not null;default:0"`
	StreakShields           int        `gorm:"not null;default:0"`
	Version                 int        `gorm:"not null;default:1"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// TableName specifies the table name for GORM
func (UserEntitlementStateModel) TableName() string {
	return constants.TableUserEntitlementStates
}

// BeforeCreate hook for GORM
func (m *UserEntitlementStateModel) BeforeCreate(tx *gorm.DB) error {
	if m.Version == 0 {
		m.Version = 1
	}
	return nil
}
