package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Loan is the (at most one) loan against an Asset. EMI and loan amount are
// property-level obligations and are never split by ownership share.
type Loan struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AssetID            uuid.UUID  `gorm:"column:asset_id;type:uuid;not null;uniqueIndex" json:"asset_id"`
	LoanAmount         float64    `gorm:"column:loan_amount;type:decimal(18,2);not null" json:"loan_amount"`
	OutstandingBalance float64    `gorm:"column:outstanding_balance;type:decimal(18,2);not null;default:0" json:"outstanding_balance"`
	EMI                float64    `gorm:"column:emi;type:decimal(18,2);not null;default:0" json:"emi"`
	InterestRate       *float64   `gorm:"column:interest_rate;type:decimal(6,3)" json:"interest_rate"`
	// Moves only when EMI changes; balance paydowns leave it alone.
	EMIChangedAt       *time.Time `gorm:"column:emi_changed_at" json:"emi_changed_at"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Loan) TableName() string {
	return "real_estate_loans"
}

func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.EMIChangedAt == nil {
		now := tx.NowFunc()
		l.EMIChangedAt = &now
	}
	return nil
}

// BeforeUpdate stamps EMIChangedAt when an Update/Updates call changes EMI.
func (l *Loan) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("EMI") {
		now := tx.NowFunc()
		tx.Statement.SetColumn("EMIChangedAt", &now)
	}
	return nil
}
