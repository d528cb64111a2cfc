package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ValuationRun records one batch valuation pass over a user's properties.
type ValuationRun struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	StartedAt  time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt time.Time      `gorm:"column:finished_at;not null" json:"finished_at"`
	Total      int            `gorm:"column:total;not null;default:0" json:"total"`
	Successful int            `gorm:"column:successful;not null;default:0" json:"successful"`
	Failed     int            `gorm:"column:failed;not null;default:0" json:"failed"`
	Skipped    int            `gorm:"column:skipped;not null;default:0" json:"skipped"`
	Failures   datatypes.JSON `gorm:"column:failures" json:"failures"`
	CreatedAt  time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (ValuationRun) TableName() string {
	return "valuation_runs"
}

func (r *ValuationRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
