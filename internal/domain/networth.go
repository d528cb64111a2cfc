package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NetWorthSnapshot is written by the wider portfolio system; the newest row
// per user carries the user's total net worth across asset classes.
type NetWorthSnapshot struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Total     float64   `gorm:"column:total;type:decimal(18,2);not null" json:"total"`
	AsOf      time.Time `gorm:"column:as_of;not null" json:"as_of"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (NetWorthSnapshot) TableName() string {
	return "net_worth_snapshots"
}

func (n *NetWorthSnapshot) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
