package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RentalStatus string

const (
	RentalSelfOccupied RentalStatus = "self_occupied"
	RentalRented       RentalStatus = "rented"
	RentalVacant       RentalStatus = "vacant"
)

// Cashflow holds the recurring income and expenses of an Asset. Security
// deposits are deliberately absent: they are never income.
type Cashflow struct {
	ID                   uuid.UUID    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AssetID              uuid.UUID    `gorm:"column:asset_id;type:uuid;not null;uniqueIndex" json:"asset_id"`
	RentalStatus         RentalStatus `gorm:"column:rental_status;type:varchar(32);not null;default:'self_occupied'" json:"rental_status"`
	MonthlyRent          *float64     `gorm:"column:monthly_rent;type:decimal(18,2)" json:"monthly_rent"`
	MaintenanceMonthly   *float64     `gorm:"column:maintenance_monthly;type:decimal(18,2)" json:"maintenance_monthly"`
	PropertyTaxAnnual    *float64     `gorm:"column:property_tax_annual;type:decimal(18,2)" json:"property_tax_annual"`
	OtherExpensesMonthly *float64     `gorm:"column:other_expenses_monthly;type:decimal(18,2)" json:"other_expenses_monthly"`
	// Moves only when rent or rental status changes; expense edits leave it alone.
	RentChangedAt        *time.Time   `gorm:"column:rent_changed_at" json:"rent_changed_at"`
	CreatedAt            time.Time    `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time    `gorm:"column:updated_at" json:"updated_at"`
}

func (Cashflow) TableName() string {
	return "real_estate_cashflows"
}

func (c *Cashflow) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.RentChangedAt == nil {
		now := tx.NowFunc()
		c.RentChangedAt = &now
	}
	return nil
}

func (c *Cashflow) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("MonthlyRent", "RentalStatus") {
		now := tx.NowFunc()
		tx.Statement.SetColumn("RentChangedAt", &now)
	}
	return nil
}

// IsRented reports whether the property currently earns rent.
func (c *Cashflow) IsRented() bool {
	return c != nil && c.RentalStatus == RentalRented
}
