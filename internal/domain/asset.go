package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PropertyType string

const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
	PropertyLand        PropertyType = "land"
)

type PropertyStatus string

const (
	StatusReady             PropertyStatus = "ready"
	StatusUnderConstruction PropertyStatus = "under_construction"
)

// Asset is a real-estate holding owned by a user. Monetary columns that may be
// unknown are pointers; nil means "not supplied", never zero.
type Asset struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Name                string         `gorm:"column:name;not null" json:"name"`
	PropertyType        PropertyType   `gorm:"column:property_type;type:varchar(32);not null" json:"property_type"`
	PropertyStatus      PropertyStatus `gorm:"column:property_status;type:varchar(32);not null;default:'ready'" json:"property_status"`
	PurchasePrice       *float64       `gorm:"column:purchase_price;type:decimal(18,2)" json:"purchase_price"`
	PurchaseDate        *time.Time     `gorm:"column:purchase_date" json:"purchase_date"`
	OwnershipPercentage *float64       `gorm:"column:ownership_percentage;type:decimal(5,2)" json:"ownership_percentage"`
	City                string         `gorm:"column:city" json:"city"`
	PostalArea          string         `gorm:"column:postal_area" json:"postal_area"`
	CarpetArea          *float64       `gorm:"column:carpet_area" json:"carpet_area"`
	BuiltUpArea         *float64       `gorm:"column:built_up_area" json:"built_up_area"`

	// Written only by explicit user action.
	UserOverrideValue *float64 `gorm:"column:user_override_value;type:decimal(18,2)" json:"user_override_value"`
	// Written only by the valuation updater.
	SystemEstimatedMin   *float64   `gorm:"column:system_estimated_min;type:decimal(18,2)" json:"system_estimated_min"`
	SystemEstimatedMax   *float64   `gorm:"column:system_estimated_max;type:decimal(18,2)" json:"system_estimated_max"`
	ValuationLastUpdated *time.Time `gorm:"column:valuation_last_updated" json:"valuation_last_updated"`

	Loan     *Loan     `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"loan,omitempty"`
	Cashflow *Cashflow `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"cashflow,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Asset) TableName() string {
	return "real_estate_assets"
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Area returns carpet area when known, built-up area otherwise.
func (a *Asset) Area() *float64 {
	if a.CarpetArea != nil && *a.CarpetArea > 0 {
		return a.CarpetArea
	}
	if a.BuiltUpArea != nil && *a.BuiltUpArea > 0 {
		return a.BuiltUpArea
	}
	return nil
}
