package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocalityPriceBand is a price-per-unit-area range for a city and property
// type. PostalArea is empty for the city-wide band.
type LocalityPriceBand struct {
	ID              uuid.UUID    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	City            string       `gorm:"column:city;not null;index:idx_band_lookup" json:"city"`
	PostalArea      string       `gorm:"column:postal_area;index:idx_band_lookup" json:"postal_area"`
	PropertyType    PropertyType `gorm:"column:property_type;type:varchar(32);not null;index:idx_band_lookup" json:"property_type"`
	MinPricePerArea float64      `gorm:"column:min_price_per_area;type:decimal(18,2);not null" json:"min_price_per_area"`
	MaxPricePerArea float64      `gorm:"column:max_price_per_area;type:decimal(18,2);not null" json:"max_price_per_area"`
	UpdatedAt       time.Time    `gorm:"column:updated_at" json:"updated_at"`
}

func (LocalityPriceBand) TableName() string {
	return "locality_price_bands"
}

func (b *LocalityPriceBand) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
