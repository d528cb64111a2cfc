package analytics

import (
	"context"
	"errors"

	"estate-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NetWorthProvider supplies a user's total net worth across all asset
// classes. A nil total means the figure is unknown.
type NetWorthProvider interface {
	TotalNetWorth(ctx context.Context, userID uuid.UUID) (*float64, error)
}

// GormNetWorthProvider reads the newest net_worth_snapshots row.
type GormNetWorthProvider struct {
	DB *gorm.DB
}

func (p *GormNetWorthProvider) TotalNetWorth(ctx context.Context, userID uuid.UUID) (*float64, error) {
	var snap domain.NetWorthSnapshot
	err := p.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("as_of DESC").
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	total := snap.Total
	return &total, nil
}
