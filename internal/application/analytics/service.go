package analytics

import (
	"context"
	"errors"
	"time"

	"estate-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrPropertyNotFound = errors.New("Property not found")

// Portfolio is the full analytics read model for one user.
type Portfolio struct {
	Properties []PropertyAnalytics `json:"properties"`
	Summary    PortfolioSummary    `json:"summary"`
}

// Service loads ownership-scoped rows and runs the pure calculators on them.
type Service struct {
	DB       *gorm.DB
	NetWorth NetWorthProvider
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Property returns analytics for one property owned by userID.
func (s *Service) Property(ctx context.Context, userID, propertyID uuid.UUID) (*PropertyAnalytics, error) {
	var asset domain.Asset
	err := s.DB.WithContext(ctx).
		Preload("Loan").
		Preload("Cashflow").
		Where("id = ? AND user_id = ?", propertyID, userID).
		First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	out := ComputeProperty(&asset, s.now())
	return &out, nil
}

// Portfolio returns per-property analytics plus the aggregate for userID.
func (s *Service) Portfolio(ctx context.Context, userID uuid.UUID) (*Portfolio, error) {
	var assets []domain.Asset
	if err := s.DB.WithContext(ctx).
		Preload("Loan").
		Preload("Cashflow").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&assets).Error; err != nil {
		return nil, err
	}

	now := s.now()
	props := make([]PropertyAnalytics, 0, len(assets))
	for i := range assets {
		props = append(props, ComputeProperty(&assets[i], now))
	}

	return &Portfolio{
		Properties: props,
		Summary:    Aggregate(props, s.totalNetWorth(ctx, userID)),
	}, nil
}

// totalNetWorth degrades to unknown when the provider fails.
func (s *Service) totalNetWorth(ctx context.Context, userID uuid.UUID) *float64 {
	if s.NetWorth == nil {
		return nil
	}
	total, err := s.NetWorth.TotalNetWorth(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("analytics: net worth unavailable")
		return nil
	}
	return total
}
