package insights

import (
	"context"
	"time"

	"estate-backend/internal/application/analytics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PortfolioSource is the analytics read the engine runs on.
type PortfolioSource interface {
	Portfolio(ctx context.Context, userID uuid.UUID) (*analytics.Portfolio, error)
}

type Service struct {
	Analytics PortfolioSource
	Engine    *Engine
	Cache     *Cache
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ForUser returns the user's insights, served from cache when fresh. Cache
// failures are logged and bypassed.
func (s *Service) ForUser(ctx context.Context, userID uuid.UUID) (*Report, error) {
	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("insights: cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	p, err := s.Analytics.Portfolio(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	list := s.Engine.Evaluate(Input{Properties: p.Properties, Summary: p.Summary, Now: now})
	report := &Report{Insights: list, Summary: summarize(list), GeneratedAt: now}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, userID, report); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("insights: cache write failed")
		}
	}
	log.Debug().
		Str("user_id", userID.String()).
		Int("total", report.Summary.Total).
		Int("critical", report.Summary.Critical).
		Msg("insights: evaluated")
	return report, nil
}
