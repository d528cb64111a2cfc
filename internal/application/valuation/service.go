package valuation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"estate-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultWorkers = 3

// CacheInvalidator drops derived data cached for a user after a write-back.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// Service is the valuation updater. It owns the system-estimate columns and
// never reads or writes user_override_value.
type Service struct {
	DB         *gorm.DB
	Calculator *Calculator
	Cache      CacheInvalidator
	Workers    int
	Now        func() time.Time
}

// UpdateResult reports one property's write-back.
type UpdateResult struct {
	PropertyID  uuid.UUID  `json:"propertyId"`
	Success     bool       `json:"success"`
	PreviousMin *float64   `json:"previousMin"`
	PreviousMax *float64   `json:"previousMax"`
	NewMin      *float64   `json:"newMin"`
	NewMax      *float64   `json:"newMax"`
	Confidence  Confidence `json:"confidence,omitempty"`
	Source      Source     `json:"source,omitempty"`
	Error       string     `json:"error,omitempty"`

	Err error `json:"-"`
}

// BatchOptions tunes UpdateAll. SkipRecentDays > 0 leaves out properties
// valued within that many days.
type BatchOptions struct {
	SkipRecentDays int `json:"skip_recent_days"`
}

// BatchResult is the tally of one batch run.
type BatchResult struct {
	RunID      uuid.UUID      `json:"runId"`
	Total      int            `json:"total"`
	Successful int            `json:"successful"`
	Failed     int            `json:"failed"`
	Skipped    int            `json:"skipped"`
	Results    []UpdateResult `json:"results"`
}

type runFailure struct {
	PropertyID uuid.UUID `json:"property_id"`
	Error      string    `json:"error"`
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return DefaultWorkers
}

// UpdateSystemValuation recomputes and overwrites the system estimate of one
// property owned by userID. Failures are reported in the result, not returned.
func (s *Service) UpdateSystemValuation(ctx context.Context, userID, propertyID uuid.UUID) UpdateResult {
	res := s.updateOne(ctx, userID, propertyID, s.now())
	if res.Success {
		s.invalidate(ctx, userID)
	}
	return res
}

func (s *Service) updateOne(ctx context.Context, userID, propertyID uuid.UUID, now time.Time) UpdateResult {
	res := UpdateResult{PropertyID: propertyID}
	fail := func(err error) UpdateResult {
		res.Err = err
		res.Error = err.Error()
		log.Warn().Err(err).Str("property_id", propertyID.String()).Msg("valuation: update failed")
		return res
	}

	var asset domain.Asset
	err := s.DB.WithContext(ctx).
		Omit("user_override_value").
		Where("id = ? AND user_id = ?", propertyID, userID).
		First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(ErrNotFound)
		}
		return fail(err)
	}
	res.PreviousMin, res.PreviousMax = asset.SystemEstimatedMin, asset.SystemEstimatedMax

	est, err := s.Calculator.Calculate(ctx, &asset, now)
	if err != nil {
		return fail(err)
	}

	// Full overwrite of the system columns only; repeated runs are idempotent.
	tx := s.DB.WithContext(ctx).
		Model(&domain.Asset{}).
		Where("id = ? AND user_id = ?", propertyID, userID).
		UpdateColumns(map[string]interface{}{
			"system_estimated_min":   est.SystemEstimatedMin,
			"system_estimated_max":   est.SystemEstimatedMax,
			"valuation_last_updated": est.LastUpdated,
		})
	if tx.Error != nil {
		return fail(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fail(ErrNotFound)
	}

	newMin, newMax := est.SystemEstimatedMin, est.SystemEstimatedMax
	res.Success = true
	res.NewMin, res.NewMax = &newMin, &newMax
	res.Confidence, res.Source = est.Confidence, est.Source
	log.Info().
		Str("property_id", propertyID.String()).
		Interface("previous_min", res.PreviousMin).
		Interface("previous_max", res.PreviousMax).
		Float64("new_min", newMin).
		Float64("new_max", newMax).
		Str("source", string(est.Source)).
		Str("confidence", string(est.Confidence)).
		Msg("valuation: system estimate updated")
	return res
}

// UpdateAll values every property of userID with a bounded worker pool. One
// property failing never stops the others; cancelling ctx stops scheduling
// further properties.
func (s *Service) UpdateAll(ctx context.Context, userID uuid.UUID, opts BatchOptions) (*BatchResult, error) {
	started := s.now()

	var assets []domain.Asset
	if err := s.DB.WithContext(ctx).
		Select("id", "valuation_last_updated").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&assets).Error; err != nil {
		return nil, err
	}

	out := &BatchResult{}
	var due []uuid.UUID
	for _, a := range assets {
		if recentlyValued(a.ValuationLastUpdated, opts.SkipRecentDays, started) {
			out.Skipped++
			continue
		}
		due = append(due, a.ID)
	}

	results := make([]UpdateResult, len(due))
	scheduled := 0
	g := new(errgroup.Group)
	g.SetLimit(s.workers())
	for i, id := range due {
		if ctx.Err() != nil {
			break
		}
		scheduled++
		g.Go(func() error {
			results[i] = s.updateOne(ctx, userID, id, started)
			return nil
		})
	}
	_ = g.Wait()

	out.Results = results[:scheduled]
	out.Total = scheduled
	for _, r := range out.Results {
		if r.Success {
			out.Successful++
		} else {
			out.Failed++
		}
	}
	if out.Successful > 0 {
		s.invalidate(ctx, userID)
	}

	run, err := s.recordRun(ctx, userID, started, out)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("valuation: could not record batch run")
	} else {
		out.RunID = run.ID
	}

	log.Info().
		Str("user_id", userID.String()).
		Int("total", out.Total).
		Int("successful", out.Successful).
		Int("failed", out.Failed).
		Int("skipped", out.Skipped).
		Dur("took", time.Since(started)).
		Msg("valuation: batch finished")
	return out, nil
}

// Runs lists the most recent batch runs of userID, newest first.
func (s *Service) Runs(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ValuationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []domain.ValuationRun
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

func (s *Service) recordRun(ctx context.Context, userID uuid.UUID, started time.Time, out *BatchResult) (*domain.ValuationRun, error) {
	failures := make([]runFailure, 0, out.Failed)
	for _, r := range out.Results {
		if !r.Success {
			failures = append(failures, runFailure{PropertyID: r.PropertyID, Error: r.Error})
		}
	}
	b, err := json.Marshal(failures)
	if err != nil {
		return nil, err
	}
	run := &domain.ValuationRun{
		UserID:     userID,
		StartedAt:  started,
		FinishedAt: s.now(),
		Total:      out.Total,
		Successful: out.Successful,
		Failed:     out.Failed,
		Skipped:    out.Skipped,
		Failures:   datatypes.JSON(b),
	}
	// The run log must survive a cancelled batch.
	if err := s.DB.WithContext(context.WithoutCancel(ctx)).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("valuation: cache invalidation failed")
	}
}

func recentlyValued(last *time.Time, skipDays int, now time.Time) bool {
	if skipDays <= 0 || last == nil {
		return false
	}
	return now.Sub(*last) < time.Duration(skipDays)*24*time.Hour
}
