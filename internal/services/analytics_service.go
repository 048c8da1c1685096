package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/planloop/planner/internal/cache"
	"github.com/planloop/planner/internal/planner"
)

type analyticsServiceImpl struct {
	logger zerolog.Logger
	store  TaskStore
	cache  *cache.Cache
	group  singleflight.Group
}

func NewAnalyticsService(
	logger zerolog.Logger,
	store TaskStore,
	reportCache *cache.Cache,
) AnalyticsService {
	return &analyticsServiceImpl{
		logger: logger,
		store:  store,
		cache:  reportCache,
	}
}

func efficiencyCacheKey(ownerID string, timeframe planner.Timeframe) string {
	return fmt.Sprintf("efficiency:%s:%s", ownerID, timeframe)
}

func (s *analyticsServiceImpl) GetEfficiency(ctx context.Context, params EfficiencyParams) (*EfficiencyReport, error) {
	key := efficiencyCacheKey(params.OwnerID, params.Timeframe)

	var cached EfficiencyReport
	if s.cache.Get(ctx, key, &cached) {
		s.logger.Debug().
			Str("owner_id", params.OwnerID).
			Str("timeframe", string(params.Timeframe)).
			Msg("efficiency cache hit")
		return &cached, nil
	}

	// Concurrent misses for the same owner and timeframe share one
	// computation.
	result, err, _ := s.group.Do(key, func() (any, error) {
		return s.computeEfficiency(ctx, params)
	})
	if err != nil {
		return nil, err
	}

	report := result.(*EfficiencyReport)
	s.cache.Set(ctx, key, report)
	return report, nil
}

func (s *analyticsServiceImpl) computeEfficiency(ctx context.Context, params EfficiencyParams) (*EfficiencyReport, error) {
	window, err := planner.ResolveTimeframeWindow(params.Timeframe, time.Now())
	if err != nil {
		return nil, err
	}

	tasks, err := s.store.SelectOverlapping(ctx, OverlapParams{
		OwnerID: params.OwnerID,
		Window:  window,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("owner_id", params.OwnerID).
			Msg("failed to select tasks for efficiency")
		return nil, err
	}

	aggregate := planner.Aggregate(tasks)
	s.logger.Debug().
		Str("owner_id", params.OwnerID).
		Str("timeframe", string(params.Timeframe)).
		Int("total", aggregate.Total).
		Int("completed", aggregate.Completed).
		Msg("computed efficiency")

	return &EfficiencyReport{
		Timeframe:  params.Timeframe,
		Total:      aggregate.Total,
		Completed:  aggregate.Completed,
		Efficiency: aggregate.Efficiency,
	}, nil
}
