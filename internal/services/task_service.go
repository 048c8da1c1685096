package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/planloop/planner/internal/cache"
	"github.com/planloop/planner/internal/models"
	"github.com/planloop/planner/internal/planner"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	store  TaskStore
	cache  *cache.Cache
}

func NewTaskService(
	logger zerolog.Logger,
	store TaskStore,
	reportCache *cache.Cache,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		store:  store,
		cache:  reportCache,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	task := &models.Task{
		OwnerID:       params.OwnerID,
		Title:         params.Title,
		Description:   params.Description,
		Cadence:       params.Cadence,
		Status:        models.StatusPending,
		StartDate:     params.StartDate,
		EndDate:       params.EndDate,
		ColorCategory: params.ColorCategory,
		ParentTaskID:  params.ParentTaskID,
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if task.ColorCategory == "" {
		task.ColorCategory = models.DefaultColorCategory
	}

	if err := task.Validate(); err != nil {
		s.logger.Warn().
			Err(err).
			Str("owner_id", params.OwnerID).
			Msg("rejected task creation")
		return nil, err
	}

	task.Status = planner.DeriveStatus(task, time.Now())

	created, err := s.store.InsertTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	s.invalidateEfficiencyReports(ctx, created.OwnerID)

	s.logger.Info().
		Str("task_id", created.ID).
		Str("owner_id", created.OwnerID).
		Str("cadence", string(created.Cadence)).
		Msg("created task")
	return created, nil
}

func (s *taskServiceImpl) GetTasksForView(ctx context.Context, params ListTasksParams) ([]planner.DecoratedTask, error) {
	window, err := planner.ResolveViewWindow(params.View, params.AnchorDate)
	if err != nil {
		return nil, err
	}

	tasks, err := s.store.SelectOverlapping(ctx, OverlapParams{
		OwnerID: params.OwnerID,
		Window:  window,
		Status:  params.Status,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("owner_id", params.OwnerID).
			Msg("failed to select tasks for view")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("view", string(params.View)).
		Str("owner_id", params.OwnerID).
		Msg("resolved tasks for view")
	return planner.Annotate(tasks, params.View), nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	existing, err := s.store.GetTaskByID(ctx, params.TaskID)
	if err != nil {
		return nil, err
	}

	merged, err := planner.AuthorizeUpdate(existing, params.RequesterID, params.SourceView, params.Patch)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("task_id", params.TaskID).
			Str("requester_id", params.RequesterID).
			Msg("rejected task update")
		return nil, err
	}

	merged.UpdatedAt = time.Now()
	merged.Status = planner.DeriveStatus(merged, merged.UpdatedAt)

	updated, err := s.store.ReplaceTask(ctx, merged)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.TaskID).
			Msg("failed to replace task")
		return nil, err
	}

	s.invalidateEfficiencyReports(ctx, updated.OwnerID)

	s.logger.Info().
		Str("task_id", updated.ID).
		Str("owner_id", updated.OwnerID).
		Msg("updated task")
	return updated, nil
}

// invalidateEfficiencyReports drops the owner's cached efficiency reports
// after any write so analytics never serves a ratio older than the TTL and
// the last write.
func (s *taskServiceImpl) invalidateEfficiencyReports(ctx context.Context, ownerID string) {
	s.cache.Invalidate(ctx,
		efficiencyCacheKey(ownerID, planner.TimeframeDaily),
		efficiencyCacheKey(ownerID, planner.TimeframeWeekly),
		efficiencyCacheKey(ownerID, planner.TimeframeMonthly),
	)
}
