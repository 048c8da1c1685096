// Package postgres implements the planner's task store on a pgx pool.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/planloop/planner/internal/models"
	"github.com/planloop/planner/internal/services"
)

type Store struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

var _ services.TaskStore = (*Store)(nil)

func New(logger zerolog.Logger, pgPool *pgxpool.Pool) *Store {
	return &Store{
		logger: logger,
		pgPool: pgPool,
	}
}

const ensureSchemaQuery = `
CREATE TABLE IF NOT EXISTS tasks (
    id             UUID PRIMARY KEY,
    owner_id       TEXT NOT NULL,
    title          TEXT NOT NULL,
    description    TEXT NOT NULL DEFAULT '',
    cadence        TEXT NOT NULL,
    status         TEXT NOT NULL,
    start_date     TIMESTAMPTZ NOT NULL,
    end_date       TIMESTAMPTZ NOT NULL,
    color_category TEXT NOT NULL DEFAULT 'default',
    parent_task_id UUID,
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_owner_range ON tasks (owner_id, start_date, end_date);
CREATE INDEX IF NOT EXISTS idx_tasks_owner_cadence_status ON tasks (owner_id, cadence, status);
CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks (parent_task_id);
`

// EnsureSchema creates the tasks table and its indexes if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pgPool.Exec(ctx, ensureSchemaQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to ensure tasks schema")
		return err
	}
	s.logger.Debug().Msg("ensured tasks schema")
	return nil
}

func (s *Store) InsertTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	now := time.Now()
	stored := task.Clone()
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   owner_id,
                   title,
                   description,
                   cadence,
                   status,
                   start_date,
                   end_date,
                   color_category,
                   parent_task_id,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`
	_, err := s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		stored.ID,
		stored.OwnerID,
		stored.Title,
		stored.Description,
		string(stored.Cadence),
		string(stored.Status),
		stored.StartDate,
		stored.EndDate,
		stored.ColorCategory,
		stored.ParentTaskID,
		stored.CreatedAt,
		stored.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", stored.ID).
		Msg("inserted task")
	return stored, nil
}

func (s *Store) GetTaskByID(ctx context.Context, taskID string) (*models.Task, error) {
	const selectTaskQuery = `
SELECT id,
       owner_id,
       title,
       description,
       cadence,
       status,
       start_date,
       end_date,
       color_category,
       parent_task_id,
       created_at,
       updated_at
FROM tasks
WHERE id = $1
`
	task, err := s.scanTask(s.pgPool.QueryRow(ctx, selectTaskQuery, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, services.ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task")
		return nil, err
	}
	return task, nil
}

func (s *Store) ReplaceTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	const replaceTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    cadence = $3,
    status = $4,
    start_date = $5,
    end_date = $6,
    color_category = $7,
    parent_task_id = $8,
    updated_at = $9
WHERE id = $10 AND owner_id = $11
`
	tag, err := s.pgPool.Exec(
		ctx,
		replaceTaskQuery,
		task.Title,
		task.Description,
		string(task.Cadence),
		string(task.Status),
		task.StartDate,
		task.EndDate,
		task.ColorCategory,
		task.ParentTaskID,
		task.UpdatedAt,
		task.ID,
		task.OwnerID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to replace task")
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("task_id", task.ID).
			Msg("task not found")
		return nil, services.ErrTaskNotFound
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("replaced task")
	return task, nil
}

// SelectOverlapping returns the owner's tasks whose inclusive [start_date,
// end_date] range intersects the window, optionally filtered by status. The
// ordering keeps presentation deterministic even for identical ranges.
func (s *Store) SelectOverlapping(ctx context.Context, params services.OverlapParams) ([]models.Task, error) {
	const selectOverlappingQuery = `
SELECT id,
       owner_id,
       title,
       description,
       cadence,
       status,
       start_date,
       end_date,
       color_category,
       parent_task_id,
       created_at,
       updated_at
FROM tasks
WHERE owner_id = $1
  AND start_date <= $2
  AND end_date >= $3
  AND ($4::text IS NULL OR status = $4)
ORDER BY start_date, end_date, created_at
`
	var status *string
	if params.Status != nil {
		value := string(*params.Status)
		status = &value
	}

	rows, err := s.pgPool.Query(
		ctx,
		selectOverlappingQuery,
		params.OwnerID,
		params.Window.End,
		params.Window.Start,
		status,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("owner_id", params.OwnerID).
			Msg("failed to select overlapping tasks")
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := s.scanTask(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	if err = rows.Err(); err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("owner_id", params.OwnerID).
		Msg("selected overlapping tasks")
	return tasks, nil
}

func (s *Store) scanTask(row pgx.Row) (*models.Task, error) {
	var (
		task    models.Task
		cadence string
		status  string
	)
	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&cadence,
		&status,
		&task.StartDate,
		&task.EndDate,
		&task.ColorCategory,
		&task.ParentTaskID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Cadence = models.Cadence(cadence)
	task.Status = models.Status(status)
	return &task, nil
}
