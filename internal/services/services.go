package services

import (
	"context"
	"errors"
	"time"

	"github.com/planloop/planner/internal/models"
	"github.com/planloop/planner/internal/planner"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskStore is the persistence contract the planner engine depends on. Any
// implementation works as long as a single read-modify-write of one task is
// atomic; no multi-task transactions are required.
type TaskStore interface {
	// InsertTask persists a new task, assigning its id and timestamps.
	InsertTask(ctx context.Context, task *models.Task) (*models.Task, error)

	// GetTaskByID returns the task or ErrTaskNotFound.
	GetTaskByID(ctx context.Context, taskID string) (*models.Task, error)

	// ReplaceTask overwrites the stored task in place, matched by id and
	// owner. It returns ErrTaskNotFound if no row matched.
	ReplaceTask(ctx context.Context, task *models.Task) (*models.Task, error)

	// SelectOverlapping returns the owner's tasks intersecting the window,
	// ordered by (startDate, endDate, createdAt) ascending.
	SelectOverlapping(ctx context.Context, params OverlapParams) ([]models.Task, error)
}

type OverlapParams struct {
	OwnerID string
	Window  planner.Window
	Status  *models.Status
}

type TaskService interface {
	// CreateTask validates the payload, derives the effective status and
	// persists a new task.
	//
	// It returns a models.ValidationError on malformed input, including a
	// parent reference on a non-daily task.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTasksForView resolves the view window for the anchor date and
	// returns the overlapping tasks decorated with projection metadata.
	GetTasksForView(ctx context.Context, params ListTasksParams) ([]planner.DecoratedTask, error)

	// UpdateTask applies a partial update behind the mutation guard.
	//
	// It returns ErrTaskNotFound if the task doesn't exist,
	// planner.ErrForbidden on an ownership mismatch,
	// planner.ErrMonthlyCoreConflict when a daily/weekly context touches a
	// monthly task's core fields, or a models.ValidationError when the
	// merged record violates an invariant.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
}

type AnalyticsService interface {
	// GetEfficiency reduces the owner's tasks overlapping the timeframe
	// window into a completion ratio.
	GetEfficiency(ctx context.Context, params EfficiencyParams) (*EfficiencyReport, error)
}

type CreateTaskParams struct {
	OwnerID       string
	Title         string
	Description   string
	Cadence       models.Cadence
	Status        *models.Status
	StartDate     time.Time
	EndDate       time.Time
	ColorCategory string
	ParentTaskID  *string
}

type ListTasksParams struct {
	OwnerID    string
	View       planner.View
	AnchorDate time.Time
	Status     *models.Status
}

type UpdateTaskParams struct {
	TaskID      string
	RequesterID string
	SourceView  *planner.View
	Patch       planner.TaskPatch
}

type EfficiencyParams struct {
	OwnerID   string
	Timeframe planner.Timeframe
}

type EfficiencyReport struct {
	Timeframe  planner.Timeframe `json:"timeframe"`
	Total      int               `json:"total"`
	Completed  int               `json:"completed"`
	Efficiency float64           `json:"efficiency"`
}
