package planner

import (
	"time"

	"github.com/planloop/planner/internal/models"
)

// DeriveStatus recomputes a task's effective status against now: anything
// not completed whose end date has passed is overdue. Called immediately
// before every persist; stored status is fresh as of the last write only.
func DeriveStatus(task *models.Task, now time.Time) models.Status {
	if task.Status != models.StatusCompleted && task.EndDate.Before(now) {
		return models.StatusOverdue
	}
	return task.Status
}
