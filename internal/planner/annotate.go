package planner

import "github.com/planloop/planner/internal/models"

// DecoratedTask is a task plus the view-relative metadata a client needs to
// render it. The flags are recomputed on every request and never persisted.
type DecoratedTask struct {
	models.Task

	// IsProjectedFromMonthly marks a monthly master task being shown
	// inside a daily or weekly window. Such entries render as read-only
	// ghosts; their core definition is only editable from the monthly view.
	IsProjectedFromMonthly bool
	RequestedView          View
}

// Annotate decorates query results with projection metadata for the view
// they were fetched through. The stored records are not mutated.
func Annotate(tasks []models.Task, view View) []DecoratedTask {
	decorated := make([]DecoratedTask, len(tasks))
	for i, task := range tasks {
		decorated[i] = DecoratedTask{
			Task:                   task,
			IsProjectedFromMonthly: task.Cadence == models.CadenceMonthly && view != ViewMonthly,
			RequestedView:          view,
		}
	}
	return decorated
}
