package planner

import (
	"math"

	"github.com/planloop/planner/internal/models"
)

// Efficiency is the completion ratio over a set of overlapping tasks.
type Efficiency struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Efficiency float64 `json:"efficiency"`
}

// Aggregate reduces a task set to its completion ratio, as a percentage
// rounded to two decimals. An empty set yields all zeros.
func Aggregate(tasks []models.Task) Efficiency {
	result := Efficiency{Total: len(tasks)}
	for _, task := range tasks {
		if task.Status == models.StatusCompleted {
			result.Completed++
		}
	}
	if result.Total > 0 {
		ratio := float64(result.Completed) / float64(result.Total) * 100
		result.Efficiency = math.Round(ratio*100) / 100
	}
	return result
}
