package models

import (
	"fmt"
	"time"
)

// Cadence classifies a task's planning granularity. Monthly tasks act as
// master records and are projected into weekly/daily views through
// date-range queries instead of being duplicated.
type Cadence string

const (
	CadenceMonthly Cadence = "MONTHLY"
	CadenceWeekly  Cadence = "WEEKLY"
	CadenceDaily   Cadence = "DAILY"
)

// ParseCadence validates a raw cadence value.
func ParseCadence(raw string) (Cadence, error) {
	switch c := Cadence(raw); c {
	case CadenceMonthly, CadenceWeekly, CadenceDaily:
		return c, nil
	}
	return "", NewValidationError(fmt.Sprintf("unknown cadence: %q", raw))
}

// Status is a task's execution state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusOverdue   Status = "OVERDUE"
)

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusCompleted, StatusOverdue:
		return s, nil
	}
	return "", NewValidationError(fmt.Sprintf("unknown status: %q", raw))
}

const (
	MaxTitleLen         = 140
	MaxDescriptionLen   = 2000
	MaxColorCategoryLen = 50

	DefaultColorCategory = "default"
)

// Task is the single planner entity. StartDate and EndDate form an
// inclusive range; ParentTaskID may only be set on daily tasks and then
// references a monthly task of the same owner.
type Task struct {
	ID            string
	OwnerID       string
	Title         string
	Description   string
	Cadence       Cadence
	Status        Status
	StartDate     time.Time
	EndDate       time.Time
	ColorCategory string
	ParentTaskID  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the field and range invariants enforced on every write.
func (t *Task) Validate() error {
	if t.OwnerID == "" {
		return NewValidationError("ownerId is required")
	}
	if t.Title == "" {
		return NewValidationError("title is required")
	}
	if len(t.Title) > MaxTitleLen {
		return NewValidationError(fmt.Sprintf("title must be at most %d characters", MaxTitleLen))
	}
	if len(t.Description) > MaxDescriptionLen {
		return NewValidationError(fmt.Sprintf("description must be at most %d characters", MaxDescriptionLen))
	}
	if len(t.ColorCategory) > MaxColorCategoryLen {
		return NewValidationError(fmt.Sprintf("colorCategory must be at most %d characters", MaxColorCategoryLen))
	}

	if _, err := ParseCadence(string(t.Cadence)); err != nil {
		return err
	}
	if _, err := ParseStatus(string(t.Status)); err != nil {
		return err
	}

	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return NewValidationError("startDate and endDate are required")
	}
	if t.StartDate.After(t.EndDate) {
		return NewValidationError("startDate must be earlier than or equal to endDate")
	}

	if t.ParentTaskID != nil && t.Cadence != CadenceDaily {
		return NewValidationError("only daily tasks can reference a parent task")
	}

	return nil
}

// Clone returns a copy that does not share the parent pointer.
func (t *Task) Clone() *Task {
	clone := *t
	if t.ParentTaskID != nil {
		parentID := *t.ParentTaskID
		clone.ParentTaskID = &parentID
	}
	return &clone
}
