package planner

import (
	"errors"
	"time"

	"github.com/planloop/planner/internal/models"
)

var (
	ErrForbidden = errors.New("you are not allowed to modify this task")

	// ErrMonthlyCoreConflict rejects edits that would let a daily or weekly
	// context silently rewrite a monthly task's single source-of-truth
	// definition, e.g. completing one day's slice resizing the whole month.
	ErrMonthlyCoreConflict = errors.New("monthly task core details cannot be edited from a daily or weekly context")
)

// TaskPatch is a partial update. Nil fields are untouched. ParentTaskID is
// tri-state: SetParentTaskID reports whether the field was supplied at all,
// and a supplied nil clears the link.
type TaskPatch struct {
	Title           *string
	Description     *string
	Cadence         *models.Cadence
	Status          *models.Status
	StartDate       *time.Time
	EndDate         *time.Time
	ColorCategory   *string
	ParentTaskID    *string
	SetParentTaskID bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.Cadence == nil &&
		p.Status == nil &&
		p.StartDate == nil &&
		p.EndDate == nil &&
		p.ColorCategory == nil &&
		!p.SetParentTaskID
}

// touchesCoreFields reports whether the patch modifies the fields that make
// up a monthly task's definition. Status and parent linkage are deliberately
// not core: a daily slice of a monthly task may still be completed inline.
func (p TaskPatch) touchesCoreFields() bool {
	return p.Title != nil ||
		p.Description != nil ||
		p.StartDate != nil ||
		p.EndDate != nil ||
		p.ColorCategory != nil ||
		p.Cadence != nil
}

// AuthorizeUpdate validates a proposed update against ownership and the
// monthly-immutability rule, then merges the patch and re-validates the
// result exactly as on creation. The requester id and source view are
// control parameters only; they are never persisted. Every update path must
// pass through here.
func AuthorizeUpdate(existing *models.Task, requesterID string, sourceView *View, patch TaskPatch) (*models.Task, error) {
	if existing.OwnerID != requesterID {
		return nil, ErrForbidden
	}

	fromSubView := sourceView != nil && (*sourceView == ViewDaily || *sourceView == ViewWeekly)
	if existing.Cadence == models.CadenceMonthly && fromSubView && patch.touchesCoreFields() {
		return nil, ErrMonthlyCoreConflict
	}

	merged := existing.Clone()
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.Cadence != nil {
		merged.Cadence = *patch.Cadence
	}
	if patch.Status != nil {
		merged.Status = *patch.Status
	}
	if patch.StartDate != nil {
		merged.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		merged.EndDate = *patch.EndDate
	}
	if patch.ColorCategory != nil {
		merged.ColorCategory = *patch.ColorCategory
	}
	if patch.SetParentTaskID {
		merged.ParentTaskID = patch.ParentTaskID
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}
