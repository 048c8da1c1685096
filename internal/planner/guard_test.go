package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planloop/planner/internal/models"
)

func monthlyTask() *models.Task {
	return &models.Task{
		ID:            "task-1",
		OwnerID:       "owner-1",
		Title:         "March report",
		Cadence:       models.CadenceMonthly,
		Status:        models.StatusPending,
		StartDate:     date(2024, time.March, 1),
		EndDate:       date(2024, time.March, 31),
		ColorCategory: models.DefaultColorCategory,
	}
}

func strPtr(s string) *string { return &s }

func viewPtr(v View) *View { return &v }

func TestAuthorizeUpdateForbiddenForNonOwner(t *testing.T) {
	_, err := AuthorizeUpdate(monthlyTask(), "intruder", nil, TaskPatch{
		Title: strPtr("hijacked"),
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeUpdateMonthlyCoreFieldsBlockedFromSubViews(t *testing.T) {
	corePatches := map[string]TaskPatch{
		"title":         {Title: strPtr("renamed")},
		"description":   {Description: strPtr("changed")},
		"startDate":     {StartDate: timePtr(date(2024, time.March, 2))},
		"endDate":       {EndDate: timePtr(date(2024, time.March, 30))},
		"colorCategory": {ColorCategory: strPtr("red")},
		"cadence":       {Cadence: cadencePtr(models.CadenceWeekly)},
	}

	for field, patch := range corePatches {
		for _, view := range []View{ViewDaily, ViewWeekly} {
			t.Run(field+" from "+string(view), func(t *testing.T) {
				_, err := AuthorizeUpdate(monthlyTask(), "owner-1", viewPtr(view), patch)
				assert.ErrorIs(t, err, ErrMonthlyCoreConflict)
			})
		}
	}
}

func TestAuthorizeUpdateMonthlyCoreFieldsAllowedFromMonthlyView(t *testing.T) {
	merged, err := AuthorizeUpdate(monthlyTask(), "owner-1", viewPtr(ViewMonthly), TaskPatch{
		Title: strPtr("renamed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", merged.Title)
}

func TestAuthorizeUpdateMonthlyCoreFieldsAllowedWithoutSourceView(t *testing.T) {
	merged, err := AuthorizeUpdate(monthlyTask(), "owner-1", nil, TaskPatch{
		Title: strPtr("renamed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", merged.Title)
}

func TestAuthorizeUpdateStatusChangeAllowedFromDailyView(t *testing.T) {
	// Completing a daily slice of a monthly task must not be blocked.
	merged, err := AuthorizeUpdate(monthlyTask(), "owner-1", viewPtr(ViewDaily), TaskPatch{
		Status: statusPtr(models.StatusCompleted),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, merged.Status)
	assert.Equal(t, "March report", merged.Title)
}

func TestAuthorizeUpdateRevalidatesRange(t *testing.T) {
	_, err := AuthorizeUpdate(monthlyTask(), "owner-1", nil, TaskPatch{
		StartDate: timePtr(date(2024, time.April, 10)),
	})

	var validationErr models.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestAuthorizeUpdateRevalidatesParentLinkage(t *testing.T) {
	// Attaching a parent to a monthly task slips past the core-field check
	// (parent linkage is not core) but must fail validation on merge.
	_, err := AuthorizeUpdate(monthlyTask(), "owner-1", viewPtr(ViewDaily), TaskPatch{
		ParentTaskID:    strPtr("parent-1"),
		SetParentTaskID: true,
	})

	var validationErr models.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestAuthorizeUpdateClearsParent(t *testing.T) {
	parentID := "parent-1"
	daily := &models.Task{
		ID:            "task-2",
		OwnerID:       "owner-1",
		Title:         "Daily slice",
		Cadence:       models.CadenceDaily,
		Status:        models.StatusPending,
		StartDate:     date(2024, time.March, 15),
		EndDate:       date(2024, time.March, 15),
		ColorCategory: models.DefaultColorCategory,
		ParentTaskID:  &parentID,
	}

	merged, err := AuthorizeUpdate(daily, "owner-1", nil, TaskPatch{SetParentTaskID: true})
	require.NoError(t, err)
	assert.Nil(t, merged.ParentTaskID)
}

func TestAuthorizeUpdateDoesNotMutateExisting(t *testing.T) {
	existing := monthlyTask()
	merged, err := AuthorizeUpdate(existing, "owner-1", nil, TaskPatch{
		Title: strPtr("renamed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "March report", existing.Title)
	assert.NotSame(t, existing, merged)
}

func TestTaskPatchEmpty(t *testing.T) {
	assert.True(t, TaskPatch{}.Empty())
	assert.False(t, TaskPatch{Title: strPtr("x")}.Empty())
	assert.False(t, TaskPatch{SetParentTaskID: true}.Empty())
}

func timePtr(t time.Time) *time.Time { return &t }

func cadencePtr(c models.Cadence) *models.Cadence { return &c }

func statusPtr(s models.Status) *models.Status { return &s }
