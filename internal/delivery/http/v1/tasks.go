package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/planloop/planner/internal/models"
	"github.com/planloop/planner/internal/planner"
	"github.com/planloop/planner/internal/services"
)

type taskResponse struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Cadence       string    `json:"cadence"`
	Status        string    `json:"status"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	ColorCategory string    `json:"colorCategory"`
	ParentTaskID  *string   `json:"parentTaskId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:            task.ID,
		OwnerID:       task.OwnerID,
		Title:         task.Title,
		Description:   task.Description,
		Cadence:       string(task.Cadence),
		Status:        string(task.Status),
		StartDate:     task.StartDate,
		EndDate:       task.EndDate,
		ColorCategory: task.ColorCategory,
		ParentTaskID:  task.ParentTaskID,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}

type decoratedTaskResponse struct {
	taskResponse
	IsProjectedFromMonthly bool   `json:"isProjectedFromMonthly"`
	RequestedView          string `json:"requestedView"`
}

func newDecoratedTaskResponse(task planner.DecoratedTask) decoratedTaskResponse {
	return decoratedTaskResponse{
		taskResponse:           newTaskResponse(&task.Task),
		IsProjectedFromMonthly: task.IsProjectedFromMonthly,
		RequestedView:          string(task.RequestedView),
	}
}

// parseDate accepts a plain calendar date or a full RFC 3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, raw, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, models.NewValidationError("invalid date: " + raw)
	}
	return t, nil
}

type createTaskRequest struct {
	Title         string  `json:"title" binding:"required,max=140"`
	Description   *string `json:"description,omitempty"`
	Cadence       string  `json:"cadence" binding:"required"`
	Status        *string `json:"status,omitempty"`
	StartDate     string  `json:"startDate" binding:"required"`
	EndDate       string  `json:"endDate" binding:"required"`
	ColorCategory *string `json:"colorCategory,omitempty"`
	ParentTaskID  *string `json:"parentTaskId,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	ownerID, ok := h.requesterID(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, http.StatusBadRequest, "invalid request body")
		return
	}

	params := services.CreateTaskParams{
		OwnerID:      ownerID,
		Title:        req.Title,
		ParentTaskID: req.ParentTaskID,
	}

	cadence, err := models.ParseCadence(req.Cadence)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	params.Cadence = cadence

	if req.Status != nil {
		status, err := models.ParseStatus(*req.Status)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		params.Status = &status
	}

	if params.StartDate, err = parseDate(req.StartDate); err != nil {
		h.abortWithError(c, err)
		return
	}
	if params.EndDate, err = parseDate(req.EndDate); err != nil {
		h.abortWithError(c, err)
		return
	}

	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.ColorCategory != nil {
		params.ColorCategory = *req.ColorCategory
	}

	task, err := h.tasks.CreateTask(c, params)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

type listTasksResponse struct {
	Total int                     `json:"total"`
	Tasks []decoratedTaskResponse `json:"tasks"`
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	ownerID, ok := h.requesterID(c)
	if !ok {
		return
	}

	view, err := planner.ParseView(c.Query("view"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	rawDate := c.Query("date")
	if rawDate == "" {
		abort(c, http.StatusBadRequest, "date query parameter is required")
		return
	}
	anchor, err := parseDate(rawDate)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	params := services.ListTasksParams{
		OwnerID:    ownerID,
		View:       view,
		AnchorDate: anchor,
	}
	if rawStatus := c.Query("status"); rawStatus != "" {
		status, err := models.ParseStatus(rawStatus)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		params.Status = &status
	}

	tasks, err := h.tasks.GetTasksForView(c, params)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	response := listTasksResponse{
		Total: len(tasks),
		Tasks: make([]decoratedTaskResponse, len(tasks)),
	}
	for i, task := range tasks {
		response.Tasks[i] = newDecoratedTaskResponse(task)
	}

	c.JSON(http.StatusOK, response)
}

var jsonNull = []byte("null")

type updateTaskRequest struct {
	SourceView    *string         `json:"sourceView,omitempty"`
	Title         *string         `json:"title,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Cadence       *string         `json:"cadence,omitempty"`
	Status        *string         `json:"status,omitempty"`
	StartDate     *string         `json:"startDate,omitempty"`
	EndDate       *string         `json:"endDate,omitempty"`
	ColorCategory *string         `json:"colorCategory,omitempty"`
	ParentTaskID  json.RawMessage `json:"parentTaskId,omitempty"`
}

// patch converts the request body into an engine patch. parentTaskId is
// tri-state: absent leaves the link alone, an explicit null clears it.
func (req *updateTaskRequest) patch() (planner.TaskPatch, error) {
	patch := planner.TaskPatch{
		Title:         req.Title,
		Description:   req.Description,
		ColorCategory: req.ColorCategory,
	}

	if req.Cadence != nil {
		cadence, err := models.ParseCadence(*req.Cadence)
		if err != nil {
			return planner.TaskPatch{}, err
		}
		patch.Cadence = &cadence
	}
	if req.Status != nil {
		status, err := models.ParseStatus(*req.Status)
		if err != nil {
			return planner.TaskPatch{}, err
		}
		patch.Status = &status
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return planner.TaskPatch{}, err
		}
		patch.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return planner.TaskPatch{}, err
		}
		patch.EndDate = &end
	}

	if len(req.ParentTaskID) > 0 {
		patch.SetParentTaskID = true
		if !bytes.Equal(req.ParentTaskID, jsonNull) {
			var parentID string
			if err := json.Unmarshal(req.ParentTaskID, &parentID); err != nil {
				return planner.TaskPatch{}, models.NewValidationError("parentTaskId must be a string or null")
			}
			patch.ParentTaskID = &parentID
		}
	}

	return patch, nil
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	requesterID, ok := h.requesterID(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		abort(c, http.StatusBadRequest, "task id is required")
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, http.StatusBadRequest, "invalid request body")
		return
	}

	params := services.UpdateTaskParams{
		TaskID:      taskID,
		RequesterID: requesterID,
	}

	if req.SourceView != nil {
		view, err := planner.ParseView(*req.SourceView)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		params.SourceView = &view
	}

	patch, err := req.patch()
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	if patch.Empty() {
		abort(c, http.StatusBadRequest, "no fields to update")
		return
	}
	params.Patch = patch

	task, err := h.tasks.UpdateTask(c, params)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}
