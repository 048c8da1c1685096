package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planloop/planner/internal/cache"
	v1 "github.com/planloop/planner/internal/delivery/http/v1"
	"github.com/planloop/planner/internal/services"
	"github.com/planloop/planner/internal/storage/memory"
)

var signingKey = []byte("test-signing-key")

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	reportCache := cache.New(zerolog.Nop(), nil, "test:", time.Minute)
	handler := v1.New(
		zerolog.Nop(),
		services.NewTaskService(zerolog.Nop(), store, reportCache),
		services.NewAnalyticsService(zerolog.Nop(), store, reportCache),
		signingKey,
	)

	router := gin.New()
	api := router.Group("/api/v1")

	tasks := api.Group("/tasks", handler.HandleAuthMiddleware)
	tasks.POST("", handler.HandleCreateTask)
	tasks.GET("", handler.HandleListTasks)
	tasks.PATCH("/:id", handler.HandleUpdateTask)

	analytics := api.Group("/analytics", handler.HandleAuthMiddleware)
	analytics.GET("/efficiency", handler.HandleGetEfficiency)

	return router
}

func bearerToken(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(signingKey)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, router *gin.Engine, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func createMonthlyTask(t *testing.T, router *gin.Engine, token string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/v1/tasks", token, gin.H{
		"title":     "March report",
		"cadence":   "MONTHLY",
		"startDate": "2024-03-01",
		"endDate":   "2024-03-31",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	router := setupRouter(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/tasks?view=DAILY&date=2024-03-15", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateTaskValidation(t *testing.T) {
	router := setupRouter(t)
	token := bearerToken(t, "owner-1")

	resp := doJSON(t, router, http.MethodPost, "/api/v1/tasks", token, gin.H{
		"title":        "bad",
		"cadence":      "MONTHLY",
		"startDate":    "2024-03-01",
		"endDate":      "2024-03-31",
		"parentTaskId": "parent-1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "only daily tasks")
}

func TestListProjectsMonthlyTaskIntoDailyView(t *testing.T) {
	router := setupRouter(t)
	token := bearerToken(t, "owner-1")
	createMonthlyTask(t, router, token)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/tasks?view=DAILY&date=2024-03-15", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var listed struct {
		Total int `json:"total"`
		Tasks []struct {
			Cadence                string `json:"cadence"`
			IsProjectedFromMonthly bool   `json:"isProjectedFromMonthly"`
			RequestedView          string `json:"requestedView"`
		} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listed))
	require.Equal(t, 1, listed.Total)
	assert.Equal(t, "MONTHLY", listed.Tasks[0].Cadence)
	assert.True(t, listed.Tasks[0].IsProjectedFromMonthly)
	assert.Equal(t, "DAILY", listed.Tasks[0].RequestedView)
}

func TestListRejectsUnknownView(t *testing.T) {
	router := setupRouter(t)
	token := bearerToken(t, "owner-1")

	resp := doJSON(t, router, http.MethodGet, "/api/v1/tasks?view=YEARLY&date=2024-03-15", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpdateMonthlyCoreFromDailyViewConflicts(t *testing.T) {
	router := setupRouter(t)
	token := bearerToken(t, "owner-1")
	taskID := createMonthlyTask(t, router, token)

	resp := doJSON(t, router, http.MethodPatch, "/api/v1/tasks/"+taskID, token, gin.H{
		"sourceView": "DAILY",
		"title":      "renamed",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = doJSON(t, router, http.MethodPatch, "/api/v1/tasks/"+taskID, token, gin.H{
		"sourceView": "MONTHLY",
		"title":      "renamed",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var updated struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, "renamed", updated.Title)
}

func TestUpdateByNonOwnerForbidden(t *testing.T) {
	router := setupRouter(t)
	ownerToken := bearerToken(t, "owner-1")
	taskID := createMonthlyTask(t, router, ownerToken)

	resp := doJSON(t, router, http.MethodPatch, "/api/v1/tasks/"+taskID, bearerToken(t, "owner-2"), gin.H{
		"title": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestUpdateMissingTaskNotFound(t *testing.T) {
	router := setupRouter(t)
	token := bearerToken(t, "owner-1")

	resp := doJSON(t, router, http.MethodPatch, "/api/v1/tasks/missing", token, gin.H{
		"title": "renamed",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateEmptyPatchRejected(t *testing.T) {
	router := setupRouter(t)
	token := bearerToken(t, "owner-1")
	taskID := createMonthlyTask(t, router, token)

	resp := doJSON(t, router, http.MethodPatch, "/api/v1/tasks/"+taskID, token, gin.H{
		"sourceView": "MONTHLY",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetEfficiency(t *testing.T) {
	router := setupRouter(t)
	token := bearerToken(t, "owner-1")

	resp := doJSON(t, router, http.MethodGet, "/api/v1/analytics/efficiency?timeframe=weekly", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var report struct {
		Timeframe  string  `json:"timeframe"`
		Total      int     `json:"total"`
		Completed  int     `json:"completed"`
		Efficiency float64 `json:"efficiency"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &report))
	assert.Equal(t, "weekly", report.Timeframe)
	assert.Zero(t, report.Total)
}

func TestGetEfficiencyRejectsUnknownTimeframe(t *testing.T) {
	router := setupRouter(t)
	token := bearerToken(t, "owner-1")

	resp := doJSON(t, router, http.MethodGet, "/api/v1/analytics/efficiency?timeframe=DAILY", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
