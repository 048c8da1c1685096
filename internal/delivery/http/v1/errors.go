package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planloop/planner/internal/models"
	"github.com/planloop/planner/internal/planner"
	"github.com/planloop/planner/internal/services"
)

// genericErrorMessage is returned for any failure outside the expected
// taxonomy. Internal details stay in the logs and never reach the response.
const genericErrorMessage = "an unexpected error occurred, please try again later"

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// abortWithError maps the engine's error taxonomy to HTTP statuses.
// Expected conditions carry their own safe message; everything else is
// logged in full and answered generically.
func (h *handlerImpl) abortWithError(c *gin.Context, err error) {
	var validationErr models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		abort(c, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, planner.ErrInvalidViewKind),
		errors.Is(err, planner.ErrInvalidTimeframeKind):
		abort(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, planner.ErrForbidden):
		abort(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, http.StatusNotFound, err.Error())
	case errors.Is(err, planner.ErrMonthlyCoreConflict):
		abort(c, http.StatusConflict, err.Error())
	default:
		h.logger.Error().
			Err(err).
			Str("path", c.FullPath()).
			Msg("unexpected error")
		abort(c, http.StatusInternalServerError, genericErrorMessage)
	}
}
