package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planloop/planner/internal/planner"
	"github.com/planloop/planner/internal/services"
)

func (h *handlerImpl) HandleGetEfficiency(c *gin.Context) {
	ownerID, ok := h.requesterID(c)
	if !ok {
		return
	}

	timeframe, err := planner.ParseTimeframe(c.Query("timeframe"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	report, err := h.analytics.GetEfficiency(c, services.EfficiencyParams{
		OwnerID:   ownerID,
		Timeframe: timeframe,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
