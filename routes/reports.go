package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eldato-web/apperrors"
	"eldato-web/middleware"
	"eldato-web/models"
)

// RegisterReportRoutes registers report submission
func RegisterReportRoutes(router *gin.RouterGroup, h *Handler) {
	router.POST("/reports", h.SubmitReport)
}

// SubmitReport flags one rating or one service
func (h *Handler) SubmitReport(c *gin.Context) {
	var in models.ReportCreate
	if err := bindJSON(c, &in); err != nil {
		apperrors.Respond(c, err)
		return
	}
	if err := h.ratingEngine(c).SubmitReport(c.Request.Context(), middleware.CurrentActor(c), in); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Thanks, the report was sent."})
}
