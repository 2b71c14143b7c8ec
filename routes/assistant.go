package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eldato-web/apperrors"
	"eldato-web/models"
)

// RegisterAssistantRoutes registers the El Dato assistant
func RegisterAssistantRoutes(router *gin.RouterGroup, h *Handler) {
	router.POST("/assistant", h.AskAssistant)
}

// AskAssistant forwards one question to the assistant
func (h *Handler) AskAssistant(c *gin.Context) {
	if h.Assistant == nil {
		apperrors.Respond(c, apperrors.NotFound("The assistant is not available"))
		return
	}

	var q models.AssistantQuestion
	if err := bindJSON(c, &q); err != nil {
		apperrors.Respond(c, err)
		return
	}

	reply, err := h.Assistant.Ask(c.Request.Context(), q.Message)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
