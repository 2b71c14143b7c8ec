package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eldato-web/apperrors"
	"eldato-web/lifecycle"
	"eldato-web/middleware"
	"eldato-web/models"
)

// RegisterRequestRoutes registers the service request lifecycle
func RegisterRequestRoutes(router *gin.RouterGroup, h *Handler) {
	requests := router.Group("/requests")
	{
		requests.GET("", h.ListRequests)
		requests.POST("", h.CreateRequest)
		requests.GET("/summary", h.RequestSummary)
		requests.POST("/:id/complete", h.CompleteRequest)
		requests.POST("/:id/finalize", h.FinalizeRequest)
		requests.POST("/:id/cancel", h.CancelRequest)
	}
}

func (h *Handler) requestManager(c *gin.Context) *lifecycle.Manager {
	return lifecycle.NewManager(h.api(c), h.notifier())
}

// ListRequests returns the caller's requests filtered by ?state=, with the actions each allows
func (h *Handler) ListRequests(c *gin.Context) {
	views, summary, err := h.requestManager(c).List(c.Request.Context(), middleware.CurrentActor(c), c.Query("state"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": views, "summary": summary})
}

func (h *Handler) RequestSummary(c *gin.Context) {
	_, summary, err := h.requestManager(c).List(c.Request.Context(), middleware.CurrentActor(c), "")
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (h *Handler) CreateRequest(c *gin.Context) {
	var in models.ServiceRequestCreate
	if err := bindJSON(c, &in); err != nil {
		apperrors.Respond(c, err)
		return
	}

	id, err := h.requestManager(c).Create(c.Request.Context(), middleware.CurrentActor(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "state": models.RequestStateScheduled})
}

// CompleteRequest is the client confirming the work was delivered
func (h *Handler) CompleteRequest(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	h.respondOutcome(c)(h.requestManager(c).Complete(c.Request.Context(), middleware.CurrentActor(c), id))
}

// FinalizeRequest is the provider recording the agreed price and payment method
func (h *Handler) FinalizeRequest(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	var settlement models.Settlement
	if err := bindJSON(c, &settlement); err != nil {
		apperrors.Respond(c, apperrors.Validation(lifecycle.SettlementRequiredMessage))
		return
	}
	h.respondOutcome(c)(h.requestManager(c).Finalize(c.Request.Context(), middleware.CurrentActor(c), id, settlement))
}

func (h *Handler) CancelRequest(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	h.respondOutcome(c)(h.requestManager(c).Cancel(c.Request.Context(), middleware.CurrentActor(c), id))
}

func (h *Handler) respondOutcome(c *gin.Context) func(*lifecycle.Outcome, error) {
	return func(outcome *lifecycle.Outcome, err error) {
		if err != nil {
			h.fail(c, err)
			return
		}
		actor := middleware.CurrentActor(c)
		c.JSON(http.StatusOK, gin.H{
			"request":           outcome.Request,
			"actions":           lifecycle.Actions(actor.Role, outcome.Request.State),
			"evaluation_prompt": outcome.Prompt,
		})
	}
}
