package routes

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"eldato-web/apperrors"
	"eldato-web/lifecycle"
	"eldato-web/middleware"
	"eldato-web/models"
)

// RegisterAdminRoutes registers moderation endpoints; the group is guarded by AdminMiddleware
func RegisterAdminRoutes(router *gin.RouterGroup, h *Handler) {
	router.GET("/requests", h.AdminListRequests)

	reports := router.Group("/reports")
	{
		reports.GET("/ratings", h.AdminRatingReports)
		reports.GET("/services", h.AdminServiceReports)
		reports.GET("/requests", h.AdminRequestReports)
		reports.DELETE("/:id", h.AdminResolveReport)
	}

	router.DELETE("/ratings/:id", h.AdminDeleteRating)
	router.DELETE("/services/:id", h.AdminDeleteService)
}

// AdminListRequests returns every request on the platform, filtered by ?state=
func (h *Handler) AdminListRequests(c *gin.Context) {
	reqs, err := h.api(c).ListAllRequests(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	lifecycle.SortNewestFirst(reqs)
	summary := lifecycle.Summarize(reqs)

	filtered, err := lifecycle.Filter(reqs, c.Query("state"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": filtered, "summary": summary})
}

func (h *Handler) AdminRatingReports(c *gin.Context) {
	reports, err := h.api(c).RatingReports(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if reports == nil {
		reports = []models.RatingReport{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *Handler) AdminServiceReports(c *gin.Context) {
	reports, err := h.api(c).ServiceReports(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if reports == nil {
		reports = []models.ServiceReport{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *Handler) AdminRequestReports(c *gin.Context) {
	reports, err := h.api(c).RequestReports(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if reports == nil {
		reports = []models.RequestReport{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// AdminResolveReport dismisses a report
func (h *Handler) AdminResolveReport(c *gin.Context) {
	h.adminDelete(c, "report", h.api(c).ResolveReport)
}

// AdminDeleteRating removes a reported rating
func (h *Handler) AdminDeleteRating(c *gin.Context) {
	h.adminDelete(c, "rating", h.api(c).DeleteRating)
}

// AdminDeleteService removes a reported service
func (h *Handler) AdminDeleteService(c *gin.Context) {
	h.adminDelete(c, "service", h.api(c).DeleteService)
}

func (h *Handler) adminDelete(c *gin.Context, what string, remove func(ctx context.Context, id uint) error) {
	id, err := paramID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if err := remove(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	log.Printf("🛡️ Admin %d removed %s %d", middleware.CurrentActor(c).UserID, what, id)
	c.JSON(http.StatusOK, gin.H{"message": "Done", "id": id})
}
