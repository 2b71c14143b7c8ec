package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eldato-web/apperrors"
	"eldato-web/eligibility"
	"eldato-web/middleware"
	"eldato-web/models"
)

// RegisterRatingRoutes registers rating eligibility, creation and listings
func RegisterRatingRoutes(router *gin.RouterGroup, h *Handler) {
	ratings := router.Group("/ratings")
	{
		ratings.GET("/pending", h.PendingCounterparts)
		ratings.POST("/pending/:counterpartId/resolve", h.ResolveCounterpart)
		ratings.POST("", h.CreateRating)
		ratings.GET("/authored", h.AuthoredRatings)
		ratings.GET("/received", h.ReceivedRatings)
		ratings.GET("/:id", h.GetRating)
		ratings.PUT("/:id", h.UpdateRating)
	}

	router.GET("/users/:id/ratings/latest", h.LatestRatings)
}

func (h *Handler) ratingEngine(c *gin.Context) *eligibility.Engine {
	return eligibility.NewEngine(h.api(c))
}

// PendingCounterparts lists who the caller can still rate
func (h *Handler) PendingCounterparts(c *gin.Context) {
	pending, err := h.ratingEngine(c).PendingCounterparts(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counterparts": pending})
}

// ResolveCounterpart picks the request a new rating about the counterpart attaches to
func (h *Handler) ResolveCounterpart(c *gin.Context) {
	counterpartID, err := paramID(c, "counterpartId")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	req, err := h.ratingEngine(c).SelectCounterpart(c.Request.Context(), middleware.CurrentActor(c), counterpartID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request_id": req.ID, "request": req})
}

func (h *Handler) CreateRating(c *gin.Context) {
	var in models.RatingCreate
	if err := bindJSON(c, &in); err != nil {
		apperrors.Respond(c, err)
		return
	}
	rating, err := h.ratingEngine(c).CreateRating(c.Request.Context(), middleware.CurrentActor(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rating": rating})
}

func (h *Handler) UpdateRating(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	var in models.RatingUpdate
	if err := bindJSON(c, &in); err != nil {
		apperrors.Respond(c, err)
		return
	}
	rating, err := h.ratingEngine(c).UpdateRating(c.Request.Context(), middleware.CurrentActor(c), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}

func (h *Handler) GetRating(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	rating, err := h.api(c).GetRating(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}

func (h *Handler) AuthoredRatings(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	ratings, err := h.api(c).RatingsAuthoredBy(c.Request.Context(), actor.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

// ReceivedRatings returns the ratings about the caller with their average rendered as stars
func (h *Handler) ReceivedRatings(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	ratings, err := h.api(c).RatingsReceivedBy(c.Request.Context(), actor.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, eligibility.Overview(ratings))
}

// LatestRatings shows the most recent ratings on a public profile
func (h *Handler) LatestRatings(c *gin.Context) {
	userID, err := paramID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	ratings, err := h.api(c).LatestRatingsFor(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, eligibility.Overview(ratings))
}
