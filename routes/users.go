package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eldato-web/apperrors"
	"eldato-web/middleware"
	"eldato-web/services"
)

// RegisterUserRoutes registers the current user's profile and search history
func RegisterUserRoutes(router *gin.RouterGroup, h *Handler) {
	me := router.Group("/me")
	{
		me.GET("", h.GetCurrentUser)
		me.POST("/photo", h.UploadProfilePhoto)
		me.DELETE("/photo", h.DeleteProfilePhoto)
	}

	history := router.Group("/search/history")
	{
		history.GET("", h.GetSearchHistory)
		history.DELETE("", h.ClearSearchHistory)
	}
}

func (h *Handler) GetCurrentUser(c *gin.Context) {
	user, err := h.api(c).Me(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	// role stays the one derived at login
	user.Role = middleware.CurrentActor(c).Role
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UploadProfilePhoto(c *gin.Context) {
	header, err := c.FormFile("photo")
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Select a photo to upload."))
		return
	}
	if err := services.ValidateImageFile(header); err != nil {
		apperrors.Respond(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("The photo could not be read."))
		return
	}
	defer file.Close()

	photo, err := h.api(c).UploadProfilePhoto(c.Request.Context(), header.Filename, file)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"photo": photo})
}

func (h *Handler) DeleteProfilePhoto(c *gin.Context) {
	if err := h.api(c).DeleteProfilePhoto(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile photo removed"})
}

func (h *Handler) GetSearchHistory(c *gin.Context) {
	s, _ := middleware.CurrentSession(c)
	history, err := h.Sessions.SearchHistory(c.Request.Context(), s.ID)
	if err != nil {
		apperrors.Respond(c, apperrors.Transient(err, "Could not load your recent searches."))
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *Handler) ClearSearchHistory(c *gin.Context) {
	s, _ := middleware.CurrentSession(c)
	if err := h.Sessions.ClearSearchHistory(c.Request.Context(), s.ID); err != nil {
		apperrors.Respond(c, apperrors.Transient(err, "Could not clear your recent searches."))
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": []string{}})
}
