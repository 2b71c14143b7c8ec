package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterCategoryRoutes registers category-related routes
func RegisterCategoryRoutes(router *gin.RouterGroup, h *Handler) {
	router.GET("/categories", h.GetCategories)
}

// GetCategories returns every service category
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.api(c).ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
