package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eldato-web/apperrors"
	"eldato-web/eligibility"
	"eldato-web/middleware"
	"eldato-web/models"
	"eldato-web/utils"
)

// RegisterPublicServiceRoutes registers search and detail, open to anonymous visitors
func RegisterPublicServiceRoutes(router *gin.RouterGroup, h *Handler) {
	services := router.Group("/services")
	{
		services.GET("", h.SearchServices)
		services.GET("/:id", h.GetService)
	}
}

// RegisterServiceRoutes registers publishing and bookmarks
func RegisterServiceRoutes(router *gin.RouterGroup, h *Handler) {
	services := router.Group("/services")
	{
		services.POST("", middleware.RequireRole(models.RoleProvider), h.CreateService)
		services.GET("/saved", h.GetSavedServices)
		services.POST("/saved/:id", h.SaveService)
		services.DELETE("/saved/:id", h.UnsaveService)
	}
}

// SearchServices filters the catalogue by text, category and proximity
func (h *Handler) SearchServices(c *gin.Context) {
	var search models.ServiceSearch
	if err := c.ShouldBindQuery(&search); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid search filters"))
		return
	}
	ctx := c.Request.Context()

	origin, err := h.searchOrigin(c, search)
	if err != nil {
		h.fail(c, err)
		return
	}

	all, err := h.api(c).ListServices(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	filtered := utils.FilterServices(all, search)

	var matches []models.ServiceMatch
	if origin != nil {
		matches = utils.NearbyServices(filtered, *origin, search.RadiusKm)
	} else {
		matches = make([]models.ServiceMatch, 0, len(filtered))
		for _, s := range filtered {
			matches = append(matches, models.ServiceMatch{Service: s})
		}
	}

	if s, ok := middleware.CurrentSession(c); ok && strings.TrimSpace(search.Query) != "" {
		if _, err := h.Sessions.PushSearch(ctx, s.ID, search.Query); err != nil {
			log.Printf("⚠️ Could not record search for user %d: %v", s.UserID, err)
		}
	}

	resp := gin.H{"services": matches, "count": len(matches)}
	if origin != nil {
		resp["origin"] = origin
		resp["radius_km"] = utils.NormalizeRadius(search.RadiusKm)
	}
	c.JSON(http.StatusOK, resp)
}

// searchOrigin returns the proximity origin of a search, or nil when none was asked for
func (h *Handler) searchOrigin(c *gin.Context, search models.ServiceSearch) (*utils.Location, error) {
	switch {
	case search.Latitude != nil && search.Longitude != nil:
		if !utils.IsLocationValid(*search.Latitude, *search.Longitude) {
			return nil, apperrors.Validation("Invalid coordinates")
		}
		return &utils.Location{Latitude: *search.Latitude, Longitude: *search.Longitude}, nil
	case search.Latitude != nil || search.Longitude != nil:
		return nil, apperrors.Validation("Both lat and lng are required")
	case strings.TrimSpace(search.Address) != "":
		if h.Geocoder == nil {
			return nil, apperrors.Validation("Address search is not available")
		}
		res, err := h.Geocoder.Geocode(c.Request.Context(), search.Address)
		if err != nil {
			return nil, err
		}
		return &utils.Location{Latitude: res.Latitude, Longitude: res.Longitude}, nil
	}
	return nil, nil
}

// GetService returns a service with its photos and the provider's star rendering
func (h *Handler) GetService(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	detail, err := h.api(c).ServiceDetail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	detail.ProviderStars = eligibility.StarStates(detail.ProviderEvaluation)
	c.JSON(http.StatusOK, gin.H{"service": detail})
}

// CreateService uploads the photos of a new service, then publishes it
func (h *Handler) CreateService(c *gin.Context) {
	var in models.ServiceCreate
	if err := c.ShouldBind(&in); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid request format"))
		return
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Address == nil {
		in.Address = addressFromForm(c)
	}
	if err := utils.ValidateStruct(in, "Please review the highlighted fields."); err != nil {
		apperrors.Respond(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	if form, err := c.MultipartForm(); err == nil && len(form.File["photos"]) > 0 {
		if h.Photos == nil {
			apperrors.Respond(c, apperrors.Validation("Photo uploads are not available"))
			return
		}
		urls, err := h.Photos.UploadServicePhotos(c.Request.Context(), actor.UserID, form.File["photos"])
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		in.PhotoURLs = urls
	}

	service, err := h.api(c).CreateService(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	log.Printf("✅ Service %d published by provider %d", service.ID, actor.UserID)
	c.JSON(http.StatusCreated, gin.H{"service": service})
}

func addressFromForm(c *gin.Context) *models.Address {
	description := strings.TrimSpace(c.PostForm("address"))
	if description == "" {
		return nil
	}
	return &models.Address{
		Description: description,
		Commune:     strings.TrimSpace(c.PostForm("commune")),
		Region:      strings.TrimSpace(c.PostForm("region")),
	}
}

func (h *Handler) GetSavedServices(c *gin.Context) {
	saved, err := h.api(c).SavedServices(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": saved})
}

func (h *Handler) SaveService(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if err := h.api(c).SaveService(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service saved"})
}

func (h *Handler) UnsaveService(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if err := h.api(c).UnsaveService(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service removed from saved"})
}
