package routes

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"eldato-web/apperrors"
	"eldato-web/eligibility"
	"eldato-web/lifecycle"
	"eldato-web/middleware"
	"eldato-web/models"
	"eldato-web/services"
	"eldato-web/session"
	"eldato-web/utils"
	"eldato-web/websocket"
)

// Upstream is the remote El Dato API as used by the handlers
type Upstream interface {
	lifecycle.RequestAPI
	eligibility.API

	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, reg models.UserRegistration) (uint, error)
	Me(ctx context.Context) (*models.User, error)
	UploadProfilePhoto(ctx context.Context, filename string, file io.Reader) (*models.ProfilePhoto, error)
	DeleteProfilePhoto(ctx context.Context) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	ServiceDetail(ctx context.Context, id uint) (*models.ServiceDetail, error)
	CreateService(ctx context.Context, in models.ServiceCreate) (*models.Service, error)
	DeleteService(ctx context.Context, id uint) error
	SavedServices(ctx context.Context) ([]models.Service, error)
	SaveService(ctx context.Context, id uint) error
	UnsaveService(ctx context.Context, id uint) error

	ListAllRequests(ctx context.Context) ([]models.ServiceRequest, error)

	RatingsReceivedBy(ctx context.Context, userID uint) ([]models.Rating, error)
	LatestRatingsFor(ctx context.Context, userID uint) ([]models.Rating, error)
	GetRating(ctx context.Context, id uint) (*models.Rating, error)
	DeleteRating(ctx context.Context, id uint) error

	RatingReports(ctx context.Context) ([]models.RatingReport, error)
	ServiceReports(ctx context.Context) ([]models.ServiceReport, error)
	RequestReports(ctx context.Context) ([]models.RequestReport, error)
	ResolveReport(ctx context.Context, id uint) error
}

// PhotoUploader stores service photos and returns their public URLs
type PhotoUploader interface {
	UploadServicePhotos(ctx context.Context, providerID uint, files []*multipart.FileHeader) ([]string, error)
}

// Assistant answers free-text questions about the platform
type Assistant interface {
	Ask(ctx context.Context, message string) (*models.AssistantReply, error)
}

// Geocoder resolves a free-text address
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*utils.GeocodingResult, error)
}

// Deps are the collaborators of the handlers
type Deps struct {
	// Upstream returns an API client acting with the given upstream token
	Upstream      func(token string) Upstream
	JWT           *services.JWTService
	Sessions      *session.Manager
	Hub           *websocket.Hub
	Photos        PhotoUploader
	Geocoder      Geocoder
	Assistant     Assistant
	RateLimiter   *middleware.RateLimiter
	Origins       []string
	SecureCookies bool
}

// Handler serves the /api/v1 surface
type Handler struct {
	Deps
	upgrader gorillaws.Upgrader
}

func NewHandler(d Deps) *Handler {
	if d.RateLimiter == nil {
		d.RateLimiter = middleware.NewRateLimiter(0, 0)
	}
	return &Handler{Deps: d, upgrader: websocket.NewUpgrader(d.Origins)}
}

// SetupRouter builds the gin engine with the middleware stack and every route
func SetupRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(h.Origins))
	router.Use(middleware.InputValidationMiddleware(32 << 20))
	router.Use(middleware.RateLimitMiddleware(h.RateLimiter))
	router.Use(middleware.AuditLogMiddleware())

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "ok",
				"message":   "El Dato web service is running",
				"time":      time.Now().UTC(),
				"websocket": h.connectedUsers(),
			})
		})

		authRoutes := api.Group("/auth")
		RegisterAuthRoutes(authRoutes, h)

		public := api.Group("")
		public.Use(middleware.OptionalAuthMiddleware(h.JWT, h.Sessions))
		RegisterCategoryRoutes(public, h)
		RegisterPublicServiceRoutes(public, h)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(h.JWT, h.Sessions))
		{
			protected.POST("/auth/logout", h.Logout)
			RegisterUserRoutes(protected, h)
			RegisterServiceRoutes(protected, h)
			RegisterRequestRoutes(protected, h)
			RegisterRatingRoutes(protected, h)
			RegisterReportRoutes(protected, h)
			RegisterAssistantRoutes(protected, h)
			protected.GET("/ws", h.ServeWS)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(h.JWT, h.Sessions), middleware.AdminMiddleware())
		RegisterAdminRoutes(admin, h)
	}

	return router
}

// api returns the upstream client bound to the caller's session, or an anonymous one
func (h *Handler) api(c *gin.Context) Upstream {
	if s, ok := middleware.CurrentSession(c); ok {
		return h.Upstream(s.Token)
	}
	return h.Upstream("")
}

// notifier returns the hub as a lifecycle notifier, or a nil interface when push is off
func (h *Handler) notifier() lifecycle.Notifier {
	if h.Hub == nil {
		return nil
	}
	return h.Hub
}

func (h *Handler) connectedUsers() int {
	if h.Hub == nil {
		return 0
	}
	return h.Hub.ConnectedUsers()
}

// fail writes err. An upstream 401 means the upstream token is dead, so the session goes with it.
func (h *Handler) fail(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Kind == apperrors.KindAuthorization && appErr.Status == http.StatusUnauthorized {
		if s, ok := middleware.CurrentSession(c); ok {
			if clearErr := h.Sessions.Clear(c.Request.Context(), s.ID); clearErr == nil {
				h.clearCookie(c)
			}
		}
	}
	apperrors.Respond(c, err)
}

func (h *Handler) setCookie(c *gin.Context, token string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(maxAge.Seconds()), "/", "", h.SecureCookies, true)
}

func (h *Handler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.SecureCookies, true)
}

// paramID reads a positive numeric path parameter
func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid " + name)
	}
	return uint(id), nil
}

// bindJSON decodes the request body, reporting malformed input as a validation error
func bindJSON(c *gin.Context, out interface{}) error {
	if err := c.ShouldBindJSON(out); err != nil {
		return apperrors.Validation("Invalid request format")
	}
	return nil
}
