package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eldato-web/apperrors"
	"eldato-web/middleware"
	"eldato-web/models"
	"eldato-web/utils"
)

// RegisterAuthRoutes registers login and registration with strict rate limiting
func RegisterAuthRoutes(router *gin.RouterGroup, h *Handler) {
	limited := router.Group("")
	limited.Use(middleware.AuthRateLimitMiddleware(h.RateLimiter))
	{
		limited.POST("/login", h.Login)
		limited.POST("/register", h.Register)
	}
}

// Login authenticates against the remote API and opens a session holding its token
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.Validation("Enter a valid email and your password."))
		return
	}

	ctx := c.Request.Context()
	upstreamToken, err := h.Upstream("").Login(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	user, err := h.Upstream(upstreamToken).Me(ctx)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	s, err := h.Sessions.Set(ctx, *user, upstreamToken)
	if err != nil {
		apperrors.Respond(c, apperrors.Transient(err, "Could not start your session. Please try again."))
		return
	}

	token, err := h.JWT.GenerateSessionToken(s.ID, s.UserID, s.Role)
	if err != nil {
		apperrors.Respond(c, apperrors.Transient(err, "Could not start your session. Please try again."))
		return
	}
	h.setCookie(c, token.Token, h.JWT.Expiry())

	log.Printf("✅ User %d logged in as %s", user.ID, s.Role)
	c.JSON(http.StatusOK, gin.H{
		"token":      token.Token,
		"expires_in": token.ExpiresIn,
		"token_type": token.TokenType,
		"user":       user,
	})
}

// Register validates a new account locally before creating it remotely
func (h *Handler) Register(c *gin.Context) {
	var reg models.UserRegistration
	if err := bindJSON(c, &reg); err != nil {
		apperrors.Respond(c, err)
		return
	}
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Phone = strings.TrimSpace(reg.Phone)

	if err := utils.ValidateStruct(reg, "Please review the highlighted fields."); err != nil {
		apperrors.Respond(c, err)
		return
	}

	userID, err := h.Upstream("").Register(c.Request.Context(), reg)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	log.Printf("✅ Account %d registered", userID)
	c.JSON(http.StatusCreated, gin.H{
		"user_id": userID,
		"message": "Account created. You can log in now.",
	})
}

// Logout clears the session
func (h *Handler) Logout(c *gin.Context) {
	if s, ok := middleware.CurrentSession(c); ok {
		if err := h.Sessions.Clear(c.Request.Context(), s.ID); err != nil {
			h.fail(c, apperrors.Transient(err, "Could not close your session."))
			return
		}
	}
	h.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
