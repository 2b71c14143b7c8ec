package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"eldato-web/apperrors"
	"eldato-web/models"
	"eldato-web/services"
	"eldato-web/session"
)

const (
	// SessionCookie carries the session token for browser clients
	SessionCookie = "eldato_session"

	contextSession = "session"
	contextUserID  = "user_id"
)

// AuthMiddleware resolves the session token into a live session and sets it in context
func AuthMiddleware(jwtService *services.JWTService, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			apperrors.Respond(c, apperrors.Unauthenticated("Please log in to continue."))
			return
		}

		claims, err := jwtService.ValidateSessionToken(tokenString)
		if err != nil {
			log.Printf("🔍 AuthMiddleware: rejected token on %s: %v", c.Request.URL.Path, err)
			apperrors.Respond(c, apperrors.Unauthenticated("Your session is invalid or expired."))
			return
		}

		s, err := sessions.Get(c.Request.Context(), claims.SessionID)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.Printf("❌ AuthMiddleware: could not load session: %v", err)
			}
			apperrors.Respond(c, apperrors.Unauthenticated("Your session is invalid or expired."))
			return
		}
		if s.UserID != claims.UserID {
			apperrors.Respond(c, apperrors.Unauthenticated("Your session is invalid or expired."))
			return
		}

		c.Set(contextSession, s)
		c.Set(contextUserID, s.UserID)
		c.Next()
	}
}

// OptionalAuthMiddleware is like AuthMiddleware but lets anonymous requests through
func OptionalAuthMiddleware(jwtService *services.JWTService, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateSessionToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		if s, err := sessions.Get(c.Request.Context(), claims.SessionID); err == nil && s.UserID == claims.UserID {
			c.Set(contextSession, s)
			c.Set(contextUserID, s.UserID)
		}
		c.Next()
	}
}

// RequireRole lets the request through only for the given roles
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			apperrors.Respond(c, apperrors.Unauthenticated("Please log in to continue."))
			return
		}
		for _, role := range roles {
			if s.Role == role {
				c.Next()
				return
			}
		}
		log.Printf("🚫 User %d (%s) denied on %s", s.UserID, s.Role, c.FullPath())
		apperrors.Respond(c, apperrors.Authorization("access denied"))
	}
}

// AdminMiddleware guards administrator routes
func AdminMiddleware() gin.HandlerFunc {
	return RequireRole(models.RoleAdministrator)
}

// CurrentSession returns the session set by AuthMiddleware
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(contextSession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}

// CurrentActor returns the authenticated actor, or the zero Actor when there is none
func CurrentActor(c *gin.Context) models.Actor {
	s, ok := CurrentSession(c)
	if !ok {
		return models.Actor{}
	}
	return s.Actor()
}

// tokenFromRequest reads the bearer header, then the session cookie.
// WebSocket upgrades may pass the token as a query parameter since browsers cannot set headers there.
func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if tokenString := strings.TrimPrefix(authHeader, "Bearer "); tokenString != authHeader {
			return strings.TrimSpace(tokenString)
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return c.Query("token")
	}
	return ""
}
