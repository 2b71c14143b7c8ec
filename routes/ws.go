package routes

import (
	"github.com/gin-gonic/gin"

	"eldato-web/apperrors"
	"eldato-web/middleware"
	"eldato-web/websocket"
)

// ServeWS upgrades the connection for push events about the caller's requests
func (h *Handler) ServeWS(c *gin.Context) {
	if h.Hub == nil {
		apperrors.Respond(c, apperrors.NotFound("Live updates are not available"))
		return
	}
	websocket.ServeWebSocket(h.Hub, h.upgrader, c.Writer, c.Request, middleware.CurrentActor(c))
}
