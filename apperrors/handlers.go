package apperrors

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
)

// Respond writes err as a JSON error body and aborts the request
func Respond(c *gin.Context, err error) {
	status := HTTPStatus(err)

	var appErr *AppError
	if !errors.As(err, &appErr) {
		log.Printf("❌ Unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Internal server error", "kind": KindTransient})
		return
	}

	if appErr.Kind == KindTransient {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	body := gin.H{"error": appErr.Message, "kind": appErr.Kind}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.AbortWithStatusJSON(status, body)
}
