package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS allows browser clients from origins (comma-separated; empty or "*"
// allows any). Preflight requests are answered here and never reach handlers.
func CORS(origins string) gin.HandlerFunc {
	allowed := []string{"*"}
	if o := strings.TrimSpace(origins); o != "" && o != "*" {
		allowed = nil
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				allowed = append(allowed, part)
			}
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Api-Key"},
		MaxAge:         600,
	})

	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions && ctx.Request.Header.Get("Access-Control-Request-Method") != "" {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}
