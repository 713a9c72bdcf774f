package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-billing-api/internal/application/service"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
)

// SessionCookie must match the cookie written by the login handler.
const SessionCookie = "session_token"

// AuthMiddleware rejects requests without a valid session and places the
// session in the context
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.AbortWithError(c, apperror.NewAppError(401, "Authentication required"))
			return
		}

		session, err := authService.Authenticate(token, c.GetString("device_id"))
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		c.Set("session", session)
		c.Next()
	}
}

// OptionalAuthMiddleware tries to authenticate but doesn't fail if no token is provided
func OptionalAuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if session, err := authService.Authenticate(token, c.GetString("device_id")); err == nil {
				c.Set("session", session)
			}
		}
		c.Next()
	}
}

// extractToken reads "Bearer <token>" and falls back to the session cookie.
func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
		return ""
	}
	token, _ := c.Cookie(SessionCookie)
	return token
}
