package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-billing-api/internal/application/service"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-billing-api/internal/presentation/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// Login handles user login
// @Summary Login
// @Description Authenticate the shop user and start a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} service.LoginOutput
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Username and password are required")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password, GetDeviceID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	maxAge := int(h.authService.SessionTimeout().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, output.Token, maxAge, "/", "", h.secureCookie, true)
	response.OK(c, output)
}

// Logout handles user logout
// @Summary Logout
// @Description Clear the session cookie
// @Tags auth
// @Success 200 {object} response.MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	response.Message(c, "Logged out successfully")
}

// Session reports the current device and whether it is signed in.
func (h *AuthHandler) Session(c *gin.Context) {
	if session := GetSession(c); session != nil {
		response.OK(c, session)
		return
	}
	response.OK(c, gin.H{
		"device_id":     GetDeviceID(c),
		"authenticated": false,
	})
}
