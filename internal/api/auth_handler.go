package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Carlvinchi/recipiverse/internal/core"
	"github.com/Carlvinchi/recipiverse/internal/models"
)

// AuthHandler exposes the auth state machine over HTTP.
type AuthHandler struct {
	authService core.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as core.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: as, logger: logger}
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	result := h.authService.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	h.respondAuthState(c, result)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	result := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	h.respondAuthState(c, result)
}

// GoogleSignIn handles POST /api/v1/auth/google.
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req models.GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	result := h.authService.SignInWithGoogle(c.Request.Context(), req.IDToken)
	h.respondAuthState(c, result)
}

// Logout handles POST /api/v1/auth/logout. The local session always ends
// unauthenticated, so this endpoint cannot fail.
func (h *AuthHandler) Logout(c *gin.Context) {
	result := h.authService.SignOut(c.Request.Context())
	c.JSON(http.StatusOK, AuthResponse{State: result})
}

// respondAuthState maps a terminal auth state to an HTTP response.
// Validation failures are the caller's fault; everything else that is not
// success came back from the identity provider.
func (h *AuthHandler) respondAuthState(c *gin.Context, result models.AuthState) {
	switch result.Phase {
	case models.AuthAuthenticated:
		c.JSON(http.StatusOK, AuthResponse{State: result, Profile: h.authService.Profile().Get()})
	case models.AuthError:
		status := http.StatusUnauthorized
		if result.Message == core.MsgEmptyCredentials {
			status = http.StatusBadRequest
		}
		c.JSON(status, AuthResponse{State: result})
	default:
		h.logger.Error("auth flow ended in a non-terminal state", zap.String("phase", string(result.Phase)))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Unexpected authentication state"})
	}
}
