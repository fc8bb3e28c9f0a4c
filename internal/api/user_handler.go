package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Carlvinchi/recipiverse/internal/core"
	"github.com/Carlvinchi/recipiverse/internal/middleware"
	"github.com/Carlvinchi/recipiverse/internal/models"
)

// UserHandler exposes profile reads, updates and account deletion.
type UserHandler struct {
	authService   core.AuthService
	uploadService core.UploadService
	postService   core.PostService
	logger        *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(as core.AuthService, us core.UploadService, ps core.PostService, logger *zap.Logger) *UserHandler {
	return &UserHandler{authService: as, uploadService: us, postService: ps, logger: logger}
}

// callerID returns the middleware-verified identity of the request, or
// aborts with 401 when it is missing. Every user-scoped operation acts on
// this identity, never on shared session state.
func callerID(c *gin.Context) (string, bool) {
	uid := c.GetString(middleware.ContextUserID)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: user identity not found in context"})
		return "", false
	}
	return uid, true
}

// GetCurrentUserProfile handles GET /api/v1/users/me. Profile reads are
// fail-soft: a backend failure yields the sentinel profile, never an error.
func (h *UserHandler) GetCurrentUserProfile(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	profile := h.authService.FetchProfile(c.Request.Context(), uid)
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/users/me.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	if err := h.authService.UpdateProfile(c.Request.Context(), uid, req.Name, req.Email); err != nil {
		if errors.Is(err, core.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.MsgEmptyProfileFields})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: core.MsgSomethingWentWrong})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Profile updated successfully", Data: h.authService.Profile().Get()})
}

// UpdateProfileImage handles PUT /api/v1/users/me/image with a multipart
// "image" part.
func (h *UserHandler) UpdateProfileImage(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	image, err := formFileBlob(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "An image file is required", Details: err.Error()})
		return
	}

	url, err := h.uploadService.UpdateProfileImage(c.Request.Context(), uid, image)
	if err != nil {
		if errors.Is(err, core.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: core.MsgProfileImageUpdateFailed})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: core.MsgProfileImageUpdateFailed})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: core.MsgProfileImageUpdated, Data: gin.H{"imageUrl": url}})
}

// DeleteAccount handles DELETE /api/v1/users/me: the caller's posts are
// purged first, then the profile document. A post purge failure aborts
// before the profile is touched.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePostsByUserID(c.Request.Context(), uid); err != nil {
		h.logger.Error("account deletion aborted: could not purge posts", zap.String("userId", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: core.MsgCouldNotDeleteUser})
		return
	}
	if err := h.authService.DeleteAccount(c.Request.Context(), uid); err != nil {
		h.logger.Error("account deletion failed", zap.String("userId", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: core.MsgCouldNotDeleteUser})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Account deleted"})
}
