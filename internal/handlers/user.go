package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gotodo/todo-api/internal/dto"
	apierrors "github.com/gotodo/todo-api/internal/errors"
	"github.com/gotodo/todo-api/internal/middleware"
	"github.com/gotodo/todo-api/internal/services"
	"github.com/gotodo/todo-api/internal/uploads"
)

// UserHandler coordinates the /api/user routes.
type UserHandler struct {
	userService *services.UserService
	store       *uploads.Store
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, store *uploads.Store) *UserHandler {
	return &UserHandler{
		userService: userService,
		store:       store,
	}
}

// GetProfile returns the authenticated user's public fields.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToUserDTO(*user)))
}

// UpdateProfile changes username and/or email.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateProfileRequest struct {
		Username string `json:"username" form:"username"`
		Email    string `json:"email" form:"email"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Profile updated successfully", dto.ToUserDTO(*user)))
}

// UpdateProfileImage stores a new image and replaces the previous one.
func (h *UserHandler) UpdateProfileImage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	fh, err := c.FormFile("profileImage")
	if err != nil {
		apierrors.BadRequest(c, "Please select an image file")
		return
	}

	path, err := h.store.SaveProfileImage(fh, strconv.FormatUint(userID, 10))
	if err != nil {
		respondUploadError(c, err)
		return
	}

	user, err := h.userService.SetProfileImage(userID, path)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Profile image updated successfully", dto.ProfileImageDTO{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		ProfileImage:    user.ProfileImage,
		ProfileImageURL: profileImageURL(c, user.ProfileImage),
	}))
}

// ChangePassword re-hashes after verifying the current password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type ChangePasswordRequest struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Please provide current password, new password, and confirm password")
		return
	}

	err := h.userService.ChangePassword(userID, services.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Password changed successfully", nil))
}

// DeleteAccount removes the account and everything it owns.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type DeleteAccountRequest struct {
		Password string `json:"password" binding:"required"`
	}

	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Please provide your password to confirm account deletion")
		return
	}

	if err := h.userService.DeleteAccount(userID, req.Password); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Account deleted successfully", nil))
}

// Stats returns registration age plus the todo aggregate with completion rate.
func (h *UserHandler) Stats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	stats, err := h.userService.Stats(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.UserStatsDTO{
		User: dto.UserAccountStats{
			Username:              stats.User.Username,
			Email:                 stats.User.Email,
			MemberSince:           stats.User.CreatedAt,
			DaysSinceRegistration: stats.DaysSinceRegistration,
		},
		TodoStats: dto.TodoStatsWithRate{
			TodoStatsDTO: dto.TodoStatsDTO{
				TotalTodos:          stats.TodoStats.TotalTodos,
				CompletedTodos:      stats.TodoStats.CompletedTodos,
				PendingTodos:        stats.TodoStats.PendingTodos,
				HighPriorityTodos:   stats.TodoStats.HighPriorityTodos,
				MediumPriorityTodos: stats.TodoStats.MediumPriorityTodos,
				LowPriorityTodos:    stats.TodoStats.LowPriorityTodos,
			},
			CompletionRate: stats.CompletionRate,
		},
	}))
}

func respondUploadError(c *gin.Context, err error) {
	var typeErr *uploads.UnsupportedTypeError
	switch {
	case errors.Is(err, uploads.ErrFileTooLarge):
		apierrors.BadRequest(c, "File too large. Maximum size is 5MB")
	case errors.As(err, &typeErr):
		apierrors.BadRequest(c, typeErr.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}

func profileImageURL(c *gin.Context, relPath string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/uploads/%s", scheme, c.Request.Host, relPath)
}
