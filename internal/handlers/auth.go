package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gotodo/todo-api/internal/auth"
	"github.com/gotodo/todo-api/internal/constants"
	"github.com/gotodo/todo-api/internal/dto"
	apierrors "github.com/gotodo/todo-api/internal/errors"
	"github.com/gotodo/todo-api/internal/middleware"
	"github.com/gotodo/todo-api/internal/services"
	"github.com/gotodo/todo-api/internal/uploads"
)

// AuthHandler coordinates registration, login and the /auth profile routes.
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	tokens      *auth.TokenManager
	store       *uploads.Store
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, userService *services.UserService, tokens *auth.TokenManager, store *uploads.Store) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		tokens:      tokens,
		store:       store,
	}
}

// Register creates a new account. Accepts JSON or a multipart form; the
// multipart form may carry an optional profile image.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string `json:"username" form:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" form:"email" binding:"required,email"`
		Password string `json:"password" form:"password" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Please provide username, email and password")
		return
	}

	imagePath := ""
	if fh, err := c.FormFile("profileImage"); err == nil {
		// No user ID exists yet, so the file is stored under the temp owner.
		path, err := h.store.SaveProfileImage(fh, "temp")
		if err != nil {
			respondUploadError(c, err)
			return
		}
		imagePath = path
	}

	user, err := h.authService.Register(services.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		ProfileImage: imagePath,
	})
	if err != nil {
		if imagePath != "" {
			h.store.Remove(imagePath)
		}
		respondAuthError(c, err)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.AuthDTO{
		User:  dto.ToUserDTO(*user),
		Token: token,
	}))
}

// Login authenticates by username or email and returns a fresh token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		UsernameOrEmail string `json:"usernameOrEmail"`
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Please provide credentials and password")
		return
	}

	identifier := req.UsernameOrEmail
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" {
		apierrors.BadRequest(c, "Please provide a username or email")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Identifier: identifier,
		Password:   req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.AuthDTO{
		User:  dto.ToUserDTO(*user),
		Token: token,
	}))
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToUserDTO(*user)))
}

// UpdateProfile updates username/email and optionally the profile image in
// one request.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
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

	if fh, ferr := c.FormFile("profileImage"); ferr == nil {
		path, err := h.store.SaveProfileImage(fh, strconv.FormatUint(userID, 10))
		if err != nil {
			respondUploadError(c, err)
			return
		}
		user, err = h.userService.SetProfileImage(userID, path)
		if err != nil {
			respondAuthError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, dto.OKMessage("Profile updated successfully", dto.ToUserDTO(*user)))
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters long", constants.MinPasswordLength))
	case errors.Is(err, services.ErrPasswordMismatch):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrDuplicateUser):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrWrongPassword):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}
