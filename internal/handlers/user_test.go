package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/gotodo/todo-api/internal/constants"
	"github.com/gotodo/todo-api/internal/database"
	"github.com/gotodo/todo-api/internal/models"
	"github.com/gotodo/todo-api/internal/repository"
	"github.com/gotodo/todo-api/internal/services"
	"github.com/gotodo/todo-api/internal/uploads"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type userTestEnv struct {
	db          *gorm.DB
	handler     *UserHandler
	authService *services.AuthService
	userService *services.UserService
	storeDir    string
}

func setupUserTestEnv(t *testing.T) userTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Todo{})
	require.NoError(t, err)

	database.SetDB(db)

	storeDir := t.TempDir()
	store, err := uploads.NewStore(storeDir)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, todoRepo, store)
	handler := NewUserHandler(userService, store)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return userTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		userService: userService,
		storeDir:    storeDir,
	}
}

func (env userTestEnv) registerUser(t *testing.T, username, password string) *models.User {
	t.Helper()
	user, err := env.authService.Register(services.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func userContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, url, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, userID)
	return c, w
}

func multipartImageRequest(t *testing.T, url, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profileImage"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, url, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUserHandler_GetProfile(t *testing.T) {
	env := setupUserTestEnv(t)
	user := env.registerUser(t, "profiled", "supersecret")

	c, w := userContext(http.MethodGet, "/api/user/profile", nil, user.ID)

	env.handler.GetProfile(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "profiled")
	require.NotContains(t, w.Body.String(), "$2a$")
	require.NotContains(t, w.Body.String(), "password")
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	env := setupUserTestEnv(t)
	user := env.registerUser(t, "before", "supersecret")

	body, _ := json.Marshal(map[string]string{"username": "after"})
	c, w := userContext(http.MethodPut, "/api/user/profile", body, user.ID)

	env.handler.UpdateProfile(c)

	require.Equal(t, http.StatusOK, w.Code)

	updated, err := env.userService.GetProfile(user.ID)
	require.NoError(t, err)
	require.Equal(t, "after", updated.Username)
	require.Equal(t, "before@example.com", updated.Email)
}

func TestUserHandler_UpdateProfile_Conflict(t *testing.T) {
	env := setupUserTestEnv(t)
	env.registerUser(t, "holder", "supersecret")
	user := env.registerUser(t, "wants", "supersecret")

	body, _ := json.Marshal(map[string]string{"username": "holder"})
	c, w := userContext(http.MethodPut, "/api/user/profile", body, user.ID)

	env.handler.UpdateProfile(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_ChangePassword(t *testing.T) {
	env := setupUserTestEnv(t)
	user := env.registerUser(t, "changer", "oldpassword")

	cases := []struct {
		name     string
		payload  map[string]string
		wantCode int
	}{
		{
			name: "mismatched confirmation",
			payload: map[string]string{
				"currentPassword": "oldpassword",
				"newPassword":     "newpassword",
				"confirmPassword": "different",
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "too short",
			payload: map[string]string{
				"currentPassword": "oldpassword",
				"newPassword":     "abc",
				"confirmPassword": "abc",
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "wrong current password",
			payload: map[string]string{
				"currentPassword": "nope",
				"newPassword":     "newpassword",
				"confirmPassword": "newpassword",
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "success",
			payload: map[string]string{
				"currentPassword": "oldpassword",
				"newPassword":     "newpassword",
				"confirmPassword": "newpassword",
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.payload)
			c, w := userContext(http.MethodPut, "/api/user/change-password", body, user.ID)

			env.handler.ChangePassword(c)

			require.Equal(t, tc.wantCode, w.Code)
		})
	}

	// The new password is live
	_, err := env.authService.Login(services.LoginInput{Identifier: "changer", Password: "newpassword"})
	require.NoError(t, err)
	_, err = env.authService.Login(services.LoginInput{Identifier: "changer", Password: "oldpassword"})
	require.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestUserHandler_DeleteAccount_WrongPassword(t *testing.T) {
	env := setupUserTestEnv(t)
	user := env.registerUser(t, "survivor", "supersecret")

	body, _ := json.Marshal(map[string]string{"password": "wrong"})
	c, w := userContext(http.MethodDelete, "/api/user/account", body, user.ID)

	env.handler.DeleteAccount(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	_, err := env.userService.GetProfile(user.ID)
	require.NoError(t, err)
}

func TestUserHandler_DeleteAccount_Cascades(t *testing.T) {
	env := setupUserTestEnv(t)
	user := env.registerUser(t, "leaver", "supersecret")
	other := env.registerUser(t, "stayer", "supersecret")

	var ownedIDs []uint64
	for i := 0; i < 3; i++ {
		todo := &models.Todo{Title: fmt.Sprintf("owned %d", i), Status: models.TodoStatusPending, Priority: models.TodoPriorityLow, UserID: user.ID}
		require.NoError(t, env.db.Create(todo).Error)
		ownedIDs = append(ownedIDs, todo.ID)
	}
	foreign := &models.Todo{Title: "foreign", Status: models.TodoStatusPending, Priority: models.TodoPriorityLow, UserID: other.ID}
	require.NoError(t, env.db.Create(foreign).Error)

	// Give the user a non-default image on disk
	imagePath := filepath.Join("profiles", "leaver-old.png")
	require.NoError(t, os.WriteFile(filepath.Join(env.storeDir, imagePath), []byte("img"), 0o644))
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", user.ID).Update("profile_image", imagePath).Error)

	body, _ := json.Marshal(map[string]string{"password": "supersecret"})
	c, w := userContext(http.MethodDelete, "/api/user/account", body, user.ID)

	env.handler.DeleteAccount(c)

	require.Equal(t, http.StatusOK, w.Code)

	_, err := env.userService.GetProfile(user.ID)
	require.ErrorIs(t, err, services.ErrUserNotFound)

	for _, id := range ownedIDs {
		err := env.db.First(&models.Todo{}, id).Error
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	}
	require.NoError(t, env.db.First(&models.Todo{}, foreign.ID).Error)

	_, err = os.Stat(filepath.Join(env.storeDir, imagePath))
	require.True(t, os.IsNotExist(err))
}

func TestUserHandler_UpdateProfileImage(t *testing.T) {
	env := setupUserTestEnv(t)
	user := env.registerUser(t, "pictured", "supersecret")

	// Seed a previous non-default image
	oldPath := filepath.Join("profiles", "pictured-old.png")
	require.NoError(t, os.WriteFile(filepath.Join(env.storeDir, oldPath), []byte("old"), 0o644))
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", user.ID).Update("profile_image", oldPath).Error)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartImageRequest(t, "/api/user/profile-image", "new.png", "image/png", []byte("new image bytes"))
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.UpdateProfileImage(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			ProfileImage    string `json:"profileImage"`
			ProfileImageURL string `json:"profileImageUrl"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEqual(t, oldPath, response.Data.ProfileImage)
	require.Contains(t, response.Data.ProfileImageURL, "/uploads/")

	// New file stored, old one gone
	_, err := os.Stat(filepath.Join(env.storeDir, response.Data.ProfileImage))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.storeDir, oldPath))
	require.True(t, os.IsNotExist(err))
}

func TestUserHandler_UpdateProfileImage_MissingFile(t *testing.T) {
	env := setupUserTestEnv(t)
	user := env.registerUser(t, "nofile", "supersecret")

	c, w := userContext(http.MethodPut, "/api/user/profile-image", nil, user.ID)

	env.handler.UpdateProfileImage(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_Stats(t *testing.T) {
	env := setupUserTestEnv(t)
	user := env.registerUser(t, "counted", "supersecret")

	for i := 0; i < 3; i++ {
		require.NoError(t, env.db.Create(&models.Todo{Title: "done", Status: models.TodoStatusCompleted, Priority: models.TodoPriorityHigh, UserID: user.ID}).Error)
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, env.db.Create(&models.Todo{Title: "open", Status: models.TodoStatusPending, Priority: models.TodoPriorityLow, UserID: user.ID}).Error)
	}

	c, w := userContext(http.MethodGet, "/api/user/stats", nil, user.ID)

	env.handler.Stats(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			User struct {
				Username              string    `json:"username"`
				MemberSince           time.Time `json:"memberSince"`
				DaysSinceRegistration int       `json:"daysSinceRegistration"`
			} `json:"user"`
			TodoStats struct {
				TotalTodos     int64 `json:"totalTodos"`
				CompletedTodos int64 `json:"completedTodos"`
				PendingTodos   int64 `json:"pendingTodos"`
				CompletionRate int   `json:"completionRate"`
			} `json:"todoStats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "counted", response.Data.User.Username)
	require.Equal(t, 0, response.Data.User.DaysSinceRegistration)
	require.Equal(t, int64(5), response.Data.TodoStats.TotalTodos)
	require.Equal(t, int64(3), response.Data.TodoStats.CompletedTodos)
	require.Equal(t, int64(2), response.Data.TodoStats.PendingTodos)
	require.Equal(t, 60, response.Data.TodoStats.CompletionRate)
}

func TestUserHandler_Stats_NoTodos(t *testing.T) {
	env := setupUserTestEnv(t)
	user := env.registerUser(t, "empty", "supersecret")

	c, w := userContext(http.MethodGet, "/api/user/stats", nil, user.ID)

	env.handler.Stats(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			TodoStats struct {
				TotalTodos     int64 `json:"totalTodos"`
				CompletionRate int   `json:"completionRate"`
			} `json:"todoStats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Zero(t, response.Data.TodoStats.TotalTodos)
	require.Zero(t, response.Data.TodoStats.CompletionRate)
}
