package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/gotodo/todo-api/internal/constants"
	"github.com/gotodo/todo-api/internal/models"
	"github.com/gotodo/todo-api/internal/repository"
	"github.com/gotodo/todo-api/internal/uploads"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrWrongPassword       = errors.New("password is incorrect")
	ErrPasswordMismatch    = errors.New("new password and confirm password do not match")
	ErrProfileImageMissing = errors.New("profile image file is required")
)

// UserService handles profile management, password changes and account deletion.
type UserService struct {
	userRepo repository.UserRepository
	todoRepo repository.TodoRepository
	store    *uploads.Store
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, todoRepo repository.TodoRepository, store *uploads.Store) *UserService {
	return &UserService{
		userRepo: userRepo,
		todoRepo: todoRepo,
		store:    store,
	}
}

// GetProfile returns the user's record.
func (s *UserService) GetProfile(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput carries the optional profile fields.
type UpdateProfileInput struct {
	Username string
	Email    string
}

// UpdateProfile changes username and/or email, rejecting values held by a
// different user.
func (s *UserService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if username != "" && username != user.Username {
		taken, err := s.userRepo.ExistsOtherWithUsername(username, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		user.Username = username
	}

	if email != "" && email != user.Email {
		taken, err := s.userRepo.ExistsOtherWithEmail(email, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
		user.Email = email
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// SetProfileImage replaces the user's image path with an already-stored
// file. The previous non-default file is removed best-effort; if persisting
// the new path fails, the new file is removed so it cannot be orphaned.
func (s *UserService) SetProfileImage(userID uint64, relPath string) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		s.store.Remove(relPath)
		return nil, err
	}

	previous := user.ProfileImage
	user.ProfileImage = relPath
	if err := s.userRepo.Update(user); err != nil {
		s.store.Remove(relPath)
		return nil, fmt.Errorf("failed to update profile image: %w", err)
	}

	s.store.Remove(previous)
	return user, nil
}

// ChangePasswordInput carries the password change fields.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// ChangePassword verifies the current password and stores a new hash.
func (s *UserService) ChangePassword(userID uint64, input ChangePasswordInput) error {
	if input.NewPassword != input.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(input.NewPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// DeleteAccount removes the user after password re-confirmation. Cleanup
// order: image file, then owned todos, then the user record. Cleanup
// failures are logged and never block the deletion itself.
func (s *UserService) DeleteAccount(userID uint64, password string) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrWrongPassword
	}

	s.store.Remove(user.ProfileImage)

	if err := s.todoRepo.DeleteByUser(user.ID); err != nil {
		log.Printf("Error deleting todos for user %d: %v", user.ID, err)
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return nil
}

// UserStats holds registration age and the todo aggregate.
type UserStats struct {
	User                  models.User
	DaysSinceRegistration int
	TodoStats             repository.TodoStats
	CompletionRate        int
}

// Stats returns the user's registration age in whole days, their todo
// aggregate and a rounded completion percentage (0 when there are no todos).
func (s *UserService) Stats(userID uint64) (*UserStats, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	todoStats, err := s.todoRepo.Stats(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load todo stats: %w", err)
	}

	days := int(time.Since(user.CreatedAt).Hours() / 24)

	rate := 0
	if todoStats.TotalTodos > 0 {
		rate = int(math.Round(float64(todoStats.CompletedTodos) / float64(todoStats.TotalTodos) * 100))
	}

	return &UserStats{
		User:                  *user,
		DaysSinceRegistration: days,
		TodoStats:             todoStats,
		CompletionRate:        rate,
	}, nil
}
