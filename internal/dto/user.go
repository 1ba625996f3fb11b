package dto

import (
	"time"

	"github.com/gotodo/todo-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash is never
// part of this shape.
type UserDTO struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AuthDTO is the register/login response payload.
type AuthDTO struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// ProfileImageDTO is returned after a profile image update.
type ProfileImageDTO struct {
	ID              uint64 `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	ProfileImage    string `json:"profileImage"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// UserStatsDTO aggregates account information and todo statistics.
type UserStatsDTO struct {
	User      UserAccountStats `json:"user"`
	TodoStats TodoStatsWithRate `json:"todoStats"`
}

// UserAccountStats describes the account itself.
type UserAccountStats struct {
	Username              string    `json:"username"`
	Email                 string    `json:"email"`
	MemberSince           time.Time `json:"memberSince"`
	DaysSinceRegistration int       `json:"daysSinceRegistration"`
}

// TodoStatsWithRate extends the todo aggregate with a completion percentage.
type TodoStatsWithRate struct {
	TodoStatsDTO
	CompletionRate int `json:"completionRate"`
}

// ToUserDTO converts a User model to UserDTO.
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt,
	}
}
