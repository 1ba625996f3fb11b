package repository

import (
	"github.com/gotodo/todo-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsernameOrEmail matches the identifier against email first,
	// then username
	FindByUsernameOrEmail(identifier string) (*models.User, error)

	// ExistsOtherWithUsername reports whether another user holds the username
	ExistsOtherWithUsername(username string, excludeID uint64) (bool, error)

	// ExistsOtherWithEmail reports whether another user holds the email
	ExistsOtherWithEmail(email string, excludeID uint64) (bool, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete removes a user record
	Delete(id uint64) error
}

// TodoRepository defines the interface for todo data access
type TodoRepository interface {
	// Create creates a new todo
	Create(todo *models.Todo) error

	// FindByOwner finds a todo by ID scoped to its owner. A todo owned by
	// someone else behaves exactly like a missing one.
	FindByOwner(id, userID uint64) (*models.Todo, error)

	// List retrieves todos with filtering, sorting and pagination
	List(filter TodoFilter) ([]models.Todo, int64, error)

	// Update persists changes to a todo
	Update(todo *models.Todo) error

	// DeleteByOwner removes a todo scoped to its owner; the bool reports
	// whether a row was deleted
	DeleteByOwner(id, userID uint64) (bool, error)

	// DeleteByUser removes all todos owned by a user
	DeleteByUser(userID uint64) error

	// Stats returns grouped counts for a user's todos
	Stats(userID uint64) (TodoStats, error)
}

// TodoFilter holds filtering, sorting and pagination options for listing todos
type TodoFilter struct {
	UserID   uint64
	Status   *models.TodoStatus
	Priority *models.TodoPriority
	SortBy   string // database column, validated by the caller
	SortDesc bool
	Page     int
	PageSize int
}

// TodoStats holds the grouped counts produced by Stats
type TodoStats struct {
	TotalTodos          int64
	CompletedTodos      int64
	PendingTodos        int64
	HighPriorityTodos   int64
	MediumPriorityTodos int64
	LowPriorityTodos    int64
}
