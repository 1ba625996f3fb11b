package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/gotodo/todo-api/internal/models"
	"github.com/gotodo/todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTodoNotFound     = errors.New("todo not found")
	ErrInvalidStatus    = errors.New("invalid status value")
	ErrInvalidPriority  = errors.New("invalid priority value")
	ErrInvalidSortField = errors.New("invalid sort field")
)

// sortColumns maps API field names to database columns. Sorting goes
// through this whitelist only.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
}

// TodoService handles todo business logic, always scoped to an owner.
type TodoService struct {
	todoRepo repository.TodoRepository
}

// NewTodoService creates a new TodoService.
func NewTodoService(todoRepo repository.TodoRepository) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
	}
}

// ListInput holds the query options for listing todos.
type ListInput struct {
	Status    string
	Priority  string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// List returns the user's todos matching the filters, sorted and paginated,
// along with the total match count.
func (s *TodoService) List(userID uint64, input ListInput) ([]models.Todo, int64, error) {
	filter := repository.TodoFilter{
		UserID:   userID,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if input.Status != "" {
		status := models.TodoStatus(input.Status)
		if !models.ValidStatus(status) {
			return nil, 0, ErrInvalidStatus
		}
		filter.Status = &status
	}
	if input.Priority != "" {
		priority := models.TodoPriority(input.Priority)
		if !models.ValidPriority(priority) {
			return nil, 0, ErrInvalidPriority
		}
		filter.Priority = &priority
	}

	if input.SortBy != "" {
		column, ok := sortColumns[input.SortBy]
		if !ok {
			return nil, 0, ErrInvalidSortField
		}
		filter.SortBy = column
		filter.SortDesc = input.SortOrder == "desc"
	} else {
		// Default: newest created first
		filter.SortBy = "created_at"
		filter.SortDesc = true
	}

	return s.todoRepo.List(filter)
}

// Get returns the todo if it exists and is owned by the user.
func (s *TodoService) Get(userID, id uint64) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByOwner(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return todo, nil
}

// CreateInput represents a new todo.
type CreateInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

// Create persists a new pending todo owned by the user.
func (s *TodoService) Create(userID uint64, input CreateInput) (*models.Todo, error) {
	priority := models.TodoPriorityMedium
	if input.Priority != "" {
		priority = models.TodoPriority(input.Priority)
		if !models.ValidPriority(priority) {
			return nil, ErrInvalidPriority
		}
	}

	todo := &models.Todo{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TodoStatusPending,
		Priority:    priority,
		DueDate:     input.DueDate,
		UserID:      userID,
	}

	if err := s.todoRepo.Create(todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

// UpdateInput carries the fields of a partial update. Nil pointers mean
// "leave unchanged"; DueDateSet distinguishes an explicit null due date
// from an absent one.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	DueDateSet  bool
}

// Update changes only the supplied fields of an owned todo.
func (s *TodoService) Update(userID, id uint64, input UpdateInput) (*models.Todo, error) {
	todo, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		todo.Title = *input.Title
	}
	if input.Description != nil {
		todo.Description = *input.Description
	}
	if input.Status != nil {
		status := models.TodoStatus(*input.Status)
		if !models.ValidStatus(status) {
			return nil, ErrInvalidStatus
		}
		todo.Status = status
	}
	if input.Priority != nil {
		priority := models.TodoPriority(*input.Priority)
		if !models.ValidPriority(priority) {
			return nil, ErrInvalidPriority
		}
		todo.Priority = priority
	}
	if input.DueDateSet {
		todo.DueDate = input.DueDate
	}

	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

// Delete removes an owned todo.
func (s *TodoService) Delete(userID, id uint64) error {
	deleted, err := s.todoRepo.DeleteByOwner(id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if !deleted {
		return ErrTodoNotFound
	}
	return nil
}

// SetStatus transitions an owned todo to the given status. Repeating a
// transition is a no-op, not an error.
func (s *TodoService) SetStatus(userID, id uint64, status models.TodoStatus) (*models.Todo, error) {
	todo, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	todo.Status = status
	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to update todo status: %w", err)
	}

	return todo, nil
}

// Stats returns the grouped counts for the user's todos.
func (s *TodoService) Stats(userID uint64) (repository.TodoStats, error) {
	return s.todoRepo.Stats(userID)
}
