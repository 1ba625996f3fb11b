package dto

import (
	"time"

	"github.com/gotodo/todo-api/internal/models"
)

// TodoDTO represents a todo in API responses.
type TodoDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TodoStatus   `json:"status"`
	Priority    models.TodoPriority `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
	UserID      uint64              `json:"userId"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TodoStatsDTO holds the grouped todo counts for one user.
type TodoStatsDTO struct {
	TotalTodos          int64 `json:"totalTodos"`
	CompletedTodos      int64 `json:"completedTodos"`
	PendingTodos        int64 `json:"pendingTodos"`
	HighPriorityTodos   int64 `json:"highPriorityTodos"`
	MediumPriorityTodos int64 `json:"mediumPriorityTodos"`
	LowPriorityTodos    int64 `json:"lowPriorityTodos"`
}

// ToTodoDTO converts a Todo model to TodoDTO.
func ToTodoDTO(todo models.Todo) TodoDTO {
	return TodoDTO{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Status:      todo.Status,
		Priority:    todo.Priority,
		DueDate:     todo.DueDate,
		UserID:      todo.UserID,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

// ToTodoListResponse converts a page of todos to the list envelope.
func ToTodoListResponse(todos []models.Todo, page, pageSize int, totalCount int64) ListResponse {
	items := make([]TodoDTO, len(todos))
	for i, todo := range todos {
		items[i] = ToTodoDTO(todo)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return ListResponse{
		Success:     true,
		Count:       len(items),
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		CurrentPage: page,
		Data:        items,
	}
}
