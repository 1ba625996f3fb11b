package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gotodo/todo-api/internal/dto"
	apierrors "github.com/gotodo/todo-api/internal/errors"
	"github.com/gotodo/todo-api/internal/middleware"
	"github.com/gotodo/todo-api/internal/models"
	"github.com/gotodo/todo-api/internal/services"
	"github.com/gotodo/todo-api/internal/utils"
)

// TodoHandler coordinates the /api/todos routes.
type TodoHandler struct {
	todoService *services.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
	}
}

// List returns the user's todos with filtering, sorting and pagination.
func (h *TodoHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	todos, total, err := h.todoService.List(userID, services.ListInput{
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      params.Page,
		PageSize:  params.Limit,
	})
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoListResponse(todos, params.Page, params.Limit, total))
}

// Get returns one owned todo.
func (h *TodoHandler) Get(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	todo, err := h.todoService.Get(userID, id)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToTodoDTO(*todo)))
}

// Create persists a new pending todo.
func (h *TodoHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTodoRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"dueDate"`
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Title is required")
		return
	}

	todo, err := h.todoService.Create(userID, services.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToTodoDTO(*todo)))
}

// Update changes only the fields present in the request body. A null
// dueDate clears the due date.
func (h *TodoHandler) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateInput
	if v, ok := rawReq["title"]; ok {
		if s, ok := v.(string); ok {
			input.Title = &s
		}
	}
	if v, ok := rawReq["description"]; ok {
		if s, ok := v.(string); ok {
			input.Description = &s
		}
	}
	if v, ok := rawReq["status"]; ok {
		if s, ok := v.(string); ok {
			input.Status = &s
		}
	}
	if v, ok := rawReq["priority"]; ok {
		if s, ok := v.(string); ok {
			input.Priority = &s
		}
	}
	if v, ok := rawReq["dueDate"]; ok {
		input.DueDateSet = true
		if v != nil {
			s, ok := v.(string)
			if !ok {
				apierrors.BadRequest(c, "Invalid due date")
				return
			}
			parsed, err := time.Parse(time.RFC3339, s)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due date")
				return
			}
			input.DueDate = &parsed
		}
	}

	todo, err := h.todoService.Update(userID, id, input)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToTodoDTO(*todo)))
}

// Delete removes one owned todo.
func (h *TodoHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	if err := h.todoService.Delete(userID, id); err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Todo deleted successfully", nil))
}

// MarkCompleted transitions a todo to completed. Idempotent.
func (h *TodoHandler) MarkCompleted(c *gin.Context) {
	h.setStatus(c, models.TodoStatusCompleted)
}

// MarkPending transitions a todo back to pending. Idempotent.
func (h *TodoHandler) MarkPending(c *gin.Context) {
	h.setStatus(c, models.TodoStatusPending)
}

func (h *TodoHandler) setStatus(c *gin.Context, status models.TodoStatus) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	todo, err := h.todoService.SetStatus(userID, id, status)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToTodoDTO(*todo)))
}

// Stats returns the grouped counts for the user's todos.
func (h *TodoHandler) Stats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	stats, err := h.todoService.Stats(userID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.TodoStatsDTO{
		TotalTodos:          stats.TotalTodos,
		CompletedTodos:      stats.CompletedTodos,
		PendingTodos:        stats.PendingTodos,
		HighPriorityTodos:   stats.HighPriorityTodos,
		MediumPriorityTodos: stats.MediumPriorityTodos,
		LowPriorityTodos:    stats.LowPriorityTodos,
	}))
}

func todoIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid todo ID")
		return 0, false
	}
	return id, true
}

func respondTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTodoNotFound):
		apierrors.NotFound(c, "Todo not found")
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidSortField):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}
