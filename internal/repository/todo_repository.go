package repository

import (
	"fmt"

	"github.com/gotodo/todo-api/internal/database"
	"github.com/gotodo/todo-api/internal/models"
	"gorm.io/gorm"
)

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

// Create creates a new todo
func (r *GormTodoRepository) Create(todo *models.Todo) error {
	return r.db.Create(todo).Error
}

// FindByOwner finds a todo by ID scoped to its owner
func (r *GormTodoRepository) FindByOwner(id, userID uint64) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// List retrieves todos with filtering, sorting and pagination
func (r *GormTodoRepository) List(filter TodoFilter) ([]models.Todo, int64, error) {
	var todos []models.Todo

	query := r.db.Model(&models.Todo{}).Where("user_id = ?", filter.UserID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	direction := "asc"
	if filter.SortDesc {
		direction = "desc"
	}
	listQuery := query.Order(fmt.Sprintf("%s %s", sortBy, direction))

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Page, filter.PageSize))
	}

	if err := listQuery.Find(&todos).Error; err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

// Update persists changes to a todo
func (r *GormTodoRepository) Update(todo *models.Todo) error {
	return r.db.Save(todo).Error
}

// DeleteByOwner removes a todo scoped to its owner
func (r *GormTodoRepository) DeleteByOwner(id, userID uint64) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Todo{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByUser removes all todos owned by a user
func (r *GormTodoRepository) DeleteByUser(userID uint64) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Todo{}).Error
}

// Stats returns grouped counts for a user's todos in a single aggregate query.
// COALESCE keeps the sums at zero when the user owns no todos.
func (r *GormTodoRepository) Stats(userID uint64) (TodoStats, error) {
	var stats TodoStats
	err := r.db.Model(&models.Todo{}).
		Select(
			"COUNT(*) AS total_todos, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed_todos, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_todos, "+
				"COALESCE(SUM(CASE WHEN priority = ? THEN 1 ELSE 0 END), 0) AS high_priority_todos, "+
				"COALESCE(SUM(CASE WHEN priority = ? THEN 1 ELSE 0 END), 0) AS medium_priority_todos, "+
				"COALESCE(SUM(CASE WHEN priority = ? THEN 1 ELSE 0 END), 0) AS low_priority_todos",
			models.TodoStatusCompleted,
			models.TodoStatusPending,
			models.TodoPriorityHigh,
			models.TodoPriorityMedium,
			models.TodoPriorityLow,
		).
		Where("user_id = ?", userID).
		Scan(&stats).Error
	return stats, err
}
