package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"todoapi/internal/model"
)

// TodoRepository provides durable CRUD access to todo rows. It carries no
// business logic: timestamps, validation, and defaulting all happen in the
// service layer.
type TodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// FindAll retrieves every todo, ordered by id so listings are stable.
func (r *TodoRepository) FindAll(ctx context.Context) ([]model.TodoItem, error) {
	var todos []model.TodoItem
	result := r.db.WithContext(ctx).Order("id").Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

// FindByID retrieves a todo by its id
func (r *TodoRepository) FindByID(ctx context.Context, id int64) (*model.TodoItem, error) {
	var todo model.TodoItem
	result := r.db.WithContext(ctx).First(&todo, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, result.Error
	}
	return &todo, nil
}

// FindByCompletion retrieves all todos whose completion flag matches
func (r *TodoRepository) FindByCompletion(ctx context.Context, isCompleted bool) ([]model.TodoItem, error) {
	var todos []model.TodoItem
	result := r.db.WithContext(ctx).Where("is_completed = ?", isCompleted).Order("id").Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

// Insert persists a new todo. The store assigns the id and writes it back
// into the given item.
func (r *TodoRepository) Insert(ctx context.Context, todo *model.TodoItem) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

// Update overwrites the row matching todo.ID with a guarded write: the row
// must still carry the version the caller read. On success the version is
// advanced, both in the row and in the given item. Zero rows affected means
// either the row is gone (ErrTodoNotFound) or someone else updated it first
// (ErrConflict).
func (r *TodoRepository) Update(ctx context.Context, todo *model.TodoItem) error {
	result := r.db.WithContext(ctx).Model(&model.TodoItem{}).
		Where("id = ? AND version = ?", todo.ID, todo.Version).
		Updates(map[string]interface{}{
			"title":        todo.Title,
			"description":  todo.Description,
			"is_completed": todo.IsCompleted,
			"updated_at":   todo.UpdatedAt,
			"due_date":     todo.DueDate,
			"priority":     todo.Priority,
			"category":     todo.Category,
			"tags":         todo.Tags,
			"version":      todo.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.TodoItem{}).Where("id = ?", todo.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrTodoNotFound
		}
		return ErrConflict
	}
	todo.Version++
	return nil
}

// Delete removes the row matching id
func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.TodoItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}
