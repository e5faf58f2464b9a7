package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"todoapi/internal/model"
	"todoapi/internal/repository"
)

// ErrValidation is wrapped by every field-validation failure, so callers can
// map the whole family to a 400 with errors.Is.
var ErrValidation = errors.New("validation failed")

// TodoStore is the persistence capability the service depends on. Any
// conforming store (the GORM repository, an in-memory map in tests) is
// substitutable.
type TodoStore interface {
	FindAll(ctx context.Context) ([]model.TodoItem, error)
	FindByID(ctx context.Context, id int64) (*model.TodoItem, error)
	FindByCompletion(ctx context.Context, isCompleted bool) ([]model.TodoItem, error)
	Insert(ctx context.Context, todo *model.TodoItem) error
	Update(ctx context.Context, todo *model.TodoItem) error
	Delete(ctx context.Context, id int64) error
}

// TodoService owns the business rules: field validation, authoritative
// timestamps, and existence checks before update/delete. It holds no state of
// its own; every operation reads fresh from or writes fresh to the store.
type TodoService struct {
	store TodoStore
}

func NewTodoService(store TodoStore) *TodoService {
	return &TodoService{store: store}
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
	maxCategoryLen    = 50
	maxTagsLen        = 500
)

// validate enforces the field constraints once, before any store interaction.
// Lengths are counted in runes, matching the original column semantics.
func validate(todo *model.TodoItem) error {
	titleLen := utf8.RuneCountInString(todo.Title)
	if titleLen == 0 {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if titleLen > maxTitleLen {
		return fmt.Errorf("%w: title must be between 1 and %d characters", ErrValidation, maxTitleLen)
	}
	if todo.Description != nil && utf8.RuneCountInString(*todo.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description cannot exceed %d characters", ErrValidation, maxDescriptionLen)
	}
	if todo.Category != nil && utf8.RuneCountInString(*todo.Category) > maxCategoryLen {
		return fmt.Errorf("%w: category cannot exceed %d characters", ErrValidation, maxCategoryLen)
	}
	if todo.Tags != nil && utf8.RuneCountInString(*todo.Tags) > maxTagsLen {
		return fmt.Errorf("%w: tags cannot exceed %d characters", ErrValidation, maxTagsLen)
	}
	if !todo.Priority.Valid() {
		return fmt.Errorf("%w: priority must be between %d and %d", ErrValidation, model.PriorityLow, model.PriorityUrgent)
	}
	return nil
}

// GetAllTodos retrieves every todo
func (s *TodoService) GetAllTodos(ctx context.Context) ([]model.TodoItem, error) {
	return s.store.FindAll(ctx)
}

// GetTodoByID retrieves a single todo; repository.ErrTodoNotFound propagates
// unchanged to the caller.
func (s *TodoService) GetTodoByID(ctx context.Context, id int64) (*model.TodoItem, error) {
	return s.store.FindByID(ctx, id)
}

// GetTodosByStatus retrieves all todos filtered by completion flag
func (s *TodoService) GetTodosByStatus(ctx context.Context, isCompleted bool) ([]model.TodoItem, error) {
	return s.store.FindByCompletion(ctx, isCompleted)
}

// CreateTodo validates the draft, stamps both timestamps with the same
// server-observed UTC instant, and persists it. Caller-supplied id and
// timestamps are ignored; server time is authoritative.
func (s *TodoService) CreateTodo(ctx context.Context, todo *model.TodoItem) (*model.TodoItem, error) {
	if err := validate(todo); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	todo.ID = 0
	todo.CreatedAt = now
	todo.UpdatedAt = now
	todo.Version = 1

	if err := s.store.Insert(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// UpdateTodo copies the mutable fields of patch onto the existing record and
// persists it. A missing target and a lost optimistic-concurrency race both
// return (false, nil): normal outcomes, not errors. The client is expected to
// reload and resubmit after a conflict; there is no automatic retry.
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, patch *model.TodoItem) (bool, error) {
	if err := validate(patch); err != nil {
		return false, err
	}

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return false, nil
		}
		return false, err
	}

	// id, createdAt, and version are never taken from the patch.
	existing.Title = patch.Title
	existing.Description = patch.Description
	existing.IsCompleted = patch.IsCompleted
	existing.DueDate = patch.DueDate
	existing.Priority = patch.Priority
	existing.Category = patch.Category
	existing.Tags = patch.Tags
	existing.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrConflict) || errors.Is(err, repository.ErrTodoNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteTodo removes the todo with the given id. Returns (false, nil) when
// the id does not exist.
func (s *TodoService) DeleteTodo(ctx context.Context, id int64) (bool, error) {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
