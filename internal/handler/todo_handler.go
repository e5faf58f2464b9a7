package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"todoapi/internal/model"
	"todoapi/internal/repository"
	"todoapi/internal/service"
)

// TodoService is the slice of the service layer the HTTP handlers need.
type TodoService interface {
	GetAllTodos(ctx context.Context) ([]model.TodoItem, error)
	GetTodoByID(ctx context.Context, id int64) (*model.TodoItem, error)
	GetTodosByStatus(ctx context.Context, isCompleted bool) ([]model.TodoItem, error)
	CreateTodo(ctx context.Context, todo *model.TodoItem) (*model.TodoItem, error)
	UpdateTodo(ctx context.Context, id int64, patch *model.TodoItem) (bool, error)
	DeleteTodo(ctx context.Context, id int64) (bool, error)
}

type TodoHandler struct {
	service TodoService
}

func NewTodoHandler(service TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

// TodoRequest represents a create or update payload. Server-assigned fields
// (createdAt, updatedAt) are not accepted here; the service stamps them.
type TodoRequest struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	IsCompleted bool            `json:"isCompleted"`
	DueDate     *time.Time      `json:"dueDate"`
	Priority    *model.Priority `json:"priority"`
	Category    *string         `json:"category"`
	Tags        *string         `json:"tags"`
}

func (req *TodoRequest) toModel() *model.TodoItem {
	todo := &model.TodoItem{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
		DueDate:     req.DueDate,
		Priority:    model.PriorityNormal,
		Category:    req.Category,
		Tags:        req.Tags,
	}
	if req.Priority != nil {
		todo.Priority = *req.Priority
	}
	return todo
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid todo ID"})
		return 0, false
	}
	return id, true
}

// GetAll returns every todo
// @Summary      List all todos
// @Tags         Todos
// @Produce      json
// @Success      200  {array}  model.TodoItem
// @Failure      500  {object}  map[string]string
// @Router       /api/todos [get]
func (h *TodoHandler) GetAll(c *gin.Context) {
	todos, err := h.service.GetAllTodos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve todos"})
		return
	}
	c.JSON(http.StatusOK, todos)
}

// GetByID returns a single todo by id
// @Summary      Get a todo by ID
// @Tags         Todos
// @Produce      json
// @Param        id   path     int  true  "Todo ID"
// @Success      200  {object}  model.TodoItem
// @Failure      404  {object}  map[string]string
// @Router       /api/todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	todo, err := h.service.GetTodoByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Todo with id %d not found", id)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve todo"})
		return
	}
	c.JSON(http.StatusOK, todo)
}

// GetByStatus returns all todos with the given completion status
// @Summary      List todos by completion status
// @Tags         Todos
// @Produce      json
// @Param        isCompleted  path     bool  true  "Completion status"
// @Success      200  {array}  model.TodoItem
// @Failure      400  {object}  map[string]string
// @Router       /api/todos/status/{isCompleted} [get]
func (h *TodoHandler) GetByStatus(c *gin.Context) {
	isCompleted, err := strconv.ParseBool(c.Param("isCompleted"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid completion status"})
		return
	}

	todos, err := h.service.GetTodosByStatus(c.Request.Context(), isCompleted)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve todos"})
		return
	}
	c.JSON(http.StatusOK, todos)
}

// Create creates a new todo
// @Summary      Create a todo
// @Tags         Todos
// @Accept       json
// @Produce      json
// @Param        todo  body     TodoRequest  true  "Todo draft"
// @Success      201  {object}  model.TodoItem
// @Failure      400  {object}  map[string]string
// @Router       /api/todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	created, err := h.service.CreateTodo(c.Request.Context(), req.toModel())
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create todo"})
		return
	}

	c.Header("Location", fmt.Sprintf("/api/todos/%d", created.ID))
	c.JSON(http.StatusCreated, created)
}

// Update overwrites the mutable fields of an existing todo
// @Summary      Update a todo
// @Tags         Todos
// @Accept       json
// @Param        id    path  int          true  "Todo ID"
// @Param        todo  body  TodoRequest  true  "Todo patch"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.ID != 0 && req.ID != id {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID mismatch between URL and request body"})
		return
	}

	updated, err := h.service.UpdateTodo(c.Request.Context(), id, req.toModel())
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update todo"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Todo with id %d not found", id)})
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete removes a todo
// @Summary      Delete a todo
// @Tags         Todos
// @Param        id  path  int  true  "Todo ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteTodo(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete todo"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Todo with id %d not found", id)})
		return
	}
	c.Status(http.StatusNoContent)
}
