package handler

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"todoapi/internal/model"
	"todoapi/internal/repository"
	"todoapi/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// dueDateForm is the layout of the <input type="datetime-local"> value.
const dueDateForm = "2006-01-02T15:04"

// LoadTemplates parses the embedded page templates for the gin engine.
func LoadTemplates() *template.Template {
	funcs := template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"splitTags": splitTags,
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// splitTags decodes the opaque tags column back into individual labels for
// display. A malformed value renders as no tags rather than an error page.
func splitTags(tags *string) []string {
	if tags == nil {
		return nil
	}
	var parsed []string
	if err := json.Unmarshal([]byte(*tags), &parsed); err != nil {
		return nil
	}
	return parsed
}

// PageHandler serves the server-rendered frontend. It is pure presentation:
// every rule lives in the service, the pages only collect input and render
// results.
type PageHandler struct {
	service TodoService
}

func NewPageHandler(service TodoService) *PageHandler {
	return &PageHandler{service: service}
}

// List renders the main page with all todos, optionally filtered by the
// ?status=completed|pending query.
func (h *PageHandler) List(c *gin.Context) {
	var (
		todos []model.TodoItem
		err   error
	)

	status := c.Query("status")
	switch status {
	case "completed":
		todos, err = h.service.GetTodosByStatus(c.Request.Context(), true)
	case "pending":
		todos, err = h.service.GetTodosByStatus(c.Request.Context(), false)
	default:
		status = ""
		todos, err = h.service.GetAllTodos(c.Request.Context())
	}
	if err != nil {
		c.HTML(http.StatusInternalServerError, "list.html", gin.H{
			"Title":  "Todo List",
			"Error":  "Failed to load todos",
			"Status": "",
		})
		return
	}

	c.HTML(http.StatusOK, "list.html", gin.H{
		"Title":  "Todo List",
		"Todos":  todos,
		"Status": status,
	})
}

// Detail renders a single todo.
func (h *PageHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return
	}

	todo, err := h.service.GetTodoByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			h.notFound(c)
			return
		}
		c.HTML(http.StatusInternalServerError, "list.html", gin.H{
			"Title":  "Todo List",
			"Error":  "Failed to load todo",
			"Status": "",
		})
		return
	}

	c.HTML(http.StatusOK, "detail.html", gin.H{
		"Title": todo.Title,
		"Todo":  todo,
	})
}

// NewForm renders an empty create form.
func (h *PageHandler) NewForm(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", gin.H{
		"Title":  "New Todo",
		"Action": "/todos",
	})
}

// EditForm renders the form prefilled with an existing todo.
func (h *PageHandler) EditForm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return
	}

	todo, err := h.service.GetTodoByID(c.Request.Context(), id)
	if err != nil {
		h.notFound(c)
		return
	}

	c.HTML(http.StatusOK, "form.html", gin.H{
		"Title":  "Edit Todo",
		"Action": "/todos/" + strconv.FormatInt(id, 10),
		"Todo":   todo,
	})
}

// Create handles the create form submission.
func (h *PageHandler) Create(c *gin.Context) {
	draft := todoFromForm(c)
	if _, err := h.service.CreateTodo(c.Request.Context(), draft); err != nil {
		h.formError(c, "New Todo", "/todos", draft, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Update handles the edit form submission.
func (h *PageHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return
	}

	patch := todoFromForm(c)
	updated, err := h.service.UpdateTodo(c.Request.Context(), id, patch)
	if err != nil {
		h.formError(c, "Edit Todo", "/todos/"+strconv.FormatInt(id, 10), patch, err)
		return
	}
	if !updated {
		h.notFound(c)
		return
	}
	c.Redirect(http.StatusSeeOther, "/todos/"+strconv.FormatInt(id, 10))
}

// Delete handles the delete button.
func (h *PageHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return
	}

	deleted, err := h.service.DeleteTodo(c.Request.Context(), id)
	if err != nil || !deleted {
		h.notFound(c)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{"Title": "Not Found"})
}

func (h *PageHandler) formError(c *gin.Context, title, action string, todo *model.TodoItem, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong"
	if errors.Is(err, service.ErrValidation) {
		status = http.StatusBadRequest
		message = err.Error()
	}
	c.HTML(status, "form.html", gin.H{
		"Title":  title,
		"Action": action,
		"Todo":   todo,
		"Error":  message,
	})
}

// todoFromForm collects the form fields into a draft. The comma-separated
// tags input is JSON-encoded here; below this layer tags stay opaque.
func todoFromForm(c *gin.Context) *model.TodoItem {
	todo := &model.TodoItem{
		Title:       strings.TrimSpace(c.PostForm("title")),
		IsCompleted: c.PostForm("isCompleted") != "",
		Priority:    model.PriorityNormal,
	}

	if desc := strings.TrimSpace(c.PostForm("description")); desc != "" {
		todo.Description = &desc
	}
	if category := strings.TrimSpace(c.PostForm("category")); category != "" {
		todo.Category = &category
	}
	if p, err := strconv.Atoi(c.PostForm("priority")); err == nil {
		todo.Priority = model.Priority(p)
	}
	if due := c.PostForm("dueDate"); due != "" {
		if t, err := time.Parse(dueDateForm, due); err == nil {
			utc := t.UTC()
			todo.DueDate = &utc
		}
	}
	if raw := strings.TrimSpace(c.PostForm("tags")); raw != "" {
		var tags []string
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		if len(tags) > 0 {
			encoded, err := json.Marshal(tags)
			if err == nil {
				s := string(encoded)
				todo.Tags = &s
			}
		}
	}
	return todo
}
