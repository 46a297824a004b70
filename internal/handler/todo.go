package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskward-dev/taskward/internal/domain"
	"github.com/taskward-dev/taskward/internal/errors"
	"github.com/taskward-dev/taskward/internal/middleware"
)

type createTodoRequest struct {
	Title      string `validate:"required" json:"title"`
	CategoryId int64  `validate:"required" json:"category_id"`
}

type updateTodoStatusRequest struct {
	Status string `validate:"required" json:"status"`
}

type todoResponse struct {
	Id         domain.TodoId     `json:"id"`
	Title      string            `json:"title"`
	Status     domain.TodoStatus `json:"status"`
	CategoryId domain.CategoryId `json:"category_id"`
}

func todoResponseFrom(t *domain.Todo) todoResponse {
	return todoResponse{
		Id:         t.Id,
		Title:      t.Title,
		Status:     t.Status,
		CategoryId: t.CategoryId,
	}
}

func todoListResponse(todos []domain.Todo) []todoResponse {
	resp := make([]todoResponse, 0, len(todos))
	for i := range todos {
		resp = append(resp, todoResponseFrom(&todos[i]))
	}
	return resp
}

func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeErrorAndStatusCode(w, errors.Unauthorized("Please sign-in"))
		return
	}

	var req createTodoRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	todo, err := h.todos.Create(user.Id, req.Title, domain.CategoryId(req.CategoryId))
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, todoResponseFrom(&todo))
}

// ListTodos returns the caller's todos, optionally narrowed by the
// status or category query parameter.
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeErrorAndStatusCode(w, errors.Unauthorized("Please sign-in"))
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		todos, err := h.todos.ListByStatus(user.Id, domain.TodoStatus(status))
		if err != nil {
			writeErrorAndStatusCode(w, err)
			return
		}
		writeJSON(w, todoListResponse(todos))
		return
	}

	if category := r.URL.Query().Get("category"); category != "" {
		categoryId, err := parseIntParam(category, "category")
		if err != nil {
			writeErrorAndStatusCode(w, err)
			return
		}
		todos, err := h.todos.ListByCategory(user.Id, domain.CategoryId(categoryId))
		if err != nil {
			writeErrorAndStatusCode(w, err)
			return
		}
		writeJSON(w, todoListResponse(todos))
		return
	}

	todos, err := h.todos.ListByUser(user.Id)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, todoListResponse(todos))
}

func (h *Handler) UpdateTodoStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "todo id")
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	var req updateTodoStatusRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	todo, err := h.todos.UpdateStatus(domain.TodoId(id), domain.TodoStatus(req.Status))
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, todoResponseFrom(&todo))
}

func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeErrorAndStatusCode(w, errors.Unauthorized("Please sign-in"))
		return
	}

	id, err := parseIntParam(chi.URLParam(r, "id"), "todo id")
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	if err := h.todos.Delete(domain.TodoId(id), user.Id); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
