package service

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/taskward-dev/taskward/internal/domain"
	"github.com/taskward-dev/taskward/internal/errors"
	"github.com/taskward-dev/taskward/internal/logger"
)

type TodoService interface {
	Create(userId domain.UserId, title string, categoryId domain.CategoryId) (domain.Todo, error)
	ListByUser(userId domain.UserId) ([]domain.Todo, error)
	ListByStatus(userId domain.UserId, status domain.TodoStatus) ([]domain.Todo, error)
	ListByCategory(userId domain.UserId, categoryId domain.CategoryId) ([]domain.Todo, error)
	UpdateStatus(id domain.TodoId, status domain.TodoStatus) (domain.Todo, error)
	Delete(id domain.TodoId, userId domain.UserId) error
}

type TodoStorage interface {
	CreateTodo(todo domain.Todo) (domain.Todo, error)
	Todo(id domain.TodoId) (domain.Todo, error)
	TodosByUser(userId domain.UserId) ([]domain.Todo, error)
	TodosByUserAndStatus(userId domain.UserId, status domain.TodoStatus) ([]domain.Todo, error)
	TodosByUserAndCategory(userId domain.UserId, categoryId domain.CategoryId) ([]domain.Todo, error)
	UpdateTodoStatus(id domain.TodoId, status domain.TodoStatus) (domain.Todo, error)
	DeleteTodo(id domain.TodoId) error
}

type Todo struct {
	storage    TodoStorage
	categories CategoryStorage
	sanitizer  *bluemonday.Policy
}

func NewTodo(storage TodoStorage, categories CategoryStorage) *Todo {
	return &Todo{
		storage:    storage,
		categories: categories,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// Create adds a todo for the user in an existing category. New todos always
// start in NOT_STARTED.
func (t *Todo) Create(userId domain.UserId, title string, categoryId domain.CategoryId) (domain.Todo, error) {
	title = strings.TrimSpace(t.sanitizer.Sanitize(title))
	if title == "" {
		return domain.Todo{}, errors.BadRequest("Title is empty")
	}

	exists, err := t.categories.ExistsCategory(categoryId)
	if err != nil {
		return domain.Todo{}, err
	}
	if !exists {
		return domain.Todo{}, errors.NotFound("Category not found")
	}

	todo := domain.Todo{
		Title:      title,
		Status:     domain.StatusNotStarted,
		CategoryId: categoryId,
		UserId:     userId,
	}
	saved, err := t.storage.CreateTodo(todo)
	if err != nil {
		return domain.Todo{}, err
	}

	logger.Log.Info("todo created", "todo_id", saved.Id, "user_id", userId)
	return saved, nil
}

func (t *Todo) ListByUser(userId domain.UserId) ([]domain.Todo, error) {
	return t.storage.TodosByUser(userId)
}

func (t *Todo) ListByStatus(userId domain.UserId, status domain.TodoStatus) ([]domain.Todo, error) {
	if !status.Valid() {
		return nil, errors.BadRequest("Unknown status")
	}
	return t.storage.TodosByUserAndStatus(userId, status)
}

func (t *Todo) ListByCategory(userId domain.UserId, categoryId domain.CategoryId) ([]domain.Todo, error) {
	return t.storage.TodosByUserAndCategory(userId, categoryId)
}

func (t *Todo) UpdateStatus(id domain.TodoId, status domain.TodoStatus) (domain.Todo, error) {
	if !status.Valid() {
		return domain.Todo{}, errors.BadRequest("Unknown status")
	}
	return t.storage.UpdateTodoStatus(id, status)
}

// Delete removes the user's own todo. Deleting somebody else's todo is a
// Conflict, matching the profile-ownership rule.
func (t *Todo) Delete(id domain.TodoId, userId domain.UserId) error {
	todo, err := t.storage.Todo(id)
	if err != nil {
		return err
	}
	if todo.UserId != userId {
		return errors.Conflict("Can only delete your own todos")
	}
	return t.storage.DeleteTodo(id)
}
