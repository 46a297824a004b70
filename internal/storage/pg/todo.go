package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskward-dev/taskward/internal/domain"
	internal_errors "github.com/taskward-dev/taskward/internal/errors"
)

const todoColumns = "id, title, status, category_id, user_id, created_at"

func (s *Storage) CreateTodo(todo domain.Todo) (domain.Todo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRow(`
            INSERT INTO todos(title, status, category_id, user_id)
            VALUES($1, $2, $3, $4)
            RETURNING id, created_at`,
			todo.Title, todo.Status, todo.CategoryId, todo.UserId,
		).Scan(&todo.Id, &todo.CreatedAt)
	})
	if err != nil {
		return domain.Todo{}, fmt.Errorf("failed to insert todo: %w", err)
	}
	return todo, nil
}

func (s *Storage) Todo(id domain.TodoId) (domain.Todo, error) {
	var todo domain.Todo
	err := s.db.QueryRow("SELECT "+todoColumns+" FROM todos WHERE id = $1", id).
		Scan(&todo.Id, &todo.Title, &todo.Status, &todo.CategoryId, &todo.UserId, &todo.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Todo{}, internal_errors.NotFound("Todo not found")
		}
		return domain.Todo{}, fmt.Errorf("failed to query todo: %w", err)
	}
	return todo, nil
}

func (s *Storage) TodosByUser(userId domain.UserId) ([]domain.Todo, error) {
	return s.todos("SELECT "+todoColumns+" FROM todos WHERE user_id = $1 ORDER BY id", userId)
}

func (s *Storage) TodosByUserAndStatus(userId domain.UserId, status domain.TodoStatus) ([]domain.Todo, error) {
	return s.todos("SELECT "+todoColumns+" FROM todos WHERE user_id = $1 AND status = $2 ORDER BY id", userId, status)
}

func (s *Storage) TodosByUserAndCategory(userId domain.UserId, categoryId domain.CategoryId) ([]domain.Todo, error) {
	return s.todos("SELECT "+todoColumns+" FROM todos WHERE user_id = $1 AND category_id = $2 ORDER BY id", userId, categoryId)
}

func (s *Storage) UpdateTodoStatus(id domain.TodoId, status domain.TodoStatus) (domain.Todo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var todo domain.Todo
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRow(`
            UPDATE todos SET status = $1 WHERE id = $2
            RETURNING `+todoColumns,
			status, id,
		).Scan(&todo.Id, &todo.Title, &todo.Status, &todo.CategoryId, &todo.UserId, &todo.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return internal_errors.NotFound("Todo not found")
		}
		return err
	})
	if err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

func (s *Storage) DeleteTodo(id domain.TodoId) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM todos WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete todo: %w", err)
		}
		rowsDeleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for todo deletion: %w", err)
		}
		if rowsDeleted == 0 {
			return internal_errors.NotFound("Todo not found")
		}
		return nil
	})
}

func (s *Storage) todos(query string, args ...any) ([]domain.Todo, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		var todo domain.Todo
		if err := rows.Scan(&todo.Id, &todo.Title, &todo.Status, &todo.CategoryId, &todo.UserId, &todo.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}
	return todos, nil
}
