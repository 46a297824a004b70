package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskward-dev/taskward/internal/domain"
	internal_errors "github.com/taskward-dev/taskward/internal/errors"
)

func (s *Storage) CreateCategory(category domain.Category) (domain.Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRow("INSERT INTO categories(name) VALUES($1) RETURNING id", category.Name).
			Scan(&category.Id)
		if err != nil {
			if isUniqueViolation(err) {
				return internal_errors.Conflict("Category with this name already exists")
			}
			return fmt.Errorf("failed to insert category: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (s *Storage) Category(id domain.CategoryId) (domain.Category, error) {
	var category domain.Category
	err := s.db.QueryRow("SELECT id, name FROM categories WHERE id = $1", id).
		Scan(&category.Id, &category.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, internal_errors.NotFound("Category not found")
		}
		return domain.Category{}, fmt.Errorf("failed to query category: %w", err)
	}
	return category, nil
}

func (s *Storage) Categories() ([]domain.Category, error) {
	rows, err := s.db.Query("SELECT id, name FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.Id, &category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

func (s *Storage) UpdateCategory(category domain.Category) (domain.Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec("UPDATE categories SET name = $1 WHERE id = $2", category.Name, category.Id)
		if err != nil {
			if isUniqueViolation(err) {
				return internal_errors.Conflict("Category with this name already exists")
			}
			return fmt.Errorf("failed to update category: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for category update: %w", err)
		}
		if rowsAffected == 0 {
			return internal_errors.NotFound("Category not found")
		}
		return nil
	})
	if err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (s *Storage) DeleteCategory(id domain.CategoryId) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM categories WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		rowsDeleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for category deletion: %w", err)
		}
		if rowsDeleted == 0 {
			return internal_errors.NotFound("Category not found")
		}
		return nil
	})
}

func (s *Storage) ExistsCategory(id domain.CategoryId) (bool, error) {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}
	return exists, nil
}
