package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/taskward-dev/taskward/internal/domain"
	internal_errors "github.com/taskward-dev/taskward/internal/errors"
)

const uniqueViolation = "23505"

const userColumns = "id, email, name, surname, password_hash, enabled, role, pending_action, pending_ticket, created_at"

// =========================================================================
// Public methods (satisfy the service.AccountStorage interface)
// =========================================================================

// CreateUser inserts a new account record. A duplicate email comes back as
// Conflict via the unique index, which also resolves concurrent
// registrations of the same address.
func (s *Storage) CreateUser(user domain.User) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var saved domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		saved, err = s.createUser(tx, user)
		return err
	})
	return saved, err
}

// User is a read-only lookup by email.
func (s *Storage) User(email domain.Email) (domain.User, error) {
	return s.user(s.db, email)
}

// UserById is a read-only lookup by id.
func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.userById(s.db, id)
}

func (s *Storage) ExistsByEmail(email domain.Email) (bool, error) {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdateUser applies mutate to the record between a locking read and the
// write of the full record, all inside one transaction. Concurrent updates
// of the same account serialize on the row lock; an error from mutate rolls
// everything back untouched.
func (s *Storage) UpdateUser(email domain.Email, mutate func(*domain.User) error) (domain.User, error) {
	return s.updateWhere(func(tx *sql.Tx) (domain.User, error) {
		return s.userForUpdate(tx, "email = $1", email)
	}, mutate)
}

// UpdateUserById is UpdateUser keyed by id.
func (s *Storage) UpdateUserById(id domain.UserId, mutate func(*domain.User) error) (domain.User, error) {
	return s.updateWhere(func(tx *sql.Tx) (domain.User, error) {
		return s.userForUpdate(tx, "id = $1", id)
	}, mutate)
}

// DeleteUser removes the account record. Related todos go with it via
// ON DELETE CASCADE.
func (s *Storage) DeleteUser(id domain.UserId) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteUser(tx, id)
	})
}

// SearchUsers runs the multi-field filter query with ordered pagination.
func (s *Storage) SearchUsers(filter domain.UserFilter, page, size int) ([]domain.User, error) {
	where, args := buildUserFilter(filter)

	query := "SELECT " + userColumns + " FROM users"
	if where != "" {
		query += " WHERE " + where
	}
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, size, page*size)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// =========================================================================
// Internal methods (core database logic)
// =========================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var user domain.User
	var action, ticket sql.NullString
	err := row.Scan(&user.Id, &user.Email, &user.Name, &user.Surname, &user.PassHash,
		&user.Enabled, &user.Role, &action, &ticket, &user.CreatedAt)
	if err != nil {
		return domain.User{}, err
	}
	if action.Valid {
		user.Pending = domain.PendingAction{
			Kind:   domain.PendingActionKind(action.String),
			Ticket: ticket.String,
		}
	}
	return user, nil
}

func pendingColumns(p domain.PendingAction) (action, ticket sql.NullString) {
	if p.IsZero() {
		return
	}
	return sql.NullString{String: string(p.Kind), Valid: true},
		sql.NullString{String: p.Ticket, Valid: true}
}

func (s *Storage) createUser(q Querier, user domain.User) (domain.User, error) {
	action, ticket := pendingColumns(user.Pending)
	err := q.QueryRow(`
        INSERT INTO users(email, name, surname, password_hash, enabled, role, pending_action, pending_ticket)
        VALUES($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at`,
		user.Email, user.Name, user.Surname, user.PassHash, user.Enabled, user.Role, action, ticket,
	).Scan(&user.Id, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, internal_errors.Conflict("The user is registered with this email")
		}
		return domain.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (s *Storage) user(q Querier, email domain.Email) (domain.User, error) {
	user, err := scanUser(q.QueryRow("SELECT "+userColumns+" FROM users WHERE email = $1", email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) userById(q Querier, id domain.UserId) (domain.User, error) {
	user, err := scanUser(q.QueryRow("SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) userForUpdate(tx *sql.Tx, where string, arg any) (domain.User, error) {
	user, err := scanUser(tx.QueryRow("SELECT "+userColumns+" FROM users WHERE "+where+" FOR UPDATE", arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to lock user row: %w", err)
	}
	return user, nil
}

func (s *Storage) updateWhere(load func(tx *sql.Tx) (domain.User, error), mutate func(*domain.User) error) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var updated domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		user, err := load(tx)
		if err != nil {
			return err
		}

		if err := mutate(&user); err != nil {
			return err
		}

		action, ticket := pendingColumns(user.Pending)
		_, err = tx.Exec(`
            UPDATE users
            SET email = $1, name = $2, surname = $3, password_hash = $4,
                enabled = $5, role = $6, pending_action = $7, pending_ticket = $8
            WHERE id = $9`,
			user.Email, user.Name, user.Surname, user.PassHash,
			user.Enabled, user.Role, action, ticket, user.Id,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return internal_errors.Conflict("The user is registered with this email")
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		updated = user
		return nil
	})
	return updated, err
}

func (s *Storage) deleteUser(tx *sql.Tx, id domain.UserId) error {
	result, err := tx.Exec("DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for user deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

func buildUserFilter(filter domain.UserFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Email != nil {
		add("email ILIKE '%%' || $%d || '%%'", *filter.Email)
	}
	if filter.Name != nil {
		add("name ILIKE '%%' || $%d || '%%'", *filter.Name)
	}
	if filter.Surname != nil {
		add("surname ILIKE '%%' || $%d || '%%'", *filter.Surname)
	}
	if filter.Enabled != nil {
		add("enabled = $%d", *filter.Enabled)
	}
	if filter.Role != nil {
		add("role = $%d", string(*filter.Role))
	}

	return strings.Join(clauses, " AND "), args
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
