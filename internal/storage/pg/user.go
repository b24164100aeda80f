package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maycoffee/maycoffee-api/internal/domain"
	internal_errors "github.com/maycoffee/maycoffee-api/internal/errors"
)

const userColumns = "id, name, email, password_hash, role, is_email_verified, created_at, updated_at"

// CreateUser inserts a new unverified user. A duplicate email maps to 409.
func (s *Storage) CreateUser(user domain.User) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var created domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRow(`
			INSERT INTO users(name, email, password_hash, role, is_email_verified)
			VALUES($1, $2, $3, $4, $5)
			RETURNING `+userColumns,
			user.Name, user.Email, user.PasswordHash, domain.RoleUser, false,
		)
		return scanUser(row, &created)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, internal_errors.Conflict("Email already registered")
		}
		return domain.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return created, nil
}

func (s *Storage) UserByEmail(email string) (domain.User, error) {
	return s.userWhere("email = $1", email)
}

func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.userWhere("id = $1", id)
}

func (s *Storage) userWhere(cond string, arg any) (domain.User, error) {
	var user domain.User
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE "+cond, arg)
	if err := scanUser(row, &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) ListUsers() ([]domain.User, error) {
	rows, err := s.db.Query("SELECT " + userColumns + " FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.Id, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserRole flips the denormalized role column. The middleware re-reads
// it on every request, so revocation takes effect immediately regardless of
// outstanding tokens.
func (s *Storage) UpdateUserRole(id domain.UserId, role domain.Role) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var updated domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRow(`
			UPDATE users SET role = $1, updated_at = now() WHERE id = $2
			RETURNING `+userColumns,
			role, id,
		)
		return scanUser(row, &updated)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to update role: %w", err)
	}
	return updated, nil
}

// MarkEmailVerified sets the verified flag and the resolved role in a single
// update, and clears every verification code for the user.
func (s *Storage) MarkEmailVerified(id domain.UserId, role domain.Role) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var updated domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRow(`
			UPDATE users SET is_email_verified = TRUE, role = $1, updated_at = now() WHERE id = $2
			RETURNING `+userColumns,
			role, id,
		)
		if err := scanUser(row, &updated); err != nil {
			return err
		}
		_, err := tx.Exec("DELETE FROM verification_codes WHERE user_id = $1", id)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to mark email verified: %w", err)
	}
	return updated, nil
}

// DeleteUser removes the user and everything referencing them. Feedback and
// verification codes go first so the cascade is explicit even without the
// FK constraints.
func (s *Storage) DeleteUser(id domain.UserId) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM feedback WHERE user_id = $1", id); err != nil {
			return fmt.Errorf("failed to delete user feedback: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM verification_codes WHERE user_id = $1", id); err != nil {
			return fmt.Errorf("failed to delete user verification codes: %w", err)
		}
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
	})
}

// ListVerifiedUserEmails returns the recipients for event announcements.
func (s *Storage) ListVerifiedUserEmails() ([]domain.User, error) {
	rows, err := s.db.Query("SELECT id, name, email FROM users WHERE is_email_verified = TRUE")
	if err != nil {
		return nil, fmt.Errorf("failed to list verified users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.Id, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row *sql.Row, u *domain.User) error {
	return row.Scan(&u.Id, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt)
}
