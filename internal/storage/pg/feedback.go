package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/maycoffee/maycoffee-api/internal/domain"
	internal_errors "github.com/maycoffee/maycoffee-api/internal/errors"
)

const feedbackColumns = "f.id, f.user_id, u.name, f.rating, f.comment, f.is_approved, f.created_at, f.updated_at"

func (s *Storage) CreateFeedback(fb domain.Feedback) (domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var created domain.Feedback
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRow(`
			INSERT INTO feedback(user_id, rating, comment, is_approved)
			VALUES($1, $2, $3, FALSE)
			RETURNING id, user_id, rating, comment, is_approved, created_at, updated_at`,
			fb.UserId, fb.Rating, fb.Comment,
		).Scan(&created.Id, &created.UserId, &created.Rating, &created.Comment, &created.IsApproved, &created.CreatedAt, &created.UpdatedAt)
	})
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("failed to insert feedback: %w", err)
	}
	return created, nil
}

// CountFeedbackSince backs the per-day submission limit.
func (s *Storage) CountFeedbackSince(userId domain.UserId, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM feedback WHERE user_id = $1 AND created_at >= $2",
		userId, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return n, nil
}

func (s *Storage) ListApprovedFeedback() ([]domain.Feedback, error) {
	return s.listFeedback("WHERE f.is_approved = TRUE")
}

// ListFeedback returns everything, optionally filtered by approval state.
func (s *Storage) ListFeedback(approved *bool) ([]domain.Feedback, error) {
	cond := ""
	if approved != nil {
		if *approved {
			cond = "WHERE f.is_approved = TRUE"
		} else {
			cond = "WHERE f.is_approved = FALSE"
		}
	}
	return s.listFeedback(cond)
}

func (s *Storage) listFeedback(cond string) ([]domain.Feedback, error) {
	rows, err := s.db.Query(`
		SELECT ` + feedbackColumns + `
		FROM feedback f JOIN users u ON u.id = f.user_id
		` + cond + `
		ORDER BY f.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var items []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(&fb.Id, &fb.UserId, &fb.AuthorName, &fb.Rating, &fb.Comment, &fb.IsApproved, &fb.CreatedAt, &fb.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		items = append(items, fb)
	}
	return items, rows.Err()
}

func (s *Storage) ListUserFeedback(userId domain.UserId) ([]domain.Feedback, error) {
	rows, err := s.db.Query(`
		SELECT `+feedbackColumns+`
		FROM feedback f JOIN users u ON u.id = f.user_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`,
		userId,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list user feedback: %w", err)
	}
	defer rows.Close()

	var items []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(&fb.Id, &fb.UserId, &fb.AuthorName, &fb.Rating, &fb.Comment, &fb.IsApproved, &fb.CreatedAt, &fb.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		items = append(items, fb)
	}
	return items, rows.Err()
}

func (s *Storage) SetFeedbackApproval(id int64, approved bool) (domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var updated domain.Feedback
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRow(`
			UPDATE feedback SET is_approved = $1, updated_at = now() WHERE id = $2
			RETURNING id, user_id, rating, comment, is_approved, created_at, updated_at`,
			approved, id,
		).Scan(&updated.Id, &updated.UserId, &updated.Rating, &updated.Comment, &updated.IsApproved, &updated.CreatedAt, &updated.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Feedback{}, internal_errors.NotFound("Feedback not found")
		}
		return domain.Feedback{}, fmt.Errorf("failed to update feedback approval: %w", err)
	}
	return updated, nil
}

func (s *Storage) DeleteFeedback(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM feedback WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete feedback: %w", err)
		}
		rowsDeleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for feedback deletion: %w", err)
		}
		if rowsDeleted == 0 {
			return internal_errors.NotFound("Feedback not found")
		}
		return nil
	})
}

// CountFeedbackByUser exists for the delete-cascade check.
func (s *Storage) CountFeedbackByUser(userId domain.UserId) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM feedback WHERE user_id = $1", userId).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return n, nil
}

func (s *Storage) RatingsSummary() (domain.RatingsSummary, error) {
	var summary domain.RatingsSummary
	err := s.db.QueryRow(`
		SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0), COUNT(*)
		FROM feedback WHERE is_approved = TRUE`,
	).Scan(&summary.AverageRating, &summary.CountApproved)
	if err != nil {
		return domain.RatingsSummary{}, fmt.Errorf("failed to query ratings summary: %w", err)
	}
	return summary, nil
}
