package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maycoffee/maycoffee-api/internal/domain"
	internal_errors "github.com/maycoffee/maycoffee-api/internal/errors"
)

const eventColumns = "id, title, description, date, location, is_published, created_by, created_at, updated_at"

func (s *Storage) CreateEvent(ev domain.Event) (domain.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var created domain.Event
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRow(`
			INSERT INTO events(title, description, date, location, is_published, created_by)
			VALUES($1, $2, $3, $4, $5, $6)
			RETURNING `+eventColumns,
			ev.Title, ev.Description, ev.Date, ev.Location, ev.IsPublished, ev.CreatedBy,
		)
		return scanEvent(row, &created)
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("failed to insert event: %w", err)
	}
	return created, nil
}

func (s *Storage) EventById(id int64) (domain.Event, error) {
	var ev domain.Event
	row := s.db.QueryRow("SELECT "+eventColumns+" FROM events WHERE id = $1", id)
	if err := scanEvent(row, &ev); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, internal_errors.NotFound("Event not found")
		}
		return domain.Event{}, fmt.Errorf("failed to query event: %w", err)
	}
	return ev, nil
}

func (s *Storage) UpdateEvent(ev domain.Event) (domain.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var updated domain.Event
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRow(`
			UPDATE events
			SET title = $1, description = $2, date = $3, location = $4, is_published = $5, updated_at = now()
			WHERE id = $6
			RETURNING `+eventColumns,
			ev.Title, ev.Description, ev.Date, ev.Location, ev.IsPublished, ev.Id,
		)
		return scanEvent(row, &updated)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, internal_errors.NotFound("Event not found")
		}
		return domain.Event{}, fmt.Errorf("failed to update event: %w", err)
	}
	return updated, nil
}

func (s *Storage) DeleteEvent(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM events WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		rowsDeleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for event deletion: %w", err)
		}
		if rowsDeleted == 0 {
			return internal_errors.NotFound("Event not found")
		}
		return nil
	})
}

func (s *Storage) ListEvents(publishedOnly bool) ([]domain.Event, error) {
	cond := ""
	if publishedOnly {
		cond = "WHERE is_published = TRUE"
	}
	rows, err := s.db.Query("SELECT " + eventColumns + " FROM events " + cond + " ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var ev domain.Event
		if err := rows.Scan(&ev.Id, &ev.Title, &ev.Description, &ev.Date, &ev.Location, &ev.IsPublished, &ev.CreatedBy, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func scanEvent(row *sql.Row, ev *domain.Event) error {
	return row.Scan(&ev.Id, &ev.Title, &ev.Description, &ev.Date, &ev.Location, &ev.IsPublished, &ev.CreatedBy, &ev.CreatedAt, &ev.UpdatedAt)
}
