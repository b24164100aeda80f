package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maycoffee/maycoffee-api/internal/domain"
	internal_errors "github.com/maycoffee/maycoffee-api/internal/errors"
)

// SaveVerificationCode deletes every earlier code for the user and inserts
// the new one, so only the most recent issue can ever verify.
func (s *Storage) SaveVerificationCode(code domain.VerificationCode) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM verification_codes WHERE user_id = $1", code.UserId); err != nil {
			return fmt.Errorf("failed to delete stale verification codes: %w", err)
		}
		_, err := tx.Exec(`
			INSERT INTO verification_codes(user_id, code, expires_at)
			VALUES($1, $2, $3)`,
			code.UserId, code.Code, code.ExpiresAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert verification code: %w", err)
		}
		return nil
	})
}

// LatestVerificationCode fetches the newest code row for the user matching
// the supplied code. Older rows matching the code do not count.
func (s *Storage) LatestVerificationCode(userId domain.UserId, code string) (domain.VerificationCode, error) {
	var vc domain.VerificationCode
	err := s.db.QueryRow(`
		SELECT user_id, code, expires_at, created_at
		FROM verification_codes
		WHERE user_id = $1 AND code = $2
		ORDER BY created_at DESC
		LIMIT 1`,
		userId, code,
	).Scan(&vc.UserId, &vc.Code, &vc.ExpiresAt, &vc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.VerificationCode{}, internal_errors.NotFound("Verification code not found")
		}
		return domain.VerificationCode{}, fmt.Errorf("failed to query verification code: %w", err)
	}
	return vc, nil
}

func (s *Storage) DeleteVerificationCodes(userId domain.UserId) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM verification_codes WHERE user_id = $1", userId); err != nil {
			return fmt.Errorf("failed to delete verification codes: %w", err)
		}
		return nil
	})
}

// CountVerificationCodes exists for the delete-cascade check in tests and
// admin tooling.
func (s *Storage) CountVerificationCodes(userId domain.UserId) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM verification_codes WHERE user_id = $1", userId).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count verification codes: %w", err)
	}
	return n, nil
}

// CreateInvitation records a pending admin promotion for an unregistered
// email. A second invitation for the same email maps to 409.
func (s *Storage) CreateInvitation(inv domain.AdminInvitation) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO admin_invitations(email, invited_by)
			VALUES($1, $2)`,
			inv.Email, inv.InvitedBy,
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return internal_errors.Conflict("Email already invited")
		}
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

func (s *Storage) InvitationByEmail(email string) (domain.AdminInvitation, error) {
	var inv domain.AdminInvitation
	err := s.db.QueryRow(`
		SELECT email, invited_by, created_at
		FROM admin_invitations WHERE email = $1`,
		email,
	).Scan(&inv.Email, &inv.InvitedBy, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AdminInvitation{}, internal_errors.NotFound("Invitation not found")
		}
		return domain.AdminInvitation{}, fmt.Errorf("failed to query invitation: %w", err)
	}
	return inv, nil
}

// DeleteInvitation is a no-op when no invitation exists; consumption has to
// be idempotent between the verify-email and direct-promotion paths.
func (s *Storage) DeleteInvitation(email string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM admin_invitations WHERE email = $1", email); err != nil {
			return fmt.Errorf("failed to delete invitation: %w", err)
		}
		return nil
	})
}
