package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/maycoffee/maycoffee-api/internal/domain"
)

// SaveAdminAction appends one audit trail entry. Rows are never updated or
// deleted.
func (s *Storage) SaveAdminAction(action domain.AdminAction) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var meta any
	if len(action.Meta) > 0 {
		raw, err := json.Marshal(action.Meta)
		if err != nil {
			return fmt.Errorf("failed to marshal audit meta: %w", err)
		}
		meta = raw
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO admin_action_log(admin_id, action, target_id, reason, meta)
			VALUES($1, $2, $3, $4, $5)`,
			action.AdminId, action.Action, action.TargetId, action.Reason, meta,
		)
		if err != nil {
			return fmt.Errorf("failed to insert audit entry: %w", err)
		}
		return nil
	})
}
