package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reachkit/reachkit/pkg/models"
)

// CreatePendingAction stores a deferred outreach write awaiting approval
func (db *DB) CreatePendingAction(ctx context.Context, action *models.PendingAction) error {
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	now := time.Now()
	action.CreatedAt = now
	action.UpdatedAt = now

	query := `
		INSERT INTO pending_actions (id, user_id, campaign_id, prospect_id, action_type, status,
			message_content, campaign_name, prospect_name, follow_up_number, expires_at,
			approved_at, executed_at, created_at, updated_at)
		VALUES (:id, :user_id, :campaign_id, :prospect_id, :action_type, :status,
			:message_content, :campaign_name, :prospect_name, :follow_up_number, :expires_at,
			:approved_at, :executed_at, :created_at, :updated_at)
	`
	if _, err := db.NamedExecContext(ctx, query, action); err != nil {
		return fmt.Errorf("failed to create pending action: %w", err)
	}
	return nil
}

// GetPendingActionByID returns an action by ID
func (db *DB) GetPendingActionByID(ctx context.Context, id string) (*models.PendingAction, error) {
	var action models.PendingAction
	err := db.GetContext(ctx, &action, `SELECT * FROM pending_actions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending action: %w", err)
	}
	return &action, nil
}

// GetPendingActionsForUser returns a user's undecided, unexpired actions,
// newest first
func (db *DB) GetPendingActionsForUser(ctx context.Context, userID string, now time.Time, limit int) ([]*models.PendingAction, error) {
	var actions []*models.PendingAction
	query := `
		SELECT * FROM pending_actions
		WHERE user_id = ? AND status = ? AND expires_at > ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	if err := db.SelectContext(ctx, &actions, query, userID, models.ActionPending, now, limit); err != nil {
		return nil, fmt.Errorf("failed to get pending actions: %w", err)
	}
	return actions, nil
}

// CountPendingActionsForCampaign counts the campaign's undecided actions
func (db *DB) CountPendingActionsForCampaign(ctx context.Context, campaignID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM pending_actions WHERE campaign_id = ? AND status = ?`
	if err := db.GetContext(ctx, &n, query, campaignID, models.ActionPending); err != nil {
		return 0, fmt.Errorf("failed to count pending actions: %w", err)
	}
	return n, nil
}

// UpdatePendingActionStatus transitions an action and stamps approval or
// execution time where applicable
func (db *DB) UpdatePendingActionStatus(ctx context.Context, id string, status models.ActionStatus, at time.Time) error {
	var stampCol string
	switch status {
	case models.ActionApproved:
		stampCol = "approved_at"
	case models.ActionExecuted:
		stampCol = "executed_at"
	}

	var err error
	if stampCol != "" {
		query := fmt.Sprintf(`UPDATE pending_actions SET status = ?, %s = ?, updated_at = ? WHERE id = ?`, stampCol)
		_, err = db.ExecContext(ctx, query, status, at, time.Now(), id)
	} else {
		_, err = db.ExecContext(ctx, `UPDATE pending_actions SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now(), id)
	}
	if err != nil {
		return fmt.Errorf("failed to update pending action: %w", err)
	}
	return nil
}

// ExpirePendingActions flips all overdue pending actions to expired and
// returns how many were swept. Idempotent.
func (db *DB) ExpirePendingActions(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE pending_actions SET status = ?, updated_at = ? WHERE status = ? AND expires_at < ?`
	res, err := db.ExecContext(ctx, query, models.ActionExpired, time.Now(), models.ActionPending, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending actions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get expired count: %w", err)
	}
	return n, nil
}
