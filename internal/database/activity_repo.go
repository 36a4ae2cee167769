package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reachkit/reachkit/pkg/models"
)

// LogActivity appends one entry to the audit trail
func (db *DB) LogActivity(ctx context.Context, entry *models.ActivityEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO activity_log (id, user_id, campaign_id, prospect_id, activity_type, description, created_at)
		VALUES (:id, :user_id, :campaign_id, :prospect_id, :activity_type, :description, :created_at)
	`
	if _, err := db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

// GetActivityForUser returns a user's recent activity, newest first
func (db *DB) GetActivityForUser(ctx context.Context, userID string, limit int) ([]*models.ActivityEntry, error) {
	var entries []*models.ActivityEntry
	query := `SELECT * FROM activity_log WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`
	if err := db.SelectContext(ctx, &entries, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return entries, nil
}

// CountActivity returns the total number of audit entries for a user
func (db *DB) CountActivity(ctx context.Context, userID string) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM activity_log WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("failed to count activity: %w", err)
	}
	return n, nil
}
