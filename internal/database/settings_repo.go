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

// GetSettingsForUser returns the user's settings, creating defaults on first use
func (db *DB) GetSettingsForUser(ctx context.Context, userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := db.GetContext(ctx, &settings, `SELECT * FROM user_settings WHERE user_id = ?`, userID)
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	now := time.Now()
	settings = models.UserSettings{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	query := `
		INSERT INTO user_settings (id, user_id, autopilot_enabled, created_at, updated_at)
		VALUES (:id, :user_id, :autopilot_enabled, :created_at, :updated_at)
	`
	if _, err := db.NamedExecContext(ctx, query, &settings); err != nil {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}
	return &settings, nil
}

// SetAutopilot toggles immediate execution of outreach writes for a user
func (db *DB) SetAutopilot(ctx context.Context, userID string, enabled bool) error {
	if _, err := db.GetSettingsForUser(ctx, userID); err != nil {
		return err
	}
	query := `UPDATE user_settings SET autopilot_enabled = ?, updated_at = ? WHERE user_id = ?`
	if _, err := db.ExecContext(ctx, query, enabled, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to set autopilot: %w", err)
	}
	return nil
}
