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

// CreateCampaign creates a new campaign
func (db *DB) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	if campaign.ID == "" {
		campaign.ID = uuid.NewString()
	}
	now := time.Now()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	query := `
		INSERT INTO campaigns (id, user_id, name, status, job_titles, locations, keywords, industries,
			connection_message, follow_up_message_1, follow_up_message_2, follow_up_message_3,
			follow_up_delay_days_1, follow_up_delay_days_2, follow_up_delay_days_3,
			daily_connection_limit, daily_message_limit,
			connections_sent, connections_accepted, messages_sent, replies_received, meetings_booked,
			started_at, paused_at, completed_at, created_at, updated_at)
		VALUES (:id, :user_id, :name, :status, :job_titles, :locations, :keywords, :industries,
			:connection_message, :follow_up_message_1, :follow_up_message_2, :follow_up_message_3,
			:follow_up_delay_days_1, :follow_up_delay_days_2, :follow_up_delay_days_3,
			:daily_connection_limit, :daily_message_limit,
			:connections_sent, :connections_accepted, :messages_sent, :replies_received, :meetings_booked,
			:started_at, :paused_at, :completed_at, :created_at, :updated_at)
	`
	if _, err := db.NamedExecContext(ctx, query, campaign); err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// GetCampaignByID returns a campaign by ID
func (db *DB) GetCampaignByID(ctx context.Context, id string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := db.GetContext(ctx, &campaign, `SELECT * FROM campaigns WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &campaign, nil
}

// GetCampaignByName returns a user's campaign matched by name, case-insensitively
func (db *DB) GetCampaignByName(ctx context.Context, userID, name string) (*models.Campaign, error) {
	var campaign models.Campaign
	query := `SELECT * FROM campaigns WHERE user_id = ? AND name = ? COLLATE NOCASE LIMIT 1`
	err := db.GetContext(ctx, &campaign, query, userID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &campaign, nil
}

// GetCampaignsByUserID returns all campaigns for a user
func (db *DB) GetCampaignsByUserID(ctx context.Context, userID string) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	query := `SELECT * FROM campaigns WHERE user_id = ? ORDER BY created_at DESC`
	if err := db.SelectContext(ctx, &campaigns, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get campaigns: %w", err)
	}
	return campaigns, nil
}

// GetActiveCampaigns returns all active campaigns across users
func (db *DB) GetActiveCampaigns(ctx context.Context) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	query := `SELECT * FROM campaigns WHERE status = ? ORDER BY created_at`
	if err := db.SelectContext(ctx, &campaigns, query, models.CampaignActive); err != nil {
		return nil, fmt.Errorf("failed to get active campaigns: %w", err)
	}
	return campaigns, nil
}

// GetCampaignsForProspect returns every campaign containing the prospect
func (db *DB) GetCampaignsForProspect(ctx context.Context, prospectID string) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	query := `
		SELECT c.* FROM campaigns c
		JOIN campaign_prospects cp ON cp.campaign_id = c.id
		WHERE cp.prospect_id = ?
	`
	if err := db.SelectContext(ctx, &campaigns, query, prospectID); err != nil {
		return nil, fmt.Errorf("failed to get campaigns for prospect: %w", err)
	}
	return campaigns, nil
}

// UpdateCampaignStatus transitions a campaign and stamps the matching timestamp
func (db *DB) UpdateCampaignStatus(ctx context.Context, id string, status models.CampaignStatus, at time.Time) error {
	var stampCol string
	switch status {
	case models.CampaignActive:
		stampCol = "started_at"
	case models.CampaignPaused:
		stampCol = "paused_at"
	case models.CampaignCompleted:
		stampCol = "completed_at"
	}

	var err error
	if stampCol != "" {
		query := fmt.Sprintf(`UPDATE campaigns SET status = ?, %s = ?, updated_at = ? WHERE id = ?`, stampCol)
		_, err = db.ExecContext(ctx, query, status, at, time.Now(), id)
	} else {
		_, err = db.ExecContext(ctx, `UPDATE campaigns SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now(), id)
	}
	if err != nil {
		return fmt.Errorf("failed to update campaign status: %w", err)
	}
	return nil
}

// IncrementCampaignCounter atomically bumps one of the campaign counters.
// Column must be one of the fixed counter names; callers pass constants only.
func (db *DB) IncrementCampaignCounter(ctx context.Context, id, column string) error {
	switch column {
	case "connections_sent", "connections_accepted", "messages_sent", "replies_received", "meetings_booked":
	default:
		return fmt.Errorf("unknown campaign counter %q", column)
	}
	query := fmt.Sprintf(`UPDATE campaigns SET %s = %s + 1, updated_at = ? WHERE id = ?`, column, column)
	if _, err := db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to increment %s: %w", column, err)
	}
	return nil
}
