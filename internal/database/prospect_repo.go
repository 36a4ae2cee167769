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

// CreateProspect creates a new prospect
func (db *DB) CreateProspect(ctx context.Context, prospect *models.Prospect) error {
	if prospect.ID == "" {
		prospect.ID = uuid.NewString()
	}
	now := time.Now()
	prospect.CreatedAt = now
	prospect.UpdatedAt = now

	query := `
		INSERT INTO prospects (id, user_id, profile_id, profile_url, first_name, last_name, full_name,
			headline, company, job_title, location, connection_status, source, created_at, updated_at)
		VALUES (:id, :user_id, :profile_id, :profile_url, :first_name, :last_name, :full_name,
			:headline, :company, :job_title, :location, :connection_status, :source, :created_at, :updated_at)
	`
	if _, err := db.NamedExecContext(ctx, query, prospect); err != nil {
		return fmt.Errorf("failed to create prospect: %w", err)
	}
	return nil
}

// GetProspectByID returns a prospect by ID
func (db *DB) GetProspectByID(ctx context.Context, id string) (*models.Prospect, error) {
	var prospect models.Prospect
	err := db.GetContext(ctx, &prospect, `SELECT * FROM prospects WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prospect: %w", err)
	}
	return &prospect, nil
}

// GetProspectByProfileID returns a user's prospect by its platform profile id
func (db *DB) GetProspectByProfileID(ctx context.Context, userID, profileID string) (*models.Prospect, error) {
	var prospect models.Prospect
	query := `SELECT * FROM prospects WHERE user_id = ? AND profile_id = ?`
	err := db.GetContext(ctx, &prospect, query, userID, profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prospect: %w", err)
	}
	return &prospect, nil
}

// GetProspectsByUserID returns a user's prospects, most recent first
func (db *DB) GetProspectsByUserID(ctx context.Context, userID string, limit int) ([]*models.Prospect, error) {
	var prospects []*models.Prospect
	query := `SELECT * FROM prospects WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`
	if err := db.SelectContext(ctx, &prospects, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to get prospects: %w", err)
	}
	return prospects, nil
}

// UpdateProspectConnectionStatus updates the platform-level connection state
func (db *DB) UpdateProspectConnectionStatus(ctx context.Context, id string, status models.ConnectionStatus) error {
	query := `UPDATE prospects SET connection_status = ?, updated_at = ? WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, status, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update prospect connection status: %w", err)
	}
	return nil
}

// CreateCampaignProspect enqueues a prospect into a campaign
func (db *DB) CreateCampaignProspect(ctx context.Context, cp *models.CampaignProspect) error {
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now

	query := `
		INSERT INTO campaign_prospects (id, campaign_id, prospect_id, status, connection_sent_at,
			connection_accepted_at, last_message_sent_at, last_reply_at, follow_up_count,
			next_follow_up_at, created_at, updated_at)
		VALUES (:id, :campaign_id, :prospect_id, :status, :connection_sent_at,
			:connection_accepted_at, :last_message_sent_at, :last_reply_at, :follow_up_count,
			:next_follow_up_at, :created_at, :updated_at)
	`
	if _, err := db.NamedExecContext(ctx, query, cp); err != nil {
		return fmt.Errorf("failed to create campaign prospect: %w", err)
	}
	return nil
}

// GetCampaignProspect returns the join row for one (campaign, prospect) pair
func (db *DB) GetCampaignProspect(ctx context.Context, campaignID, prospectID string) (*models.CampaignProspect, error) {
	var cp models.CampaignProspect
	query := `SELECT * FROM campaign_prospects WHERE campaign_id = ? AND prospect_id = ?`
	err := db.GetContext(ctx, &cp, query, campaignID, prospectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign prospect: %w", err)
	}
	return &cp, nil
}

// CampaignProspectExists reports whether the (campaign, prospect) pair is enrolled
func (db *DB) CampaignProspectExists(ctx context.Context, campaignID, prospectID string) (bool, error) {
	var n int
	query := `SELECT COUNT(*) FROM campaign_prospects WHERE campaign_id = ? AND prospect_id = ?`
	if err := db.GetContext(ctx, &n, query, campaignID, prospectID); err != nil {
		return false, fmt.Errorf("failed to check campaign prospect: %w", err)
	}
	return n > 0, nil
}

// GetQueuedCampaignProspects returns queued rows FIFO by creation, up to limit
func (db *DB) GetQueuedCampaignProspects(ctx context.Context, campaignID string, limit int) ([]*models.CampaignProspect, error) {
	var cps []*models.CampaignProspect
	query := `SELECT * FROM campaign_prospects WHERE campaign_id = ? AND status = ? ORDER BY created_at LIMIT ?`
	if err := db.SelectContext(ctx, &cps, query, campaignID, models.StatusQueued, limit); err != nil {
		return nil, fmt.Errorf("failed to get queued prospects: %w", err)
	}
	return cps, nil
}

// GetProspectsReadyForFollowUp returns rows eligible for the next follow-up:
// accepted or already messaged, due, and under the follow-up cap.
func (db *DB) GetProspectsReadyForFollowUp(ctx context.Context, campaignID string, now time.Time, limit int) ([]*models.CampaignProspect, error) {
	var cps []*models.CampaignProspect
	query := `
		SELECT * FROM campaign_prospects
		WHERE campaign_id = ?
		  AND status IN (?, ?)
		  AND next_follow_up_at IS NOT NULL AND next_follow_up_at <= ?
		  AND follow_up_count < ?
		ORDER BY next_follow_up_at
		LIMIT ?
	`
	err := db.SelectContext(ctx, &cps, query, campaignID,
		models.StatusConnectionAccepted, models.StatusMessageSent, now, models.MaxFollowUps, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get follow-up prospects: %w", err)
	}
	return cps, nil
}

// CountConnectionsSentBetween counts campaign rows whose connection request
// went out inside [from, to). Used for restart-safe daily caps.
func (db *DB) CountConnectionsSentBetween(ctx context.Context, campaignID string, from, to time.Time) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM campaign_prospects WHERE campaign_id = ? AND connection_sent_at >= ? AND connection_sent_at < ?`
	if err := db.GetContext(ctx, &n, query, campaignID, from, to); err != nil {
		return 0, fmt.Errorf("failed to count connections sent: %w", err)
	}
	return n, nil
}

// CountMessagesSentBetween counts campaign rows whose last message went out
// inside [from, to).
func (db *DB) CountMessagesSentBetween(ctx context.Context, campaignID string, from, to time.Time) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM campaign_prospects WHERE campaign_id = ? AND last_message_sent_at >= ? AND last_message_sent_at < ?`
	if err := db.GetContext(ctx, &n, query, campaignID, from, to); err != nil {
		return 0, fmt.Errorf("failed to count messages sent: %w", err)
	}
	return n, nil
}

// CountCampaignProspectsInStatuses counts rows in any of the given states
func (db *DB) CountCampaignProspectsInStatuses(ctx context.Context, campaignID string, statuses ...models.ProspectStatus) (int, error) {
	query, args, err := sqlxIn(
		`SELECT COUNT(*) FROM campaign_prospects WHERE campaign_id = ? AND status IN (?)`,
		campaignID, statuses)
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count campaign prospects: %w", err)
	}
	return n, nil
}

// CountPendingFollowUps counts rows still scheduled for a follow-up
func (db *DB) CountPendingFollowUps(ctx context.Context, campaignID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM campaign_prospects WHERE campaign_id = ? AND next_follow_up_at IS NOT NULL`
	if err := db.GetContext(ctx, &n, query, campaignID); err != nil {
		return 0, fmt.Errorf("failed to count pending follow-ups: %w", err)
	}
	return n, nil
}

// UpdateCampaignProspect persists the mutable state-machine fields of a row
func (db *DB) UpdateCampaignProspect(ctx context.Context, cp *models.CampaignProspect) error {
	cp.UpdatedAt = time.Now()
	query := `
		UPDATE campaign_prospects
		SET status = :status,
		    connection_sent_at = :connection_sent_at,
		    connection_accepted_at = :connection_accepted_at,
		    last_message_sent_at = :last_message_sent_at,
		    last_reply_at = :last_reply_at,
		    follow_up_count = :follow_up_count,
		    next_follow_up_at = :next_follow_up_at,
		    updated_at = :updated_at
		WHERE id = :id
	`
	if _, err := db.NamedExecContext(ctx, query, cp); err != nil {
		return fmt.Errorf("failed to update campaign prospect: %w", err)
	}
	return nil
}

// GetCampaignProspectsByProspect returns all join rows for a prospect
func (db *DB) GetCampaignProspectsByProspect(ctx context.Context, prospectID string) ([]*models.CampaignProspect, error) {
	var cps []*models.CampaignProspect
	query := `SELECT * FROM campaign_prospects WHERE prospect_id = ?`
	if err := db.SelectContext(ctx, &cps, query, prospectID); err != nil {
		return nil, fmt.Errorf("failed to get campaign prospects: %w", err)
	}
	return cps, nil
}

// MaxLastReplyAt returns the latest recorded reply time across all of the
// prospect's campaign rows, or nil when none was recorded.
func (db *DB) MaxLastReplyAt(ctx context.Context, prospectID string) (*time.Time, error) {
	// Select the column directly rather than MAX() so the driver keeps the
	// DATETIME declared type when scanning
	var t time.Time
	query := `
		SELECT last_reply_at FROM campaign_prospects
		WHERE prospect_id = ? AND last_reply_at IS NOT NULL
		ORDER BY last_reply_at DESC
		LIMIT 1
	`
	err := db.GetContext(ctx, &t, query, prospectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get max reply time: %w", err)
	}
	return &t, nil
}
