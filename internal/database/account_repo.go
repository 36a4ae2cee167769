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

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("record not found")

// CreateAccount creates a new linked account
func (db *DB) CreateAccount(ctx context.Context, account *models.LinkedAccount) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	query := `
		INSERT INTO linked_accounts (id, user_id, remote_account_id, profile_id, profile_url,
			display_name, email, status, checkpoint_type, last_synced_at, created_at, updated_at)
		VALUES (:id, :user_id, :remote_account_id, :profile_id, :profile_url,
			:display_name, :email, :status, :checkpoint_type, :last_synced_at, :created_at, :updated_at)
	`
	if _, err := db.NamedExecContext(ctx, query, account); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByID returns an account by ID
func (db *DB) GetAccountByID(ctx context.Context, id string) (*models.LinkedAccount, error) {
	var account models.LinkedAccount
	err := db.GetContext(ctx, &account, `SELECT * FROM linked_accounts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// GetAccountByRemoteID returns an account by its id on the messaging platform
func (db *DB) GetAccountByRemoteID(ctx context.Context, remoteID string) (*models.LinkedAccount, error) {
	var account models.LinkedAccount
	err := db.GetContext(ctx, &account, `SELECT * FROM linked_accounts WHERE remote_account_id = ?`, remoteID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// GetActiveAccountForUser returns the user's active account, if any.
// At most one active account per user is operative for sending.
func (db *DB) GetActiveAccountForUser(ctx context.Context, userID string) (*models.LinkedAccount, error) {
	var account models.LinkedAccount
	query := `SELECT * FROM linked_accounts WHERE user_id = ? AND status = ? ORDER BY created_at DESC LIMIT 1`
	err := db.GetContext(ctx, &account, query, userID, models.AccountActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active account: %w", err)
	}
	return &account, nil
}

// GetAccountsByUserID returns all accounts for a user
func (db *DB) GetAccountsByUserID(ctx context.Context, userID string) ([]*models.LinkedAccount, error) {
	var accounts []*models.LinkedAccount
	query := `SELECT * FROM linked_accounts WHERE user_id = ? ORDER BY created_at DESC`
	if err := db.SelectContext(ctx, &accounts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	return accounts, nil
}

// GetActiveAccounts returns every active account across all users
func (db *DB) GetActiveAccounts(ctx context.Context) ([]*models.LinkedAccount, error) {
	var accounts []*models.LinkedAccount
	query := `SELECT * FROM linked_accounts WHERE status = ? ORDER BY created_at`
	if err := db.SelectContext(ctx, &accounts, query, models.AccountActive); err != nil {
		return nil, fmt.Errorf("failed to get active accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccountStatus updates the lifecycle status and checkpoint of an account
func (db *DB) UpdateAccountStatus(ctx context.Context, id string, status models.AccountStatus, checkpointType string) error {
	query := `UPDATE linked_accounts SET status = ?, checkpoint_type = ?, updated_at = ? WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, status, checkpointType, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}
	return nil
}

// UpdateAccountProfile stores the profile details observed on the platform
func (db *DB) UpdateAccountProfile(ctx context.Context, id, profileID, profileURL, displayName, email string) error {
	query := `UPDATE linked_accounts SET profile_id = ?, profile_url = ?, display_name = ?, email = ?, updated_at = ? WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, profileID, profileURL, displayName, email, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update account profile: %w", err)
	}
	return nil
}

// TouchAccountSynced stamps last_synced_at
func (db *DB) TouchAccountSynced(ctx context.Context, id string, syncedAt time.Time) error {
	query := `UPDATE linked_accounts SET last_synced_at = ?, updated_at = ? WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, syncedAt, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update last synced: %w", err)
	}
	return nil
}

// DeleteAccount deletes an account
func (db *DB) DeleteAccount(ctx context.Context, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM linked_accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
