package outreach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/reachkit/reachkit/internal/gateway"
	"github.com/reachkit/reachkit/pkg/models"
)

// hostedLinkTTL is how long a hosted linking URL stays valid
const hostedLinkTTL = time.Hour

// mapRemoteStatus translates the platform's account status into ours
func mapRemoteStatus(status string) models.AccountStatus {
	switch strings.ToLower(status) {
	case "ok", "connected", "active":
		return models.AccountActive
	case "pending", "connecting":
		return models.AccountPending
	case "disconnected", "error", "failed":
		return models.AccountDisconnected
	default:
		return models.AccountPending
	}
}

// LinkAccount links a platform account using username/password. The returned
// account may require a checkpoint before it becomes active.
func (s *Service) LinkAccount(ctx context.Context, userID, username, password string) (*models.LinkedAccount, error) {
	state, err := s.gw.ConnectWithCredentials(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("failed to link account: %w", err)
	}
	if state.AccountID == "" {
		return nil, fmt.Errorf("platform returned no account id")
	}

	account, err := s.upsertAccount(ctx, userID, state)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, userID, "", "", models.ActivityAccountLinked,
		"Account connection initiated")

	return account, nil
}

// HostedLinkURL requests a hosted linking flow URL for the user
func (s *Service) HostedLinkURL(ctx context.Context, redirectURL string) (string, error) {
	authURL, _, err := s.gw.HostedAuthURL(ctx, redirectURL, s.clock.Now().Add(hostedLinkTTL))
	if err != nil {
		return "", fmt.Errorf("failed to get hosted link URL: %w", err)
	}
	return authURL, nil
}

// CompleteLinking finishes a hosted linking flow: fetches the remote account
// state and stores the holder's own profile identity, which the sync pass
// needs to tell the account holder apart from chat attendees.
func (s *Service) CompleteLinking(ctx context.Context, userID, remoteAccountID string) (*models.LinkedAccount, error) {
	state, err := s.gw.GetAccountStatus(ctx, remoteAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account status: %w", err)
	}

	account, err := s.upsertAccount(ctx, userID, state)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, userID, "", "", models.ActivityAccountLinked,
		fmt.Sprintf("Account connected: %s", account.DisplayName))

	return account, nil
}

// RefreshAccountStatus re-reads the remote state and updates the local
// record. An account deleted on the platform removes the local record and
// returns nil.
func (s *Service) RefreshAccountStatus(ctx context.Context, account *models.LinkedAccount) (*models.LinkedAccount, error) {
	state, err := s.gw.GetAccountStatus(ctx, account.RemoteAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account status: %w", err)
	}

	if state.Status == "not_found" {
		// Orphaned record; the remote side is gone
		if err := s.db.DeleteAccount(ctx, account.ID); err != nil {
			return nil, fmt.Errorf("failed to delete orphaned account: %w", err)
		}
		s.logger.Info("removed orphaned account", "account_id", account.ID)
		return nil, nil
	}

	if err := s.applyRemoteState(ctx, account, state); err != nil {
		return nil, err
	}
	return account, nil
}

// SolveAccountCheckpoint submits a verification code, then refreshes the
// account from the remote state
func (s *Service) SolveAccountCheckpoint(ctx context.Context, account *models.LinkedAccount, code string) error {
	if err := s.gw.SolveCheckpoint(ctx, account.RemoteAccountID, code); err != nil {
		return fmt.Errorf("failed to solve checkpoint: %w", err)
	}

	state, err := s.gw.GetAccountStatus(ctx, account.RemoteAccountID)
	if err != nil {
		return fmt.Errorf("failed to refresh account status: %w", err)
	}
	return s.applyRemoteState(ctx, account, state)
}

// UnlinkAccount disconnects the account on the platform (best effort) and
// removes the local record
func (s *Service) UnlinkAccount(ctx context.Context, account *models.LinkedAccount) error {
	if err := s.gw.DisconnectAccount(ctx, account.RemoteAccountID); err != nil {
		s.logger.Warn("failed to disconnect remote account", "account_id", account.ID, "error", err)
	}

	s.logActivity(ctx, account.UserID, "", "", models.ActivityAccountUnlinked,
		fmt.Sprintf("Account disconnected: %s", account.DisplayName))

	if err := s.db.DeleteAccount(ctx, account.ID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// upsertAccount creates or refreshes the local record for a remote account
func (s *Service) upsertAccount(ctx context.Context, userID string, state *gateway.AccountState) (*models.LinkedAccount, error) {
	existing, err := s.db.GetAccountByRemoteID(ctx, state.AccountID)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err == nil {
		if err := s.applyRemoteState(ctx, existing, state); err != nil {
			return nil, err
		}
		return existing, nil
	}

	account := &models.LinkedAccount{
		UserID:          userID,
		RemoteAccountID: state.AccountID,
		ProfileID:       state.ProfileID,
		ProfileURL:      state.ProfileURL,
		DisplayName:     state.DisplayName,
		Email:           state.Email,
		Status:          mapRemoteStatus(state.Status),
		CheckpointType:  state.CheckpointType,
	}
	if err := s.db.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// applyRemoteState writes the remote status, checkpoint and profile identity
// onto the local record
func (s *Service) applyRemoteState(ctx context.Context, account *models.LinkedAccount, state *gateway.AccountState) error {
	status := mapRemoteStatus(state.Status)
	if err := s.db.UpdateAccountStatus(ctx, account.ID, status, state.CheckpointType); err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}
	account.Status = status
	account.CheckpointType = state.CheckpointType

	if state.ProfileID != "" || state.DisplayName != "" {
		profileID := state.ProfileID
		if profileID == "" {
			profileID = account.ProfileID
		}
		profileURL := state.ProfileURL
		if profileURL == "" {
			profileURL = account.ProfileURL
		}
		displayName := state.DisplayName
		if displayName == "" {
			displayName = account.DisplayName
		}
		email := state.Email
		if email == "" {
			email = account.Email
		}
		if err := s.db.UpdateAccountProfile(ctx, account.ID, profileID, profileURL, displayName, email); err != nil {
			return fmt.Errorf("failed to update account profile: %w", err)
		}
		account.ProfileID = profileID
		account.ProfileURL = profileURL
		account.DisplayName = displayName
		account.Email = email
	}

	if err := s.db.TouchAccountSynced(ctx, account.ID, s.clock.Now()); err != nil {
		return fmt.Errorf("failed to stamp sync time: %w", err)
	}
	return nil
}
