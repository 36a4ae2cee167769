package outreach

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/reachkit/reachkit/internal/gateway"
	"github.com/reachkit/reachkit/pkg/models"
)

// messagePageSize bounds how many recent messages per chat the sync reads
const messagePageSize = 10

// previewLength caps the reply excerpt stored in the activity log
const previewLength = 100

// SyncResult summarizes one reconciliation pass
type SyncResult struct {
	ConnectionsAccepted int
	RepliesProcessed    int
}

// SyncAccount reconciles local state with the platform: a chat appearing with
// a prospect whose connection is pending means the invite was accepted, and
// messages newer than the last recorded reply mark the prospect as replied.
// Idempotent: re-running with no new remote events changes nothing. The
// account's last_synced_at is stamped regardless of outcome.
func (s *Service) SyncAccount(ctx context.Context, account *models.LinkedAccount) (SyncResult, error) {
	var result SyncResult

	chats, err := s.gw.GetChats(ctx, account.RemoteAccountID, s.chatLimit)
	if err != nil {
		// Still stamp the sync time so a flapping gateway is visible as
		// "recently attempted" rather than "never synced"
		if touchErr := s.db.TouchAccountSynced(ctx, account.ID, s.clock.Now()); touchErr != nil {
			s.logger.Warn("failed to stamp sync time", "account_id", account.ID, "error", touchErr)
		}
		return result, fmt.Errorf("failed to list chats: %w", err)
	}

	for _, chat := range chats {
		if err := s.syncChat(ctx, account, chat, &result); err != nil {
			s.logger.Warn("failed to sync chat", "chat_id", chat.ID, "error", err)
		}
	}

	if err := s.db.TouchAccountSynced(ctx, account.ID, s.clock.Now()); err != nil {
		s.logger.Warn("failed to stamp sync time", "account_id", account.ID, "error", err)
	}

	if result.ConnectionsAccepted > 0 || result.RepliesProcessed > 0 {
		s.logger.Info("sync completed",
			"user_id", account.UserID,
			"replies", result.RepliesProcessed,
			"connections_accepted", result.ConnectionsAccepted)
	}

	return result, nil
}

func (s *Service) syncChat(ctx context.Context, account *models.LinkedAccount, chat gateway.Chat, result *SyncResult) error {
	if chat.ID == "" {
		return nil
	}

	prospect := s.matchProspect(ctx, account, chat)
	if prospect == nil {
		// Not a tracked prospect
		return nil
	}

	if prospect.ConnectionStatus == models.ConnectionPending {
		if err := s.markConnectionAccepted(ctx, account, prospect); err != nil {
			return err
		}
		result.ConnectionsAccepted++
	}

	messages, err := s.gw.GetChatMessages(ctx, chat.ID, messagePageSize)
	if err != nil {
		return fmt.Errorf("failed to list messages: %w", err)
	}

	for _, message := range messages {
		processed, err := s.processReply(ctx, account.UserID, prospect, message)
		if err != nil {
			return err
		}
		if processed {
			result.RepliesProcessed++
		}
	}
	return nil
}

// matchProspect finds the tracked prospect among the chat's attendees,
// skipping the account holder's own id
func (s *Service) matchProspect(ctx context.Context, account *models.LinkedAccount, chat gateway.Chat) *models.Prospect {
	for _, attendee := range chat.Attendees {
		if attendee.ProviderID == "" || attendee.ProviderID == account.ProfileID {
			continue
		}
		prospect, err := s.db.GetProspectByProfileID(ctx, account.UserID, attendee.ProviderID)
		if err == nil {
			return prospect
		}
		if !isNotFound(err) {
			s.logger.Warn("failed to look up prospect", "profile_id", attendee.ProviderID, "error", err)
		}
	}
	return nil
}

// markConnectionAccepted flips a pending prospect to connected, moves its
// campaign rows to connection_accepted and schedules the first follow-up
func (s *Service) markConnectionAccepted(ctx context.Context, account *models.LinkedAccount, prospect *models.Prospect) error {
	if err := s.db.UpdateProspectConnectionStatus(ctx, prospect.ID, models.ConnectionConnected); err != nil {
		return fmt.Errorf("failed to update prospect status: %w", err)
	}
	prospect.ConnectionStatus = models.ConnectionConnected

	now := s.clock.Now()
	firstFollowUp := now.AddDate(0, 0, 3)

	rows, err := s.db.GetCampaignProspectsByProspect(ctx, prospect.ID)
	if err != nil {
		return fmt.Errorf("failed to load campaign prospects: %w", err)
	}
	for _, cp := range rows {
		if cp.Status != models.StatusConnectionSent {
			continue
		}
		cp.Status = models.StatusConnectionAccepted
		cp.ConnectionAcceptedAt = &now
		cp.NextFollowUpAt = &firstFollowUp
		if err := s.db.UpdateCampaignProspect(ctx, cp); err != nil {
			return fmt.Errorf("failed to update campaign prospect: %w", err)
		}
	}

	campaigns, err := s.db.GetCampaignsForProspect(ctx, prospect.ID)
	if err != nil {
		return fmt.Errorf("failed to load campaigns: %w", err)
	}
	for _, campaign := range campaigns {
		if err := s.db.IncrementCampaignCounter(ctx, campaign.ID, "connections_accepted"); err != nil {
			return fmt.Errorf("failed to increment counter: %w", err)
		}
	}

	s.logActivity(ctx, account.UserID, "", prospect.ID, models.ActivityConnectionAccepted,
		fmt.Sprintf("Connection accepted by %s", prospect.DisplayName()))

	return nil
}

// processReply records a reply if the message did not come from the prospect's
// own outbound side and is newer than the last reply already recorded. The
// timestamp guard keeps repeated syncs from double-counting.
func (s *Service) processReply(ctx context.Context, userID string, prospect *models.Prospect, message gateway.Message) (bool, error) {
	if message.SenderID == prospect.ProfileID {
		return false, nil
	}

	lastReplyAt, err := s.db.MaxLastReplyAt(ctx, prospect.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load last reply time: %w", err)
	}
	if !message.Timestamp.IsZero() && lastReplyAt != nil && !message.Timestamp.After(*lastReplyAt) {
		return false, nil
	}

	now := s.clock.Now()
	rows, err := s.db.GetCampaignProspectsByProspect(ctx, prospect.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load campaign prospects: %w", err)
	}
	for _, cp := range rows {
		if cp.Status != models.StatusConnectionAccepted && cp.Status != models.StatusMessageSent {
			continue
		}
		cp.Status = models.StatusReplied
		cp.LastReplyAt = &now
		cp.NextFollowUpAt = nil // a reply ends the automated sequence
		if err := s.db.UpdateCampaignProspect(ctx, cp); err != nil {
			return false, fmt.Errorf("failed to update campaign prospect: %w", err)
		}
	}

	campaigns, err := s.db.GetCampaignsForProspect(ctx, prospect.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load campaigns: %w", err)
	}
	for _, campaign := range campaigns {
		if err := s.db.IncrementCampaignCounter(ctx, campaign.ID, "replies_received"); err != nil {
			return false, fmt.Errorf("failed to increment counter: %w", err)
		}
	}

	preview := truncatePreview(message.Text)
	s.logActivity(ctx, userID, "", prospect.ID, models.ActivityReplyReceived,
		fmt.Sprintf("Reply received from %s: %q", prospect.DisplayName(), preview))

	return true, nil
}

// truncatePreview caps the excerpt at previewLength runes, never splitting a
// multi-byte character
func truncatePreview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLength])
}
