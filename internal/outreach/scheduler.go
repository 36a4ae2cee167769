package outreach

import (
	"context"
	"fmt"
	"time"

	"github.com/reachkit/reachkit/internal/clock"
	"github.com/reachkit/reachkit/pkg/models"
)

// today returns the [from, to) bounds of the current local day
func (s *Service) today() (time.Time, time.Time) {
	from := clock.StartOfDay(s.clock.Now())
	return from, from.Add(24 * time.Hour)
}

// SendConnections works through the campaign's queued prospects up to the
// daily connection cap. The cap is computed by counting rows sent today, so
// it holds across restarts. With autopilot off, each send becomes a pending
// action instead and the prospect stays queued.
func (s *Service) SendConnections(ctx context.Context, account *models.LinkedAccount, campaign *models.Campaign, settings *models.UserSettings) error {
	queued, err := s.db.GetQueuedCampaignProspects(ctx, campaign.ID, campaign.DailyConnectionLimit)
	if err != nil {
		return fmt.Errorf("failed to load queued prospects: %w", err)
	}

	dayStart, dayEnd := s.today()
	sentToday, err := s.db.CountConnectionsSentBetween(ctx, campaign.ID, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("failed to count today's connections: %w", err)
	}

	for _, cp := range queued {
		if sentToday >= campaign.DailyConnectionLimit {
			s.logger.Info("daily connection limit reached", "campaign_id", campaign.ID)
			break
		}

		prospect, err := s.db.GetProspectByID(ctx, cp.ProspectID)
		if err != nil {
			s.logger.Warn("failed to load prospect", "prospect_id", cp.ProspectID, "error", err)
			continue
		}

		if prospect.ProfileID == "" {
			s.logger.Warn("prospect has no profile id, marking as failed", "prospect_id", prospect.ID)
			cp.Status = models.StatusFailed
			if err := s.db.UpdateCampaignProspect(ctx, cp); err != nil {
				return fmt.Errorf("failed to mark prospect failed: %w", err)
			}
			continue
		}

		if !settings.AutopilotEnabled {
			if err := s.createConnectionAction(ctx, campaign, prospect); err != nil {
				return err
			}
			continue
		}

		err = s.gw.SendConnectionRequest(ctx, account.RemoteAccountID, prospect.ProfileID, campaign.ConnectionMessage)
		if err != nil {
			s.logger.Warn("failed to send connection request, marking as failed",
				"prospect_id", prospect.ID, "error", err)
			cp.Status = models.StatusFailed
			if err := s.db.UpdateCampaignProspect(ctx, cp); err != nil {
				return fmt.Errorf("failed to mark prospect failed: %w", err)
			}
			continue
		}

		now := s.clock.Now()
		cp.Status = models.StatusConnectionSent
		cp.ConnectionSentAt = &now
		if err := s.db.UpdateCampaignProspect(ctx, cp); err != nil {
			return fmt.Errorf("failed to record connection sent: %w", err)
		}
		if err := s.db.UpdateProspectConnectionStatus(ctx, prospect.ID, models.ConnectionPending); err != nil {
			return fmt.Errorf("failed to update prospect status: %w", err)
		}
		if err := s.db.IncrementCampaignCounter(ctx, campaign.ID, "connections_sent"); err != nil {
			return fmt.Errorf("failed to increment counter: %w", err)
		}

		s.logActivity(ctx, campaign.UserID, campaign.ID, prospect.ID, models.ActivityConnectionSent,
			fmt.Sprintf("Connection request sent to %s", prospect.DisplayName()))

		sentToday++
	}

	s.logger.Info("connection batch completed", "campaign_id", campaign.ID, "candidates", len(queued))
	return nil
}

// ProcessFollowUps sends the next follow-up message to prospects whose
// next_follow_up_at has come due, bounded by the daily message cap. Send
// failures leave the row untouched so the next run retries it.
func (s *Service) ProcessFollowUps(ctx context.Context, account *models.LinkedAccount, campaign *models.Campaign, settings *models.UserSettings) error {
	ready, err := s.db.GetProspectsReadyForFollowUp(ctx, campaign.ID, s.clock.Now(), campaign.DailyMessageLimit)
	if err != nil {
		return fmt.Errorf("failed to load follow-up candidates: %w", err)
	}

	dayStart, dayEnd := s.today()
	sentToday, err := s.db.CountMessagesSentBetween(ctx, campaign.ID, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("failed to count today's messages: %w", err)
	}

	for _, cp := range ready {
		if sentToday >= campaign.DailyMessageLimit {
			s.logger.Info("daily message limit reached", "campaign_id", campaign.ID)
			break
		}

		message := campaign.FollowUpMessage(cp.FollowUpCount)
		if message == "" {
			// Templates exhausted; stop scheduling this prospect
			cp.NextFollowUpAt = nil
			if err := s.db.UpdateCampaignProspect(ctx, cp); err != nil {
				return fmt.Errorf("failed to clear follow-up schedule: %w", err)
			}
			continue
		}

		prospect, err := s.db.GetProspectByID(ctx, cp.ProspectID)
		if err != nil {
			s.logger.Warn("failed to load prospect", "prospect_id", cp.ProspectID, "error", err)
			continue
		}
		if prospect.ProfileID == "" {
			s.logger.Warn("prospect has no profile id, skipping follow-up", "prospect_id", prospect.ID)
			continue
		}

		if !settings.AutopilotEnabled {
			if err := s.createFollowUpAction(ctx, campaign, cp, prospect, message); err != nil {
				return err
			}
			continue
		}

		if err := s.deliverMessage(ctx, account.RemoteAccountID, prospect.ProfileID, message); err != nil {
			s.logger.Warn("failed to send follow-up", "prospect_id", prospect.ID, "error", err)
			continue
		}

		now := s.clock.Now()
		cp.FollowUpCount++
		cp.Status = models.StatusMessageSent
		cp.LastMessageSentAt = &now
		cp.NextFollowUpAt = nextFollowUpTime(campaign, cp.FollowUpCount-1, now)
		if err := s.db.UpdateCampaignProspect(ctx, cp); err != nil {
			return fmt.Errorf("failed to record follow-up sent: %w", err)
		}
		if err := s.db.IncrementCampaignCounter(ctx, campaign.ID, "messages_sent"); err != nil {
			return fmt.Errorf("failed to increment counter: %w", err)
		}

		s.logActivity(ctx, campaign.UserID, campaign.ID, prospect.ID, models.ActivityFollowUpSent,
			fmt.Sprintf("Follow-up #%d sent to %s", cp.FollowUpCount, prospect.DisplayName()))

		sentToday++
	}

	s.logger.Info("follow-up batch completed", "campaign_id", campaign.ID, "candidates", len(ready))
	return nil
}

// nextFollowUpTime computes when the follow-up after the one just sent is
// due, or nil when the sequence is exhausted
func nextFollowUpTime(campaign *models.Campaign, justSentCount int, now time.Time) *time.Time {
	delayDays := campaign.NextFollowUpDelayDays(justSentCount)
	if delayDays <= 0 {
		return nil
	}
	next := now.AddDate(0, 0, delayDays)
	return &next
}

func (s *Service) createConnectionAction(ctx context.Context, campaign *models.Campaign, prospect *models.Prospect) error {
	action := &models.PendingAction{
		UserID:         campaign.UserID,
		CampaignID:     campaign.ID,
		ProspectID:     prospect.ID,
		ActionType:     models.ActionSendConnection,
		Status:         models.ActionPending,
		MessageContent: campaign.ConnectionMessage,
		CampaignName:   campaign.Name,
		ProspectName:   prospect.DisplayName(),
		ExpiresAt:      s.clock.Now().Add(models.PendingActionTTL),
	}
	if err := s.db.CreatePendingAction(ctx, action); err != nil {
		return fmt.Errorf("failed to create pending action: %w", err)
	}
	return nil
}

func (s *Service) createFollowUpAction(ctx context.Context, campaign *models.Campaign, cp *models.CampaignProspect, prospect *models.Prospect, message string) error {
	action := &models.PendingAction{
		UserID:         campaign.UserID,
		CampaignID:     campaign.ID,
		ProspectID:     prospect.ID,
		ActionType:     models.ActionSendFollowUp,
		Status:         models.ActionPending,
		MessageContent: message,
		CampaignName:   campaign.Name,
		ProspectName:   prospect.DisplayName(),
		FollowUpNumber: cp.FollowUpCount + 1,
		ExpiresAt:      s.clock.Now().Add(models.PendingActionTTL),
	}
	if err := s.db.CreatePendingAction(ctx, action); err != nil {
		return fmt.Errorf("failed to create pending action: %w", err)
	}
	return nil
}
