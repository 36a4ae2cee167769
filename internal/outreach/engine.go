package outreach

import (
	"context"
	"fmt"

	"github.com/reachkit/reachkit/pkg/models"
)

// RunOutreachCycle runs one full pipeline pass for a campaign: sync the
// account, discover prospects, send connections, process follow-ups, then
// auto-complete the campaign if nothing is left to do. Each step's failure
// is logged and the pass moves on; nothing propagates to the trigger.
func (s *Service) RunOutreachCycle(ctx context.Context, campaignID string) {
	campaign, err := s.db.GetCampaignByID(ctx, campaignID)
	if err != nil {
		s.logger.Error("failed to load campaign", "campaign_id", campaignID, "error", err)
		return
	}
	if campaign.Status != models.CampaignActive {
		s.logger.Info("campaign is not active, skipping cycle", "campaign_id", campaignID)
		return
	}

	account, err := s.db.GetActiveAccountForUser(ctx, campaign.UserID)
	if err != nil {
		if isNotFound(err) {
			s.logger.Warn("no active account for user, skipping campaign",
				"user_id", campaign.UserID, "campaign_id", campaignID)
		} else {
			s.logger.Error("failed to load account", "user_id", campaign.UserID, "error", err)
		}
		return
	}

	settings, err := s.db.GetSettingsForUser(ctx, campaign.UserID)
	if err != nil {
		s.logger.Error("failed to load settings", "user_id", campaign.UserID, "error", err)
		return
	}

	if _, err := s.SyncAccount(ctx, account); err != nil {
		s.logger.Warn("sync pass failed", "campaign_id", campaignID, "error", err)
	}

	// Sync may have paused or completed the campaign
	campaign, err = s.db.GetCampaignByID(ctx, campaignID)
	if err != nil || campaign.Status != models.CampaignActive {
		return
	}

	if _, err := s.DiscoverProspects(ctx, account, campaign); err != nil {
		s.logger.Warn("discovery failed", "campaign_id", campaignID, "error", err)
	}

	if err := s.SendConnections(ctx, account, campaign, settings); err != nil {
		s.logger.Warn("connection batch failed", "campaign_id", campaignID, "error", err)
	}

	if err := s.ProcessFollowUps(ctx, account, campaign, settings); err != nil {
		s.logger.Warn("follow-up batch failed", "campaign_id", campaignID, "error", err)
	}

	if err := s.autoCompleteIfDone(ctx, campaignID); err != nil {
		s.logger.Warn("auto-complete check failed", "campaign_id", campaignID, "error", err)
	}
}

// RunSync runs a standalone reconciliation pass for one account
func (s *Service) RunSync(ctx context.Context, accountID string) {
	account, err := s.db.GetAccountByID(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to load account", "account_id", accountID, "error", err)
		return
	}
	if !account.IsActive() {
		return
	}
	if _, err := s.SyncAccount(ctx, account); err != nil {
		s.logger.Warn("sync pass failed", "account_id", accountID, "error", err)
	}
}

// StartCampaign activates a draft or paused campaign
func (s *Service) StartCampaign(ctx context.Context, campaign *models.Campaign) error {
	if campaign.Status != models.CampaignDraft && campaign.Status != models.CampaignPaused {
		return fmt.Errorf("campaign %q cannot be started from status %s", campaign.Name, campaign.Status)
	}
	if err := s.db.UpdateCampaignStatus(ctx, campaign.ID, models.CampaignActive, s.clock.Now()); err != nil {
		return fmt.Errorf("failed to start campaign: %w", err)
	}
	campaign.Status = models.CampaignActive
	return nil
}

// PauseCampaign pauses an active campaign
func (s *Service) PauseCampaign(ctx context.Context, campaign *models.Campaign) error {
	if campaign.Status != models.CampaignActive {
		return fmt.Errorf("campaign %q is not active", campaign.Name)
	}
	if err := s.db.UpdateCampaignStatus(ctx, campaign.ID, models.CampaignPaused, s.clock.Now()); err != nil {
		return fmt.Errorf("failed to pause campaign: %w", err)
	}
	campaign.Status = models.CampaignPaused
	return nil
}

// autoCompleteIfDone completes an active campaign once no prospect is still
// in flight, no follow-up is scheduled and no pending action remains open
func (s *Service) autoCompleteIfDone(ctx context.Context, campaignID string) error {
	campaign, err := s.db.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.Status != models.CampaignActive {
		return nil
	}

	active, err := s.db.CountCampaignProspectsInStatuses(ctx, campaignID,
		models.StatusQueued, models.StatusConnectionSent,
		models.StatusConnectionAccepted, models.StatusMessageSent)
	if err != nil {
		return err
	}
	if active > 0 {
		return nil
	}

	scheduled, err := s.db.CountPendingFollowUps(ctx, campaignID)
	if err != nil {
		return err
	}
	if scheduled > 0 {
		return nil
	}

	open, err := s.db.CountPendingActionsForCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	if open > 0 {
		return nil
	}

	if err := s.db.UpdateCampaignStatus(ctx, campaignID, models.CampaignCompleted, s.clock.Now()); err != nil {
		return err
	}

	s.logActivity(ctx, campaign.UserID, campaignID, "", models.ActivityCampaignCompleted,
		fmt.Sprintf("Campaign %q completed", campaign.Name))
	s.logger.Info("campaign completed", "campaign_id", campaignID)
	return nil
}
