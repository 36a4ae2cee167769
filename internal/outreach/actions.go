package outreach

import (
	"context"
	"fmt"

	"github.com/reachkit/reachkit/pkg/models"
)

// BatchResult reports the outcome of a batch approve
type BatchResult struct {
	Approved int
	Executed int
	Failed   int
}

// PendingActions lists the user's open actions, newest first
func (s *Service) PendingActions(ctx context.Context, userID string, limit int) ([]*models.PendingAction, error) {
	return s.db.GetPendingActionsForUser(ctx, userID, s.clock.Now(), limit)
}

// ApproveAction approves a pending, unexpired action and immediately attempts
// execution. Returns false when the action is not approvable or execution
// failed; an approved-but-unexecuted action stays approved and can be retried.
func (s *Service) ApproveAction(ctx context.Context, action *models.PendingAction) (bool, error) {
	now := s.clock.Now()
	if !action.IsPending() || action.IsExpired(now) {
		return false, nil
	}

	if err := s.db.UpdatePendingActionStatus(ctx, action.ID, models.ActionApproved, now); err != nil {
		return false, fmt.Errorf("failed to approve action: %w", err)
	}
	action.Status = models.ActionApproved

	executed, err := s.executeAction(ctx, action)
	if err != nil {
		s.logger.Warn("action execution failed", "action_id", action.ID, "error", err)
		return false, nil
	}
	return executed, nil
}

// ApproveActions approves and executes each action independently; one
// element's failure never blocks the rest
func (s *Service) ApproveActions(ctx context.Context, actions []*models.PendingAction) BatchResult {
	var result BatchResult
	now := s.clock.Now()

	for _, action := range actions {
		if !action.IsPending() || action.IsExpired(now) {
			result.Failed++
			continue
		}

		if err := s.db.UpdatePendingActionStatus(ctx, action.ID, models.ActionApproved, now); err != nil {
			s.logger.Warn("failed to approve action", "action_id", action.ID, "error", err)
			result.Failed++
			continue
		}
		action.Status = models.ActionApproved
		result.Approved++

		executed, err := s.executeAction(ctx, action)
		if err != nil || !executed {
			if err != nil {
				s.logger.Warn("action execution failed", "action_id", action.ID, "error", err)
			}
			result.Failed++
			continue
		}
		result.Executed++
	}

	return result
}

// DenyAction rejects a pending action. Denied actions are terminal and are
// never executed.
func (s *Service) DenyAction(ctx context.Context, action *models.PendingAction) (bool, error) {
	if !action.IsPending() {
		return false, nil
	}

	if err := s.db.UpdatePendingActionStatus(ctx, action.ID, models.ActionDenied, s.clock.Now()); err != nil {
		return false, fmt.Errorf("failed to deny action: %w", err)
	}
	action.Status = models.ActionDenied

	s.logActivity(ctx, action.UserID, action.CampaignID, action.ProspectID, models.ActivityActionDenied,
		fmt.Sprintf("Action denied: %s", action.ActionType))

	return true, nil
}

// DenyActions denies each pending action independently and returns how many
// were denied
func (s *Service) DenyActions(ctx context.Context, actions []*models.PendingAction) int {
	denied := 0
	for _, action := range actions {
		ok, err := s.DenyAction(ctx, action)
		if err != nil {
			s.logger.Warn("failed to deny action", "action_id", action.ID, "error", err)
			continue
		}
		if ok {
			denied++
		}
	}
	return denied
}

// ExpirePendingActions flips every pending action past its deadline to
// expired. Idempotent; safe to run on every cycle.
func (s *Service) ExpirePendingActions(ctx context.Context) (int64, error) {
	return s.db.ExpirePendingActions(ctx, s.clock.Now())
}

// executeAction performs the remote write behind an approved action. It
// requires the owner to have an active linked account; the action is marked
// executed only when the write succeeded.
func (s *Service) executeAction(ctx context.Context, action *models.PendingAction) (bool, error) {
	account, err := s.db.GetActiveAccountForUser(ctx, action.UserID)
	if err != nil {
		if isNotFound(err) {
			s.logger.Warn("no active account, cannot execute action",
				"user_id", action.UserID, "action_id", action.ID)
			return false, nil
		}
		return false, fmt.Errorf("failed to load account: %w", err)
	}

	var executed bool
	switch action.ActionType {
	case models.ActionSendConnection:
		executed, err = s.executeConnectionAction(ctx, account, action)
	case models.ActionSendMessage, models.ActionSendFollowUp:
		executed, err = s.executeMessageAction(ctx, account, action)
	default:
		return false, fmt.Errorf("unknown action type %q", action.ActionType)
	}
	if err != nil {
		return false, err
	}
	if !executed {
		return false, nil
	}

	if err := s.db.UpdatePendingActionStatus(ctx, action.ID, models.ActionExecuted, s.clock.Now()); err != nil {
		return false, fmt.Errorf("failed to mark action executed: %w", err)
	}
	action.Status = models.ActionExecuted
	return true, nil
}

func (s *Service) executeConnectionAction(ctx context.Context, account *models.LinkedAccount, action *models.PendingAction) (bool, error) {
	prospect, err := s.db.GetProspectByID(ctx, action.ProspectID)
	if err != nil {
		return false, fmt.Errorf("failed to load prospect: %w", err)
	}
	if prospect.ProfileID == "" {
		return false, nil
	}

	err = s.gw.SendConnectionRequest(ctx, account.RemoteAccountID, prospect.ProfileID, action.MessageContent)
	if err != nil {
		s.logger.Warn("failed to send connection request", "prospect_id", prospect.ID, "error", err)
		return false, nil
	}

	if err := s.db.UpdateProspectConnectionStatus(ctx, prospect.ID, models.ConnectionPending); err != nil {
		return false, fmt.Errorf("failed to update prospect status: %w", err)
	}

	if action.CampaignID != "" {
		cp, err := s.db.GetCampaignProspect(ctx, action.CampaignID, prospect.ID)
		if err != nil && !isNotFound(err) {
			return false, fmt.Errorf("failed to load campaign prospect: %w", err)
		}
		now := s.clock.Now()
		if err == nil {
			cp.Status = models.StatusConnectionSent
			cp.ConnectionSentAt = &now
			if err := s.db.UpdateCampaignProspect(ctx, cp); err != nil {
				return false, fmt.Errorf("failed to update campaign prospect: %w", err)
			}
		} else {
			cp = &models.CampaignProspect{
				CampaignID:       action.CampaignID,
				ProspectID:       prospect.ID,
				Status:           models.StatusConnectionSent,
				ConnectionSentAt: &now,
			}
			if err := s.db.CreateCampaignProspect(ctx, cp); err != nil {
				return false, fmt.Errorf("failed to create campaign prospect: %w", err)
			}
		}
		if err := s.db.IncrementCampaignCounter(ctx, action.CampaignID, "connections_sent"); err != nil {
			return false, fmt.Errorf("failed to increment counter: %w", err)
		}
	}

	s.logActivity(ctx, action.UserID, action.CampaignID, prospect.ID, models.ActivityConnectionSent,
		fmt.Sprintf("Connection request sent to %s (via approved action)", prospect.DisplayName()))

	return true, nil
}

func (s *Service) executeMessageAction(ctx context.Context, account *models.LinkedAccount, action *models.PendingAction) (bool, error) {
	prospect, err := s.db.GetProspectByID(ctx, action.ProspectID)
	if err != nil {
		return false, fmt.Errorf("failed to load prospect: %w", err)
	}
	if prospect.ProfileID == "" {
		return false, nil
	}

	if err := s.deliverMessage(ctx, account.RemoteAccountID, prospect.ProfileID, action.MessageContent); err != nil {
		s.logger.Warn("failed to send message", "prospect_id", prospect.ID, "error", err)
		return false, nil
	}

	if action.CampaignID != "" {
		cp, err := s.db.GetCampaignProspect(ctx, action.CampaignID, prospect.ID)
		if err != nil && !isNotFound(err) {
			return false, fmt.Errorf("failed to load campaign prospect: %w", err)
		}
		if err == nil {
			campaign, err := s.db.GetCampaignByID(ctx, action.CampaignID)
			if err != nil {
				return false, fmt.Errorf("failed to load campaign: %w", err)
			}
			now := s.clock.Now()
			cp.FollowUpCount++
			cp.Status = models.StatusMessageSent
			cp.LastMessageSentAt = &now
			cp.NextFollowUpAt = nextFollowUpTime(campaign, cp.FollowUpCount-1, now)
			if err := s.db.UpdateCampaignProspect(ctx, cp); err != nil {
				return false, fmt.Errorf("failed to update campaign prospect: %w", err)
			}
		}
		if err := s.db.IncrementCampaignCounter(ctx, action.CampaignID, "messages_sent"); err != nil {
			return false, fmt.Errorf("failed to increment counter: %w", err)
		}
	}

	activityType := models.ActivityMessageSent
	if action.ActionType == models.ActionSendFollowUp {
		activityType = models.ActivityFollowUpSent
	}
	s.logActivity(ctx, action.UserID, action.CampaignID, prospect.ID, activityType,
		fmt.Sprintf("Message sent to %s (via approved action)", prospect.DisplayName()))

	return true, nil
}
