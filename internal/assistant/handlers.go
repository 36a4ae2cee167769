package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/reachkit/reachkit/pkg/models"
)

const (
	defaultDailyConnectionLimit = 20
	defaultDailyMessageLimit    = 25
	listLimit                   = 20
)

func (d *Dispatcher) listCampaigns(ctx context.Context, req Request) (string, error) {
	campaigns, err := d.db.GetCampaignsByUserID(ctx, req.UserID)
	if err != nil {
		return "", err
	}
	if len(campaigns) == 0 {
		return "You don't have any campaigns yet. Say \"create a campaign\" to get started.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d campaign(s):\n", len(campaigns))
	for _, c := range campaigns {
		fmt.Fprintf(&b, "\n• %s — %s (%d connections sent, %d replies)",
			c.Name, c.Status, c.ConnectionsSent, c.RepliesReceived)
	}
	return b.String(), nil
}

func (d *Dispatcher) createCampaign(ctx context.Context, req Request) (string, error) {
	name := req.Entities.CampaignName
	if name == "" {
		return "What should the campaign be called? Tell me something like \"create a campaign named Q3 outreach targeting CTOs in Berlin\".", nil
	}

	if _, err := d.db.GetCampaignByName(ctx, req.UserID, name); err == nil {
		return fmt.Sprintf("You already have a campaign named %q.", name), nil
	} else if !isNotFound(err) {
		return "", err
	}

	campaign := &models.Campaign{
		UserID:               req.UserID,
		Name:                 name,
		Status:               models.CampaignDraft,
		JobTitles:            req.Entities.JobTitles,
		Locations:            req.Entities.Locations,
		DailyConnectionLimit: defaultDailyConnectionLimit,
		DailyMessageLimit:    defaultDailyMessageLimit,
	}
	if err := d.db.CreateCampaign(ctx, campaign); err != nil {
		return "", err
	}

	return fmt.Sprintf("Created campaign %q as a draft. Set your connection message and follow-ups, then say \"start %s\" when you're ready.", name, name), nil
}

func (d *Dispatcher) campaignStats(ctx context.Context, req Request) (string, error) {
	campaign, msg, err := d.resolveCampaign(ctx, req.UserID, req.Entities)
	if err != nil {
		return "", err
	}
	if msg != "" {
		return msg, nil
	}

	return fmt.Sprintf(`Stats for %q (%s):

• Connections sent: %d
• Connections accepted: %d (%.1f%% acceptance)
• Messages sent: %d
• Replies received: %d (%.1f%% reply rate)`,
		campaign.Name, campaign.Status,
		campaign.ConnectionsSent,
		campaign.ConnectionsAccepted, campaign.AcceptanceRate(),
		campaign.MessagesSent,
		campaign.RepliesReceived, campaign.ReplyRate()), nil
}

func (d *Dispatcher) startCampaign(ctx context.Context, req Request) (string, error) {
	campaign, msg, err := d.resolveCampaign(ctx, req.UserID, req.Entities)
	if err != nil {
		return "", err
	}
	if msg != "" {
		return msg, nil
	}

	if err := d.engine.StartCampaign(ctx, campaign); err != nil {
		if campaign.Status == models.CampaignActive {
			return fmt.Sprintf("Campaign %q is already running.", campaign.Name), nil
		}
		return "", err
	}
	return fmt.Sprintf("Campaign %q is now active. I'll start working through it on the next cycle.", campaign.Name), nil
}

func (d *Dispatcher) pauseCampaign(ctx context.Context, req Request) (string, error) {
	campaign, msg, err := d.resolveCampaign(ctx, req.UserID, req.Entities)
	if err != nil {
		return "", err
	}
	if msg != "" {
		return msg, nil
	}

	if campaign.Status != models.CampaignActive {
		return fmt.Sprintf("Campaign %q isn't running (status: %s).", campaign.Name, campaign.Status), nil
	}
	if err := d.engine.PauseCampaign(ctx, campaign); err != nil {
		return "", err
	}
	return fmt.Sprintf("Paused campaign %q. Say \"start %s\" to resume.", campaign.Name, campaign.Name), nil
}

func (d *Dispatcher) listProspects(ctx context.Context, req Request) (string, error) {
	prospects, err := d.db.GetProspectsByUserID(ctx, req.UserID, listLimit)
	if err != nil {
		return "", err
	}
	if len(prospects) == 0 {
		return "No prospects yet. Start a campaign with targeting criteria and I'll find some.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your most recent prospects:\n")
	for _, p := range prospects {
		line := p.DisplayName()
		if p.JobTitle != "" {
			line += " — " + p.JobTitle
		}
		if p.Company != "" {
			line += " @ " + p.Company
		}
		fmt.Fprintf(&b, "\n• %s (%s)", line, p.ConnectionStatus)
	}
	return b.String(), nil
}

func (d *Dispatcher) addProspects(ctx context.Context, req Request) (string, error) {
	campaign, msg, err := d.resolveCampaign(ctx, req.UserID, req.Entities)
	if err != nil {
		return "", err
	}
	if msg != "" {
		return msg, nil
	}

	account, err := d.db.GetActiveAccountForUser(ctx, req.UserID)
	if err != nil {
		if isNotFound(err) {
			return "You need a connected LinkedIn account first. Say \"connect my LinkedIn\" to set one up.", nil
		}
		return "", err
	}

	discovered, err := d.engine.DiscoverProspects(ctx, account, campaign)
	if err != nil {
		return "", err
	}
	if discovered == 0 {
		return fmt.Sprintf("I didn't find any new prospects for %q this time. They may all be in the campaign already.", campaign.Name), nil
	}
	return fmt.Sprintf("Added %d new prospect(s) to %q. They're queued for outreach.", discovered, campaign.Name), nil
}

func (d *Dispatcher) connectLinkedIn(ctx context.Context, req Request) (string, error) {
	account, err := d.db.GetActiveAccountForUser(ctx, req.UserID)
	if err == nil {
		name := account.DisplayName
		if name == "" {
			name = "your account"
		}
		return fmt.Sprintf("You already have %s connected and active.", name), nil
	}
	if !isNotFound(err) {
		return "", err
	}

	return "To connect your LinkedIn account, open Settings → Integrations and follow the LinkedIn linking flow. I'll pick it up automatically once it's active.", nil
}

func (d *Dispatcher) linkedInStatus(ctx context.Context, req Request) (string, error) {
	accounts, err := d.db.GetAccountsByUserID(ctx, req.UserID)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "No LinkedIn account connected yet. Say \"connect my LinkedIn\" to set one up.", nil
	}

	var b strings.Builder
	for _, a := range accounts {
		name := a.DisplayName
		if name == "" {
			name = a.RemoteAccountID
		}
		fmt.Fprintf(&b, "• %s — %s", name, a.Status)
		if a.RequiresCheckpoint() {
			fmt.Fprintf(&b, " (verification required: %s)", a.CheckpointType)
		}
		if a.LastSyncedAt != nil {
			fmt.Fprintf(&b, ", last synced %s", a.LastSyncedAt.Format("Jan 2 15:04"))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (d *Dispatcher) pendingActions(ctx context.Context, req Request) (string, error) {
	actions, err := d.engine.PendingActions(ctx, req.UserID, listLimit)
	if err != nil {
		return "", err
	}
	if len(actions) == 0 {
		return "No actions waiting for approval.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d action(s) waiting for your approval:\n", len(actions))
	for _, a := range actions {
		fmt.Fprintf(&b, "\n• %s", describeAction(a))
	}
	b.WriteString("\n\nSay \"approve all\" or \"deny all\" to decide.")
	return b.String(), nil
}

func (d *Dispatcher) approveActions(ctx context.Context, req Request) (string, error) {
	actions, err := d.engine.PendingActions(ctx, req.UserID, listLimit)
	if err != nil {
		return "", err
	}
	if len(actions) == 0 {
		return "No actions waiting for approval.", nil
	}

	result := d.engine.ApproveActions(ctx, actions)
	text := fmt.Sprintf("Approved %d action(s); %d executed.", result.Approved, result.Executed)
	if result.Failed > 0 {
		text += fmt.Sprintf(" %d failed and will stay available for retry.", result.Failed)
	}
	return text, nil
}

func (d *Dispatcher) denyActions(ctx context.Context, req Request) (string, error) {
	actions, err := d.engine.PendingActions(ctx, req.UserID, listLimit)
	if err != nil {
		return "", err
	}
	if len(actions) == 0 {
		return "No actions waiting for approval.", nil
	}

	denied := d.engine.DenyActions(ctx, actions)
	return fmt.Sprintf("Denied %d action(s). Nothing was sent.", denied), nil
}

func (d *Dispatcher) help(ctx context.Context, req Request) (string, error) {
	return helpReply, nil
}

func (d *Dispatcher) generalQuestion(ctx context.Context, req Request) (string, error) {
	return "I handle LinkedIn outreach: campaigns, prospect discovery, connection requests, follow-ups and approvals. Say \"help\" for the full list of things I can do.", nil
}

func describeAction(a *models.PendingAction) string {
	target := a.ProspectName
	if target == "" {
		target = "a prospect"
	}
	switch a.ActionType {
	case models.ActionSendConnection:
		return fmt.Sprintf("Connection request to %s (%s)", target, a.CampaignName)
	case models.ActionSendFollowUp:
		return fmt.Sprintf("Follow-up #%d to %s (%s)", a.FollowUpNumber, target, a.CampaignName)
	default:
		return fmt.Sprintf("Message to %s (%s)", target, a.CampaignName)
	}
}
