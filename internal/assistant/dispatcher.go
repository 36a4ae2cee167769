// Package assistant is the conversational front-end: it routes classified
// intents to handlers over the outreach engine and renders plain-text
// responses. Every path returns natural-language text, even on internal
// failure.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reachkit/reachkit/internal/database"
	"github.com/reachkit/reachkit/internal/intent"
	"github.com/reachkit/reachkit/internal/outreach"
	"github.com/reachkit/reachkit/pkg/models"
)

const errorReply = "I couldn't do that right now. Please try again in a moment."

const helpReply = `Here's what I can help you with:

• Campaigns — "show my campaigns", "create a campaign", "start Q3 outreach", "pause my campaign", "campaign stats"
• Prospects — "show my prospects", "add prospects to Q3 outreach"
• LinkedIn — "connect my LinkedIn", "linkedin status"
• Approvals — "show pending actions", "approve all", "deny all"

With autopilot off, every connection request and follow-up waits for your approval first.`

// Request is one classified user message plus its owner
type Request struct {
	UserID   string
	Message  string
	Entities intent.Entities
}

// handlerFunc produces the response text for one intent
type handlerFunc func(ctx context.Context, req Request) (string, error)

// Dispatcher routes intents to handlers
type Dispatcher struct {
	db       *database.DB
	engine   *outreach.Service
	logger   *slog.Logger
	handlers map[intent.Intent]handlerFunc
}

// New creates a dispatcher with the full handler map. Intents without a
// handler (and unrecognized tags) get the unknown-intent response rather
// than silently falling through.
func New(db *database.DB, engine *outreach.Service, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		db:     db,
		engine: engine,
		logger: logger.With("component", "assistant"),
	}
	d.handlers = map[intent.Intent]handlerFunc{
		intent.IntentListCampaigns:   d.listCampaigns,
		intent.IntentCreateCampaign:  d.createCampaign,
		intent.IntentCampaignStats:   d.campaignStats,
		intent.IntentStartCampaign:   d.startCampaign,
		intent.IntentPauseCampaign:   d.pauseCampaign,
		intent.IntentListProspects:   d.listProspects,
		intent.IntentAddProspects:    d.addProspects,
		intent.IntentConnectLinkedIn: d.connectLinkedIn,
		intent.IntentLinkedInStatus:  d.linkedInStatus,
		intent.IntentPendingActions:  d.pendingActions,
		intent.IntentApproveActions:  d.approveActions,
		intent.IntentDenyActions:     d.denyActions,
		intent.IntentHelp:            d.help,
		intent.IntentGeneralQuestion: d.generalQuestion,
	}
	return d
}

// Dispatch routes one classified message and always returns response text
func (d *Dispatcher) Dispatch(ctx context.Context, result intent.Result, req Request) string {
	handler, ok := d.handlers[result.Intent]
	if !ok {
		return "I'm not sure what you're asking for. Say \"help\" to see what I can do."
	}

	req.Entities = result.Entities
	text, err := handler(ctx, req)
	if err != nil {
		d.logger.Error("handler failed", "intent", result.Intent, "error", err)
		return errorReply
	}
	return text
}

// resolveCampaign picks the campaign named in the entities, or the user's
// only campaign when no name was given
func (d *Dispatcher) resolveCampaign(ctx context.Context, userID string, entities intent.Entities) (*models.Campaign, string, error) {
	if entities.CampaignName != "" {
		campaign, err := d.db.GetCampaignByName(ctx, userID, entities.CampaignName)
		if err != nil {
			if isNotFound(err) {
				return nil, fmt.Sprintf("I couldn't find a campaign named %q.", entities.CampaignName), nil
			}
			return nil, "", err
		}
		return campaign, "", nil
	}

	campaigns, err := d.db.GetCampaignsByUserID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	switch len(campaigns) {
	case 0:
		return nil, "You don't have any campaigns yet. Say \"create a campaign\" to get started.", nil
	case 1:
		return campaigns[0], "", nil
	default:
		var names []string
		for _, c := range campaigns {
			names = append(names, c.Name)
		}
		return nil, fmt.Sprintf("Which campaign do you mean? You have: %s.", strings.Join(names, ", ")), nil
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
