// Package intent turns free-text user instructions into a structured
// {intent, entities, confidence} result. The primary path asks a hosted
// language model; a deterministic keyword fallback covers the cases where
// that is unavailable or returns garbage.
package intent

// Intent is one of a fixed set of user intentions
type Intent string

const (
	IntentListCampaigns   Intent = "list_campaigns"
	IntentCreateCampaign  Intent = "create_campaign"
	IntentCampaignStats   Intent = "campaign_stats"
	IntentStartCampaign   Intent = "start_campaign"
	IntentPauseCampaign   Intent = "pause_campaign"
	IntentListProspects   Intent = "list_prospects"
	IntentAddProspects    Intent = "add_prospects"
	IntentConnectLinkedIn Intent = "connect_linkedin"
	IntentLinkedInStatus  Intent = "linkedin_status"
	IntentPendingActions  Intent = "pending_actions"
	IntentApproveActions  Intent = "approve_actions"
	IntentDenyActions     Intent = "deny_actions"
	IntentHelp            Intent = "help"
	IntentGeneralQuestion Intent = "general_question"
	IntentUnknown         Intent = "unknown"
)

// knownIntents guards against the model inventing intent names
var knownIntents = map[Intent]bool{
	IntentListCampaigns:   true,
	IntentCreateCampaign:  true,
	IntentCampaignStats:   true,
	IntentStartCampaign:   true,
	IntentPauseCampaign:   true,
	IntentListProspects:   true,
	IntentAddProspects:    true,
	IntentConnectLinkedIn: true,
	IntentLinkedInStatus:  true,
	IntentPendingActions:  true,
	IntentApproveActions:  true,
	IntentDenyActions:     true,
	IntentHelp:            true,
	IntentGeneralQuestion: true,
	IntentUnknown:         true,
}

// Valid reports whether i is a recognized intent tag
func (i Intent) Valid() bool {
	return knownIntents[i]
}

// Entities are the structured values extracted from a message
type Entities struct {
	CampaignName string   `json:"campaign_name,omitempty"`
	JobTitles    []string `json:"job_titles,omitempty"`
	Locations    []string `json:"locations,omitempty"`
	Count        int      `json:"count,omitempty"`
	ActionType   string   `json:"action_type,omitempty"` // "approve" or "deny"
}

// Result is the classified form of one user message
type Result struct {
	Intent     Intent
	Entities   Entities
	Confidence float64
}
