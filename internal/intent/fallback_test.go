package intent

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackParseIntents(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		intent     Intent
		confidence float64
	}{
		{"create campaign", "create a new campaign for me", IntentCreateCampaign, 0.7},
		{"list campaigns", "show my campaigns", IntentListCampaigns, 0.8},
		{"campaign stats", "campaign performance numbers please", IntentCampaignStats, 0.7},
		{"pause campaign", "pause the campaign", IntentPauseCampaign, 0.7},
		{"list prospects", "show me the prospects", IntentListProspects, 0.7},
		{"add prospects", "add more leads", IntentAddProspects, 0.7},
		{"connect account", "connect my linkedin", IntentConnectLinkedIn, 0.7},
		{"account status", "is my linkedin connected? check status", IntentLinkedInStatus, 0.7},
		{"pending actions", "anything pending for me?", IntentPendingActions, 0.7},
		{"approve actions", "approve all pending actions", IntentApproveActions, 0.7},
		{"deny actions", "reject the pending actions", IntentDenyActions, 0.7},
		{"help", "help me out", IntentHelp, 0.9},
		{"unrelated", "what's the weather like", IntentUnknown, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FallbackParse(tt.message)
			assert.Equal(t, tt.intent, result.Intent)
			assert.InDelta(t, tt.confidence, result.Confidence, 0.001)
		})
	}
}

func TestFallbackParseCreateWinsOverList(t *testing.T) {
	// "create" and "my" both match; create is checked first
	result := FallbackParse("create my campaign")
	assert.Equal(t, IntentCreateCampaign, result.Intent)
}

func TestFallbackParseCampaignWinsOverProspects(t *testing.T) {
	result := FallbackParse("show campaign prospects")
	assert.Equal(t, IntentListCampaigns, result.Intent)
}

func TestFallbackParseActionType(t *testing.T) {
	approve := FallbackParse("yes, approve the pending actions")
	assert.Equal(t, "approve", approve.Entities.ActionType)

	deny := FallbackParse("deny those actions")
	assert.Equal(t, "deny", deny.Entities.ActionType)

	list := FallbackParse("show pending actions")
	assert.Empty(t, list.Entities.ActionType)
}

func TestExtractJobTitles(t *testing.T) {
	result := FallbackParse("target CTO and cto and founder profiles")
	assert.Equal(t, []string{"Cto", "Founder"}, result.Entities.JobTitles)

	none := FallbackParse("show my campaigns")
	assert.Nil(t, none.Entities.JobTitles)
}

func TestClassifyFallsBackWithoutAPIKey(t *testing.T) {
	c := NewClassifier("", "gpt-4o-mini", slog.New(slog.NewTextHandler(io.Discard, nil)))
	result := c.Classify(context.Background(), "show my campaigns")
	assert.Equal(t, IntentListCampaigns, result.Intent)
}
