package outreach

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reachkit/reachkit/internal/gateway"
	"github.com/reachkit/reachkit/pkg/models"
)

func TestSyncAccountMarksConnectionAccepted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.createAccount(t, "user-1")
	campaign := env.createCampaign(t, "user-1", nil)
	prospect := env.createProspect(t, "user-1", "prof-1")
	require.NoError(t, env.db.UpdateProspectConnectionStatus(ctx, prospect.ID, models.ConnectionPending))

	cp := env.enqueue(t, campaign.ID, prospect.ID)
	sentAt := env.clock.Now().Add(-48 * time.Hour)
	cp.Status = models.StatusConnectionSent
	cp.ConnectionSentAt = &sentAt
	require.NoError(t, env.db.UpdateCampaignProspect(ctx, cp))

	env.gw.chats = []gateway.Chat{{
		ID:        "chat-1",
		Attendees: []gateway.Attendee{{ProviderID: "self-user-1"}, {ProviderID: "prof-1"}},
	}}

	result, err := env.svc.SyncAccount(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ConnectionsAccepted)
	assert.Equal(t, 0, result.RepliesProcessed)

	updated, err := env.db.GetProspectByID(ctx, prospect.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionConnected, updated.ConnectionStatus)

	row, err := env.db.GetCampaignProspect(ctx, campaign.ID, prospect.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConnectionAccepted, row.Status)
	require.NotNil(t, row.ConnectionAcceptedAt)
	require.NotNil(t, row.NextFollowUpAt)
	assert.WithinDuration(t, env.clock.Now().AddDate(0, 0, 3), *row.NextFollowUpAt, time.Minute)

	fresh, err := env.db.GetCampaignByID(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.ConnectionsAccepted)
}

func TestSyncAccountProcessesReply(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.createAccount(t, "user-1")
	campaign := env.createCampaign(t, "user-1", nil)
	prospect := env.createProspect(t, "user-1", "prof-1")
	require.NoError(t, env.db.UpdateProspectConnectionStatus(ctx, prospect.ID, models.ConnectionConnected))

	cp := env.enqueue(t, campaign.ID, prospect.ID)
	followUpAt := env.clock.Now().Add(24 * time.Hour)
	cp.Status = models.StatusConnectionAccepted
	cp.NextFollowUpAt = &followUpAt
	require.NoError(t, env.db.UpdateCampaignProspect(ctx, cp))

	env.gw.chats = []gateway.Chat{{
		ID:        "chat-1",
		Attendees: []gateway.Attendee{{ProviderID: "self-user-1"}, {ProviderID: "prof-1"}},
	}}
	env.gw.messages["chat-1"] = []gateway.Message{{
		ID:        "msg-1",
		ChatID:    "chat-1",
		SenderID:  "self-user-1",
		Text:      "Thanks for reaching out, let's talk",
		Timestamp: env.clock.Now().Add(-time.Hour),
	}}

	activityBefore := env.activityCount(t, "user-1")

	result, err := env.svc.SyncAccount(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RepliesProcessed)

	row, err := env.db.GetCampaignProspect(ctx, campaign.ID, prospect.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReplied, row.Status)
	require.NotNil(t, row.LastReplyAt)
	assert.Nil(t, row.NextFollowUpAt)

	fresh, err := env.db.GetCampaignByID(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.RepliesReceived)
	assert.Equal(t, activityBefore+1, env.activityCount(t, "user-1"))
}

func TestSyncAccountIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.createAccount(t, "user-1")
	campaign := env.createCampaign(t, "user-1", nil)
	prospect := env.createProspect(t, "user-1", "prof-1")
	require.NoError(t, env.db.UpdateProspectConnectionStatus(ctx, prospect.ID, models.ConnectionPending))

	cp := env.enqueue(t, campaign.ID, prospect.ID)
	cp.Status = models.StatusConnectionSent
	require.NoError(t, env.db.UpdateCampaignProspect(ctx, cp))

	env.gw.chats = []gateway.Chat{{
		ID:        "chat-1",
		Attendees: []gateway.Attendee{{ProviderID: "prof-1"}},
	}}
	env.gw.messages["chat-1"] = []gateway.Message{{
		ID:        "msg-1",
		ChatID:    "chat-1",
		SenderID:  "self-user-1",
		Text:      "Sounds good",
		Timestamp: env.clock.Now().Add(-time.Hour),
	}}

	first, err := env.svc.SyncAccount(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ConnectionsAccepted)
	assert.Equal(t, 1, first.RepliesProcessed)

	activityAfterFirst := env.activityCount(t, "user-1")

	second, err := env.svc.SyncAccount(ctx, account)
	require.NoError(t, err)
	assert.Zero(t, second.ConnectionsAccepted)
	assert.Zero(t, second.RepliesProcessed)
	assert.Equal(t, activityAfterFirst, env.activityCount(t, "user-1"))

	fresh, err := env.db.GetCampaignByID(ctx, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.ConnectionsAccepted)
	assert.Equal(t, 1, fresh.RepliesReceived)
}

func TestSyncAccountSkipsProspectOwnMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.createAccount(t, "user-1")
	campaign := env.createCampaign(t, "user-1", nil)
	prospect := env.createProspect(t, "user-1", "prof-1")
	require.NoError(t, env.db.UpdateProspectConnectionStatus(ctx, prospect.ID, models.ConnectionConnected))

	cp := env.enqueue(t, campaign.ID, prospect.ID)
	cp.Status = models.StatusConnectionAccepted
	require.NoError(t, env.db.UpdateCampaignProspect(ctx, cp))

	env.gw.chats = []gateway.Chat{{
		ID:        "chat-1",
		Attendees: []gateway.Attendee{{ProviderID: "prof-1"}},
	}}
	env.gw.messages["chat-1"] = []gateway.Message{{
		ID:        "msg-1",
		ChatID:    "chat-1",
		SenderID:  "prof-1",
		Text:      "outbound copy",
		Timestamp: env.clock.Now().Add(-time.Hour),
	}}

	result, err := env.svc.SyncAccount(ctx, account)
	require.NoError(t, err)
	assert.Zero(t, result.RepliesProcessed)

	row, err := env.db.GetCampaignProspect(ctx, campaign.ID, prospect.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConnectionAccepted, row.Status)
}

func TestSyncAccountStampsSyncTimeOnGatewayFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.createAccount(t, "user-1")
	env.gw.chatsErr = errors.New("gateway down")

	_, err := env.svc.SyncAccount(ctx, account)
	require.Error(t, err)

	fresh, err := env.db.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh.LastSyncedAt)
	assert.WithinDuration(t, env.clock.Now(), *fresh.LastSyncedAt, time.Minute)
}

func TestTruncatePreviewKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("é", previewLength+50)
	got := truncatePreview(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", previewLength), got)

	short := "a quick reply"
	assert.Equal(t, short, truncatePreview(short))
}
