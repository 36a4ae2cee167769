package outreach

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reachkit/reachkit/internal/clock"
	"github.com/reachkit/reachkit/internal/database"
	"github.com/reachkit/reachkit/internal/gateway"
	"github.com/reachkit/reachkit/pkg/models"
)

// fakeGateway is an in-memory Gateway. Error fields make the matching call
// fail; slices record what was sent.
type fakeGateway struct {
	chats        []gateway.Chat
	messages     map[string][]gateway.Message
	profiles     []gateway.Profile
	accountState *gateway.AccountState

	connectionErr error
	messageErr    error
	chatsErr      error

	connectionsSent []string // profile ids
	messagesSent    []string // chat ids
	chatsStarted    []string // attendee ids
}

func (f *fakeGateway) ConnectWithCredentials(ctx context.Context, username, password string) (*gateway.AccountState, error) {
	return &gateway.AccountState{AccountID: "acc-" + username, Status: "OK"}, nil
}

func (f *fakeGateway) HostedAuthURL(ctx context.Context, redirectURL string, expiresAt time.Time) (string, string, error) {
	return "https://link.example.com/flow", "acc-hosted", nil
}

func (f *fakeGateway) GetAccountStatus(ctx context.Context, accountID string) (*gateway.AccountState, error) {
	if f.accountState != nil {
		return f.accountState, nil
	}
	return &gateway.AccountState{AccountID: accountID, Status: "OK"}, nil
}

func (f *fakeGateway) SolveCheckpoint(ctx context.Context, accountID, code string) error {
	return nil
}

func (f *fakeGateway) DisconnectAccount(ctx context.Context, accountID string) error {
	return nil
}

func (f *fakeGateway) SendConnectionRequest(ctx context.Context, accountID, profile, message string) error {
	if f.connectionErr != nil {
		return f.connectionErr
	}
	f.connectionsSent = append(f.connectionsSent, profile)
	return nil
}

func (f *fakeGateway) SearchProfiles(ctx context.Context, accountID, keywords string, limit int) ([]gateway.Profile, error) {
	if limit < len(f.profiles) {
		return f.profiles[:limit], nil
	}
	return f.profiles, nil
}

func (f *fakeGateway) GetChats(ctx context.Context, accountID string, limit int) ([]gateway.Chat, error) {
	if f.chatsErr != nil {
		return nil, f.chatsErr
	}
	return f.chats, nil
}

func (f *fakeGateway) GetChatMessages(ctx context.Context, chatID string, limit int) ([]gateway.Message, error) {
	return f.messages[chatID], nil
}

func (f *fakeGateway) SendMessage(ctx context.Context, chatID, text string) error {
	if f.messageErr != nil {
		return f.messageErr
	}
	f.messagesSent = append(f.messagesSent, chatID)
	return nil
}

func (f *fakeGateway) StartChat(ctx context.Context, accountID, attendeeID, text string) (string, error) {
	if f.messageErr != nil {
		return "", f.messageErr
	}
	f.chatsStarted = append(f.chatsStarted, attendeeID)
	return "chat-" + attendeeID, nil
}

type testEnv struct {
	svc   *Service
	db    *database.DB
	gw    *fakeGateway
	clock *clock.Fixed
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	gw := &fakeGateway{messages: make(map[string][]gateway.Message)}
	clk := &clock.Fixed{T: time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)}

	svc := New(Deps{
		DB:      db,
		Gateway: gw,
		Clock:   clk,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &testEnv{svc: svc, db: db, gw: gw, clock: clk}
}

func (e *testEnv) createAccount(t *testing.T, userID string) *models.LinkedAccount {
	t.Helper()
	account := &models.LinkedAccount{
		UserID:          userID,
		RemoteAccountID: "remote-" + userID,
		ProfileID:       "self-" + userID,
		Status:          models.AccountActive,
	}
	require.NoError(t, e.db.CreateAccount(context.Background(), account))
	return account
}

func (e *testEnv) createCampaign(t *testing.T, userID string, mutate func(*models.Campaign)) *models.Campaign {
	t.Helper()
	campaign := &models.Campaign{
		UserID:               userID,
		Name:                 "Q3 outreach",
		Status:               models.CampaignActive,
		JobTitles:            models.StringList{"CTO"},
		ConnectionMessage:    "Hi, let's connect",
		FollowUpMessage1:     "Following up",
		FollowUpMessage2:     "Still interested?",
		FollowUpMessage3:     "Last check-in",
		FollowUpDelayDays2:   4,
		FollowUpDelayDays3:   7,
		DailyConnectionLimit: 10,
		DailyMessageLimit:    10,
	}
	if mutate != nil {
		mutate(campaign)
	}
	require.NoError(t, e.db.CreateCampaign(context.Background(), campaign))
	return campaign
}

func (e *testEnv) createProspect(t *testing.T, userID, profileID string) *models.Prospect {
	t.Helper()
	prospect := &models.Prospect{
		UserID:           userID,
		ProfileID:        profileID,
		FullName:         "Prospect " + profileID,
		ConnectionStatus: models.ConnectionNone,
		Source:           "search",
	}
	require.NoError(t, e.db.CreateProspect(context.Background(), prospect))
	return prospect
}

func (e *testEnv) enqueue(t *testing.T, campaignID, prospectID string) *models.CampaignProspect {
	t.Helper()
	cp := &models.CampaignProspect{
		CampaignID: campaignID,
		ProspectID: prospectID,
		Status:     models.StatusQueued,
	}
	require.NoError(t, e.db.CreateCampaignProspect(context.Background(), cp))
	return cp
}

func (e *testEnv) setAutopilot(t *testing.T, userID string, enabled bool) *models.UserSettings {
	t.Helper()
	require.NoError(t, e.db.SetAutopilot(context.Background(), userID, enabled))
	settings, err := e.db.GetSettingsForUser(context.Background(), userID)
	require.NoError(t, err)
	return settings
}

func (e *testEnv) activityCount(t *testing.T, userID string) int {
	t.Helper()
	n, err := e.db.CountActivity(context.Background(), userID)
	require.NoError(t, err)
	return n
}

func (e *testEnv) queueProspects(t *testing.T, campaign *models.Campaign, n int) []*models.Prospect {
	t.Helper()
	var prospects []*models.Prospect
	for i := 0; i < n; i++ {
		p := e.createProspect(t, campaign.UserID, fmt.Sprintf("prof-%d", i))
		e.enqueue(t, campaign.ID, p.ID)
		prospects = append(prospects, p)
	}
	return prospects
}
