// Package outreach implements the campaign engine: prospect discovery,
// throttled connection/follow-up sending, the pending-action approval queue,
// account linking and the sync pass that reconciles local state with the
// messaging platform.
package outreach

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/reachkit/reachkit/internal/clock"
	"github.com/reachkit/reachkit/internal/database"
	"github.com/reachkit/reachkit/internal/gateway"
	"github.com/reachkit/reachkit/pkg/models"
)

// Gateway is the messaging-platform surface the engine depends on
type Gateway interface {
	ConnectWithCredentials(ctx context.Context, username, password string) (*gateway.AccountState, error)
	HostedAuthURL(ctx context.Context, redirectURL string, expiresAt time.Time) (authURL, accountID string, err error)
	GetAccountStatus(ctx context.Context, accountID string) (*gateway.AccountState, error)
	SolveCheckpoint(ctx context.Context, accountID, code string) error
	DisconnectAccount(ctx context.Context, accountID string) error
	SendConnectionRequest(ctx context.Context, accountID, profile, message string) error
	SearchProfiles(ctx context.Context, accountID, keywords string, limit int) ([]gateway.Profile, error)
	GetChats(ctx context.Context, accountID string, limit int) ([]gateway.Chat, error)
	GetChatMessages(ctx context.Context, chatID string, limit int) ([]gateway.Message, error)
	SendMessage(ctx context.Context, chatID, text string) error
	StartChat(ctx context.Context, accountID, attendeeID, text string) (string, error)
}

// chatPageSize bounds how many chats one lookup or sync pass scans
const chatPageSize = 50

// Service dependencies
type Deps struct {
	DB            *database.DB
	Gateway       Gateway
	Clock         clock.Clock
	Logger        *slog.Logger
	ChatScanLimit int // chats per sync pass; defaults to chatPageSize
}

// Service is the outreach engine. All operations are synchronous; the caller
// is expected to serialize runs per campaign.
type Service struct {
	db        *database.DB
	gw        Gateway
	clock     clock.Clock
	logger    *slog.Logger
	chatLimit int
}

// New creates the outreach service
func New(deps Deps) *Service {
	c := deps.Clock
	if c == nil {
		c = clock.System{}
	}
	limit := deps.ChatScanLimit
	if limit <= 0 {
		limit = chatPageSize
	}
	return &Service{
		db:        deps.DB,
		gw:        deps.Gateway,
		clock:     c,
		logger:    deps.Logger.With("component", "outreach"),
		chatLimit: limit,
	}
}

// logActivity appends an audit record; failures are logged, never propagated
func (s *Service) logActivity(ctx context.Context, userID, campaignID, prospectID, activityType, description string) {
	entry := &models.ActivityEntry{
		UserID:       userID,
		CampaignID:   campaignID,
		ProspectID:   prospectID,
		ActivityType: activityType,
		Description:  description,
	}
	if err := s.db.LogActivity(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "activity_type", activityType, "error", err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

// findChatWith scans the account's recent chats for one whose attendees
// include the given profile id. Returns "" when none is found.
func (s *Service) findChatWith(ctx context.Context, remoteAccountID, profileID string) (string, error) {
	chats, err := s.gw.GetChats(ctx, remoteAccountID, chatPageSize)
	if err != nil {
		return "", err
	}
	for _, chat := range chats {
		for _, attendee := range chat.Attendees {
			if attendee.ProviderID == profileID {
				return chat.ID, nil
			}
		}
	}
	return "", nil
}

// deliverMessage sends text to the prospect identified by profileID, reusing
// an existing chat when one exists. Starting a new chat already carries the
// first message, so nothing is sent twice.
func (s *Service) deliverMessage(ctx context.Context, remoteAccountID, profileID, text string) error {
	chatID, err := s.findChatWith(ctx, remoteAccountID, profileID)
	if err != nil {
		return err
	}
	if chatID != "" {
		return s.gw.SendMessage(ctx, chatID, text)
	}
	_, err = s.gw.StartChat(ctx, remoteAccountID, profileID, text)
	return err
}
