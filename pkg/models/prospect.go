package models

import (
	"strings"
	"time"
)

// ConnectionStatus of a prospect on the messaging platform
type ConnectionStatus string

const (
	ConnectionNone      ConnectionStatus = "none"
	ConnectionPending   ConnectionStatus = "pending"
	ConnectionConnected ConnectionStatus = "connected"
)

// Prospect is a discovered person, unique per (user, profile id)
type Prospect struct {
	ID               string           `db:"id"`
	UserID           string           `db:"user_id"`
	ProfileID        string           `db:"profile_id"` // provider id on the messaging platform
	ProfileURL       string           `db:"profile_url"`
	FirstName        string           `db:"first_name"`
	LastName         string           `db:"last_name"`
	FullName         string           `db:"full_name"`
	Headline         string           `db:"headline"`
	Company          string           `db:"company"`
	JobTitle         string           `db:"job_title"`
	Location         string           `db:"location"`
	ConnectionStatus ConnectionStatus `db:"connection_status"`
	Source           string           `db:"source"` // e.g. "search", "manual"
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}

// DisplayName returns the best available human-readable name
func (p *Prospect) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name != "" {
		return name
	}
	return p.ProfileID
}

// ProspectStatus is the state of one prospect within one campaign's sequence
type ProspectStatus string

const (
	StatusQueued             ProspectStatus = "queued"
	StatusConnectionSent     ProspectStatus = "connection_sent"
	StatusConnectionAccepted ProspectStatus = "connection_accepted"
	StatusMessageSent        ProspectStatus = "message_sent"
	StatusReplied            ProspectStatus = "replied"
	StatusFailed             ProspectStatus = "failed"
)

// CampaignProspect drives one prospect through one campaign's outreach
// sequence: queued → connection_sent → connection_accepted → message_sent →
// replied, with failed reachable on send errors.
type CampaignProspect struct {
	ID                   string         `db:"id"`
	CampaignID           string         `db:"campaign_id"`
	ProspectID           string         `db:"prospect_id"`
	Status               ProspectStatus `db:"status"`
	ConnectionSentAt     *time.Time     `db:"connection_sent_at"`
	ConnectionAcceptedAt *time.Time     `db:"connection_accepted_at"`
	LastMessageSentAt    *time.Time     `db:"last_message_sent_at"`
	LastReplyAt          *time.Time     `db:"last_reply_at"`
	FollowUpCount        int            `db:"follow_up_count"`
	NextFollowUpAt       *time.Time     `db:"next_follow_up_at"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

// MaxFollowUps is the hard cap on follow-up messages per prospect
const MaxFollowUps = 3
