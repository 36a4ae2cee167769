// Package gateway is a thin client over the messaging platform's HTTP API:
// account linking, checkpoint handling, profile search, chats and messages,
// and connection requests.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is a messaging-platform API client. Credentials are per user: each
// client instance carries one API key and provider domain.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config for the gateway client
type Config struct {
	Domain string // e.g. api1.example-provider.com
	APIKey string
}

// AccountState is the remote view of a linked account
type AccountState struct {
	AccountID      string
	Status         string // e.g. "OK", "ERROR", "not_found"
	CheckpointType string // set when a verification challenge is pending
	ProfileID      string
	ProfileURL     string
	DisplayName    string
	Email          string
}

// Profile is one person returned by a people search
type Profile struct {
	ProviderID string `json:"provider_id"`
	ProfileURL string `json:"profile_url"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	FullName   string `json:"name"`
	Headline   string `json:"headline"`
	Company    string `json:"company"`
	JobTitle   string `json:"job_title"`
	Location   string `json:"location"`
}

// Attendee is one participant of a chat
type Attendee struct {
	ProviderID string `json:"provider_id"`
	Name       string `json:"name"`
}

// Chat is one conversation on the platform
type Chat struct {
	ID        string     `json:"id"`
	Attendees []Attendee `json:"attendees"`
}

// Message is one message within a chat
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewClient creates a new gateway client
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: fmt.Sprintf("https://%s/api/v1", cfg.Domain),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do issues one authenticated JSON request and decodes the response into out.
// Any non-2xx status is an error.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apiError{status: resp.StatusCode, body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w (body: %s)", err, string(respBody))
		}
	}
	return nil
}

type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("API error: %s (status %d)", e.body, e.status)
}

// IsNotFound reports whether err is a remote 404
func IsNotFound(err error) bool {
	var apiErr *apiError
	return errors.As(err, &apiErr) && apiErr.status == http.StatusNotFound
}

// accountEnvelope mirrors the provider's account payload shape
type accountEnvelope struct {
	ID         string `json:"id"`
	AccountID  string `json:"account_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Status     string `json:"status"`
	Checkpoint struct {
		Type string `json:"type"`
	} `json:"checkpoint"`
	Sources []struct {
		Status     string `json:"status"`
		Checkpoint struct {
			Type string `json:"type"`
		} `json:"checkpoint"`
	} `json:"sources"`
	ConnectionParams struct {
		IM struct {
			ID               string `json:"id"`
			PublicIdentifier string `json:"publicIdentifier"`
		} `json:"im"`
	} `json:"connection_params"`
}

func (e *accountEnvelope) toState() *AccountState {
	state := &AccountState{
		AccountID:      e.AccountID,
		Status:         e.Status,
		CheckpointType: e.Checkpoint.Type,
		ProfileID:      e.ConnectionParams.IM.ID,
		DisplayName:    e.Name,
		Email:          e.Email,
	}
	if state.AccountID == "" {
		state.AccountID = e.ID
	}
	// Status and checkpoint live under sources[] on current provider versions
	if len(e.Sources) > 0 {
		if s := e.Sources[0].Status; s != "" {
			state.Status = s
		}
		if state.CheckpointType == "" {
			state.CheckpointType = e.Sources[0].Checkpoint.Type
		}
	}
	if pub := e.ConnectionParams.IM.PublicIdentifier; pub != "" {
		state.ProfileURL = "https://www.linkedin.com/in/" + pub
	}
	return state
}

// ConnectWithCredentials links an account using username/password. A
// checkpoint type in the returned state means the platform raised a
// verification challenge that must be solved before the account is usable.
func (c *Client) ConnectWithCredentials(ctx context.Context, username, password string) (*AccountState, error) {
	payload := map[string]any{
		"provider": "LINKEDIN",
		"username": username,
		"password": password,
	}

	var envelope accountEnvelope
	if err := c.do(ctx, http.MethodPost, "/accounts", payload, &envelope); err != nil {
		return nil, fmt.Errorf("connect with credentials: %w", err)
	}

	state := envelope.toState()
	if state.Status == "" {
		state.Status = "pending"
	}
	return state, nil
}

// HostedAuthURL requests a hosted linking flow URL for the user
func (c *Client) HostedAuthURL(ctx context.Context, redirectURL string, expiresAt time.Time) (authURL, accountID string, err error) {
	payload := map[string]any{
		"type":                 "create",
		"providers":            []string{"LINKEDIN"},
		"api_url":              c.baseURL,
		"success_redirect_url": redirectURL,
		"expiresOn":            expiresAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}

	var resp struct {
		URL       string `json:"url"`
		AccountID string `json:"account_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/hosted/accounts/link", payload, &resp); err != nil {
		return "", "", fmt.Errorf("hosted auth url: %w", err)
	}
	return resp.URL, resp.AccountID, nil
}

// GetAccountStatus fetches the remote state of an account. A deleted remote
// account comes back with Status "not_found" rather than an error so callers
// can clean up the local record.
func (c *Client) GetAccountStatus(ctx context.Context, accountID string) (*AccountState, error) {
	var envelope accountEnvelope
	err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID), nil, &envelope)
	if IsNotFound(err) {
		return &AccountState{AccountID: accountID, Status: "not_found"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account status: %w", err)
	}

	state := envelope.toState()
	if state.Status == "" {
		state.Status = "unknown"
	}
	if state.AccountID == "" {
		state.AccountID = accountID
	}
	return state, nil
}

// SolveCheckpoint submits a verification code for a pending checkpoint
func (c *Client) SolveCheckpoint(ctx context.Context, accountID, code string) error {
	payload := map[string]string{"code": code}
	if err := c.do(ctx, http.MethodPost, "/accounts/"+url.PathEscape(accountID)+"/checkpoint", payload, nil); err != nil {
		return fmt.Errorf("solve checkpoint: %w", err)
	}
	return nil
}

// DisconnectAccount deletes the account link on the platform
func (c *Client) DisconnectAccount(ctx context.Context, accountID string) error {
	if err := c.do(ctx, http.MethodDelete, "/accounts/"+url.PathEscape(accountID), nil, nil); err != nil {
		return fmt.Errorf("disconnect account: %w", err)
	}
	return nil
}

// SendConnectionRequest sends an invitation to connect, with an optional note
func (c *Client) SendConnectionRequest(ctx context.Context, accountID, profile, message string) error {
	payload := map[string]any{
		"account_id":   accountID,
		"linkedin_url": profile,
	}
	if message != "" {
		payload["message"] = message
	}
	if err := c.do(ctx, http.MethodPost, "/users/invite", payload, nil); err != nil {
		return fmt.Errorf("send connection request: %w", err)
	}
	return nil
}

// SearchProfiles runs a people search scoped to the account
func (c *Client) SearchProfiles(ctx context.Context, accountID, keywords string, limit int) ([]Profile, error) {
	payload := map[string]any{
		"account_id": accountID,
		"keywords":   keywords,
		"limit":      limit,
	}

	var resp struct {
		Items []Profile `json:"items"`
	}
	if err := c.do(ctx, http.MethodPost, "/linkedin/search/people", payload, &resp); err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	return resp.Items, nil
}

// GetProfile fetches one profile by URL
func (c *Client) GetProfile(ctx context.Context, accountID, profileURL string) (*Profile, error) {
	query := url.Values{
		"account_id":   {accountID},
		"linkedin_url": {profileURL},
	}

	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/users/profile?"+query.Encode(), nil, &profile); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// GetChats lists the account's conversations, most recent first
func (c *Client) GetChats(ctx context.Context, accountID string, limit int) ([]Chat, error) {
	query := url.Values{
		"account_id": {accountID},
		"limit":      {strconv.Itoa(limit)},
	}

	var resp struct {
		Items []Chat `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/chats?"+query.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("get chats: %w", err)
	}
	return resp.Items, nil
}

// GetChatMessages lists recent messages of a chat
func (c *Client) GetChatMessages(ctx context.Context, chatID string, limit int) ([]Message, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}

	var resp struct {
		Items []Message `json:"items"`
	}
	path := "/chats/" + url.PathEscape(chatID) + "/messages?" + query.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get chat messages: %w", err)
	}
	return resp.Items, nil
}

// SendMessage posts a message into an existing chat
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	payload := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, "/chats/"+url.PathEscape(chatID)+"/messages", payload, nil); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// StartChat opens a new chat with an attendee and sends the first message.
// Returns the new chat id.
func (c *Client) StartChat(ctx context.Context, accountID, attendeeID, text string) (string, error) {
	payload := map[string]any{
		"account_id":    accountID,
		"attendees_ids": []string{attendeeID},
		"text":          text,
	}

	var resp struct {
		ChatID string `json:"chat_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/chats", payload, &resp); err != nil {
		return "", fmt.Errorf("start chat: %w", err)
	}
	return resp.ChatID, nil
}
