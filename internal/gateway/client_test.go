package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := &Client{
		baseURL:    srv.URL + "/api/v1",
		apiKey:     "test-key",
		httpClient: srv.Client(),
	}
	return client, srv
}

func TestDoSetsAuthHeaders(t *testing.T) {
	var gotKey, gotAccept string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, `{"items":[]}`)
	}))
	defer srv.Close()

	_, err := client.GetChats(context.Background(), "acc-1", 10)
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "application/json", gotAccept)
}

func TestGetAccountStatusMapsEnvelope(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/accounts/acc-1", r.URL.Path)
		fmt.Fprint(w, `{
			"id": "acc-1",
			"name": "Pat Example",
			"status": "",
			"sources": [{"status": "OK", "checkpoint": {"type": ""}}],
			"connection_params": {"im": {"id": "self-1", "publicIdentifier": "pat-example"}}
		}`)
	}))
	defer srv.Close()

	state, err := client.GetAccountStatus(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", state.AccountID)
	assert.Equal(t, "OK", state.Status)
	assert.Equal(t, "self-1", state.ProfileID)
	assert.Equal(t, "https://www.linkedin.com/in/pat-example", state.ProfileURL)
	assert.Equal(t, "Pat Example", state.DisplayName)
}

func TestGetAccountStatusNotFound(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no such account"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	state, err := client.GetAccountStatus(context.Background(), "gone")
	require.NoError(t, err)
	assert.Equal(t, "not_found", state.Status)
	assert.Equal(t, "gone", state.AccountID)
}

func TestConnectWithCredentialsCheckpoint(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "LINKEDIN", payload["provider"])
		fmt.Fprint(w, `{"account_id": "acc-1", "checkpoint": {"type": "2FA"}}`)
	}))
	defer srv.Close()

	state, err := client.ConnectWithCredentials(context.Background(), "person@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", state.AccountID)
	assert.Equal(t, "2FA", state.CheckpointType)
	assert.Equal(t, "pending", state.Status)
}

func TestSearchProfiles(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/linkedin/search/people", r.URL.Path)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "CTO Berlin", payload["keywords"])
		assert.Equal(t, float64(5), payload["limit"])
		fmt.Fprint(w, `{"items": [{"provider_id": "prof-1", "name": "Ada Lovelace", "job_title": "CTO"}]}`)
	}))
	defer srv.Close()

	profiles, err := client.SearchProfiles(context.Background(), "acc-1", "CTO Berlin", 5)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "prof-1", profiles[0].ProviderID)
	assert.Equal(t, "Ada Lovelace", profiles[0].FullName)
}

func TestStartChatReturnsChatID(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, []any{"prof-1"}, payload["attendees_ids"])
		assert.Equal(t, "hello", payload["text"])
		fmt.Fprint(w, `{"chat_id": "chat-9"}`)
	}))
	defer srv.Close()

	chatID, err := client.StartChat(context.Background(), "acc-1", "prof-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "chat-9", chatID)
}

func TestGetProfileByURL(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/profile", r.URL.Path)
		assert.Equal(t, "https://www.linkedin.com/in/ada", r.URL.Query().Get("linkedin_url"))
		fmt.Fprint(w, `{"provider_id": "prof-1", "name": "Ada Lovelace", "headline": "CTO at Engine Co"}`)
	}))
	defer srv.Close()

	profile, err := client.GetProfile(context.Background(), "acc-1", "https://www.linkedin.com/in/ada")
	require.NoError(t, err)
	assert.Equal(t, "prof-1", profile.ProviderID)
	assert.Equal(t, "CTO at Engine Co", profile.Headline)
}

func TestAPIErrorSurfacesStatusAndBody(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := client.SendMessage(context.Background(), "chat-1", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
	assert.False(t, IsNotFound(err))
}

func TestIsNotFoundMatchesWrappedErrors(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such chat", http.StatusNotFound)
	}))
	defer srv.Close()

	err := client.SendMessage(context.Background(), "chat-gone", "hi")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("sending follow-up: %w", err)))
	assert.False(t, IsNotFound(errors.New("no such chat")))
}

func TestGetChatMessagesParsesTimestamps(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [{"id": "msg-1", "sender_id": "prof-1", "text": "hi", "timestamp": "2025-06-10T09:30:00Z"}]}`)
	}))
	defer srv.Close()

	messages, err := client.GetChatMessages(context.Background(), "chat-1", 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC), messages[0].Timestamp)
}
