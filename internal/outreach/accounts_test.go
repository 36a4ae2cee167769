package outreach

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reachkit/reachkit/internal/database"
	"github.com/reachkit/reachkit/internal/gateway"
	"github.com/reachkit/reachkit/pkg/models"
)

func TestMapRemoteStatus(t *testing.T) {
	tests := []struct {
		remote string
		want   models.AccountStatus
	}{
		{"OK", models.AccountActive},
		{"connected", models.AccountActive},
		{"ACTIVE", models.AccountActive},
		{"pending", models.AccountPending},
		{"connecting", models.AccountPending},
		{"disconnected", models.AccountDisconnected},
		{"error", models.AccountDisconnected},
		{"failed", models.AccountDisconnected},
		{"something_else", models.AccountPending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapRemoteStatus(tt.remote), "remote status %q", tt.remote)
	}
}

func TestLinkAccountCreatesRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account, err := env.svc.LinkAccount(ctx, "user-1", "person@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "acc-person@example.com", account.RemoteAccountID)
	assert.Equal(t, models.AccountActive, account.Status)

	stored, err := env.db.GetAccountByRemoteID(ctx, account.RemoteAccountID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", stored.UserID)
	assert.Equal(t, 1, env.activityCount(t, "user-1"))
}

func TestCompleteLinkingStoresProfileIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.gw.accountState = &gateway.AccountState{
		AccountID:   "acc-1",
		Status:      "OK",
		ProfileID:   "self-1",
		DisplayName: "Pat Example",
	}

	account, err := env.svc.CompleteLinking(ctx, "user-1", "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "self-1", account.ProfileID)
	assert.Equal(t, "Pat Example", account.DisplayName)
	assert.Equal(t, models.AccountActive, account.Status)
}

func TestHostedLinkURL(t *testing.T) {
	env := newTestEnv(t)

	url, err := env.svc.HostedLinkURL(context.Background(), "https://app.example.com/linked")
	require.NoError(t, err)
	assert.Equal(t, "https://link.example.com/flow", url)
}

func TestSolveAccountCheckpointRefreshesStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.createAccount(t, "user-1")
	account.Status = models.AccountPending
	account.CheckpointType = "2FA"
	require.NoError(t, env.db.UpdateAccountStatus(ctx, account.ID, account.Status, account.CheckpointType))

	// The fake reports OK once the code is accepted
	require.NoError(t, env.svc.SolveAccountCheckpoint(ctx, account, "123456"))
	assert.Equal(t, models.AccountActive, account.Status)
	assert.Empty(t, account.CheckpointType)

	stored, err := env.db.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AccountActive, stored.Status)
}

func TestRefreshAccountStatusChallenge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.createAccount(t, "user-1")
	env.gw.accountState = &gateway.AccountState{
		AccountID:      account.RemoteAccountID,
		Status:         "pending",
		CheckpointType: "2FA",
	}

	refreshed, err := env.svc.RefreshAccountStatus(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, models.AccountPending, refreshed.Status)
	assert.Equal(t, "2FA", refreshed.CheckpointType)
	assert.True(t, refreshed.RequiresCheckpoint())
}

func TestRefreshAccountStatusRemovesOrphan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.createAccount(t, "user-1")
	env.gw.accountState = &gateway.AccountState{
		AccountID: account.RemoteAccountID,
		Status:    "not_found",
	}

	refreshed, err := env.svc.RefreshAccountStatus(ctx, account)
	require.NoError(t, err)
	assert.Nil(t, refreshed)

	_, err = env.db.GetAccountByID(ctx, account.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUnlinkAccountDeletesRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.createAccount(t, "user-1")
	require.NoError(t, env.svc.UnlinkAccount(ctx, account))

	_, err := env.db.GetAccountByID(ctx, account.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Equal(t, 1, env.activityCount(t, "user-1"))
}
