package outreach

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reachkit/reachkit/internal/gateway"
	"github.com/reachkit/reachkit/pkg/models"
)

func TestDiscoverProspectsEnqueuesNewMatches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.createAccount(t, "user-1")
	campaign := env.createCampaign(t, "user-1", nil)

	env.gw.profiles = []gateway.Profile{
		{ProviderID: "prof-1", FullName: "Ada Lovelace", JobTitle: "CTO"},
		{ProviderID: "prof-2", FirstName: "Grace", LastName: "Hopper"},
		{}, // no id, no url: skipped
	}

	discovered, err := env.svc.DiscoverProspects(ctx, account, campaign)
	require.NoError(t, err)
	assert.Equal(t, 2, discovered)

	queued, err := env.db.CountCampaignProspectsInStatuses(ctx, campaign.ID, models.StatusQueued)
	require.NoError(t, err)
	assert.Equal(t, 2, queued)

	prospect, err := env.db.GetProspectByProfileID(ctx, "user-1", "prof-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", prospect.FirstName)
	assert.Equal(t, "Lovelace", prospect.LastName)
	assert.Equal(t, "search", prospect.Source)
}

func TestDiscoverProspectsIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.createAccount(t, "user-1")
	campaign := env.createCampaign(t, "user-1", nil)

	env.gw.profiles = []gateway.Profile{
		{ProviderID: "prof-1", FullName: "Ada Lovelace"},
		{ProviderID: "prof-2", FullName: "Grace Hopper"},
	}

	first, err := env.svc.DiscoverProspects(ctx, account, campaign)
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	// Overlapping results on the second run add nothing
	env.gw.profiles = append(env.gw.profiles, gateway.Profile{ProviderID: "prof-3", FullName: "Edsger Dijkstra"})

	second, err := env.svc.DiscoverProspects(ctx, account, campaign)
	require.NoError(t, err)
	assert.Equal(t, 1, second)

	queued, err := env.db.CountCampaignProspectsInStatuses(ctx, campaign.ID, models.StatusQueued)
	require.NoError(t, err)
	assert.Equal(t, 3, queued)
}

func TestDiscoverProspectsSkipsWithoutCriteria(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.createAccount(t, "user-1")
	campaign := env.createCampaign(t, "user-1", func(c *models.Campaign) {
		c.JobTitles = nil
		c.Keywords = nil
		c.Industries = nil
		c.Locations = models.StringList{"anywhere", "N/A"}
	})

	env.gw.profiles = []gateway.Profile{{ProviderID: "prof-1"}}

	discovered, err := env.svc.DiscoverProspects(ctx, account, campaign)
	require.NoError(t, err)
	assert.Zero(t, discovered)

	queued, err := env.db.CountCampaignProspectsInStatuses(ctx, campaign.ID, models.StatusQueued)
	require.NoError(t, err)
	assert.Zero(t, queued)
}

func TestDiscoverProspectsRespectsSearchLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := env.createAccount(t, "user-1")
	campaign := env.createCampaign(t, "user-1", func(c *models.Campaign) {
		c.DailyConnectionLimit = 1
	})

	env.gw.profiles = []gateway.Profile{
		{ProviderID: "prof-1", FullName: "Ada Lovelace"},
		{ProviderID: "prof-2", FullName: "Grace Hopper"},
	}

	discovered, err := env.svc.DiscoverProspects(ctx, account, campaign)
	require.NoError(t, err)
	assert.Equal(t, 1, discovered)
}

func TestBuildSearchKeywords(t *testing.T) {
	campaign := &models.Campaign{
		JobTitles:  models.StringList{"CTO", "VP Engineering"},
		Keywords:   models.StringList{"saas"},
		Industries: models.StringList{"any"},
		Locations:  models.StringList{"Berlin"},
	}
	assert.Equal(t, "CTO OR VP Engineering saas Berlin", buildSearchKeywords(campaign))

	empty := &models.Campaign{Locations: models.StringList{"open", "skip"}}
	assert.Equal(t, "", buildSearchKeywords(empty))
}
