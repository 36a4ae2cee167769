package outreach

import (
	"context"
	"fmt"
	"strings"

	"github.com/reachkit/reachkit/internal/gateway"
	"github.com/reachkit/reachkit/pkg/models"
)

// searchResultsCap bounds one discovery search regardless of campaign limits
const searchResultsCap = 25

// placeholderValues are non-signal criteria values an assistant may have
// stored during onboarding; they never reach the search query
var placeholderValues = map[string]bool{
	"open": true, "any": true, "all": true, "none": true, "n/a": true,
	"na": true, "not_important": true, "not important": true,
	"no preference": true, "no_preference": true, "global": true,
	"anywhere": true, "skip": true, "skipped": true, "declined": true,
}

// DiscoverProspects searches the platform for people matching the campaign's
// targeting criteria and enqueues the new ones. Idempotent per campaign: a
// prospect already attached to the campaign is never enqueued again.
func (s *Service) DiscoverProspects(ctx context.Context, account *models.LinkedAccount, campaign *models.Campaign) (int, error) {
	keywords := buildSearchKeywords(campaign)
	if keywords == "" {
		s.logger.Info("no targeting criteria, skipping discovery", "campaign_id", campaign.ID)
		return 0, nil
	}

	limit := campaign.DailyConnectionLimit
	if limit > searchResultsCap {
		limit = searchResultsCap
	}

	profiles, err := s.gw.SearchProfiles(ctx, account.RemoteAccountID, keywords, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to search profiles: %w", err)
	}

	discovered := 0
	for _, profile := range profiles {
		if profile.ProviderID == "" && profile.ProfileURL == "" {
			continue
		}

		prospect, err := s.resolveProspect(ctx, campaign.UserID, profile)
		if err != nil {
			s.logger.Warn("failed to resolve prospect", "profile_id", profile.ProviderID, "error", err)
			continue
		}

		exists, err := s.db.CampaignProspectExists(ctx, campaign.ID, prospect.ID)
		if err != nil {
			return discovered, fmt.Errorf("failed to check campaign prospect: %w", err)
		}
		if exists {
			continue
		}

		cp := &models.CampaignProspect{
			CampaignID: campaign.ID,
			ProspectID: prospect.ID,
			Status:     models.StatusQueued,
		}
		if err := s.db.CreateCampaignProspect(ctx, cp); err != nil {
			return discovered, fmt.Errorf("failed to enqueue prospect: %w", err)
		}
		discovered++
	}

	if discovered > 0 {
		s.logActivity(ctx, campaign.UserID, campaign.ID, "", models.ActivityProspectsDiscovered,
			fmt.Sprintf("Discovered %d new prospects for campaign %q", discovered, campaign.Name))
	}

	s.logger.Info("discovery completed",
		"campaign_id", campaign.ID,
		"results", len(profiles),
		"discovered", discovered)

	return discovered, nil
}

// resolveProspect finds the user's prospect for this profile or creates one.
// The first record seen for a profile id wins on repeated searches.
func (s *Service) resolveProspect(ctx context.Context, userID string, profile gateway.Profile) (*models.Prospect, error) {
	existing, err := s.db.GetProspectByProfileID(ctx, userID, profile.ProviderID)
	if err == nil {
		return existing, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	firstName, lastName := profile.FirstName, profile.LastName
	if firstName == "" && profile.FullName != "" {
		parts := strings.SplitN(profile.FullName, " ", 2)
		firstName = parts[0]
		if len(parts) > 1 {
			lastName = parts[1]
		}
	}
	fullName := profile.FullName
	if fullName == "" {
		fullName = strings.TrimSpace(firstName + " " + lastName)
	}

	prospect := &models.Prospect{
		UserID:           userID,
		ProfileID:        profile.ProviderID,
		ProfileURL:       profile.ProfileURL,
		FirstName:        firstName,
		LastName:         lastName,
		FullName:         fullName,
		Headline:         profile.Headline,
		Company:          profile.Company,
		JobTitle:         profile.JobTitle,
		Location:         profile.Location,
		ConnectionStatus: models.ConnectionNone,
		Source:           "search",
	}
	if err := s.db.CreateProspect(ctx, prospect); err != nil {
		return nil, err
	}
	return prospect, nil
}

// buildSearchKeywords flattens the campaign's criteria into one search
// string: job titles OR-joined, then keywords, industries and locations.
// Returns "" when no usable criteria remain after placeholder filtering.
func buildSearchKeywords(campaign *models.Campaign) string {
	jobTitles := filterPlaceholders(campaign.JobTitles)
	keywords := filterPlaceholders(campaign.Keywords)
	industries := filterPlaceholders(campaign.Industries)
	locations := filterPlaceholders(campaign.Locations)

	var parts []string
	if len(jobTitles) > 0 {
		parts = append(parts, strings.Join(jobTitles, " OR "))
	}
	parts = append(parts, keywords...)
	parts = append(parts, industries...)
	parts = append(parts, locations...)

	return strings.Join(parts, " ")
}

func filterPlaceholders(values []string) []string {
	var out []string
	for _, v := range values {
		if !placeholderValues[strings.ToLower(strings.TrimSpace(v))] {
			out = append(out, v)
		}
	}
	return out
}
