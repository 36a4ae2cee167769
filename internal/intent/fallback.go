package intent

import (
	"regexp"
	"strings"
)

var (
	reCampaign  = regexp.MustCompile(`\b(campaign|campaigns)\b`)
	reCreate    = regexp.MustCompile(`\b(create|new|start|make|build)\b`)
	reList      = regexp.MustCompile(`\b(list|show|see|view|my)\b`)
	reStats     = regexp.MustCompile(`\b(stats|statistics|numbers|results|performance)\b`)
	reStart     = regexp.MustCompile(`\b(start|activate|run|launch)\b`)
	rePause     = regexp.MustCompile(`\b(pause|stop|halt)\b`)
	reProspects = regexp.MustCompile(`\b(prospect|prospects|lead|leads)\b`)
	reAdd       = regexp.MustCompile(`\b(add|import|upload)\b`)
	reLinkedIn  = regexp.MustCompile(`\b(linkedin|connect|connection)\b`)
	reStatus    = regexp.MustCompile(`\b(status|check|connected)\b`)
	reActions   = regexp.MustCompile(`\b(pending|approve|deny|reject|action|actions)\b`)
	reApprove   = regexp.MustCompile(`\b(approve|yes|confirm)\b`)
	reDeny      = regexp.MustCompile(`\b(deny|reject|no|cancel)\b`)
	reHelp      = regexp.MustCompile(`\b(help|what can you do|how|guide)\b`)
	reJobTitles = regexp.MustCompile(`(?i)\b(ceo|cto|cfo|coo|vp|director|manager|founder|owner)\b`)
)

// FallbackParse classifies a message by ordered keyword matching. Campaign
// keywords win over prospect keywords, which win over account-linking
// keywords, then pending-action keywords, then help.
func FallbackParse(message string) Result {
	lower := strings.ToLower(message)

	result := Result{Intent: IntentUnknown, Confidence: 0.5}

	switch {
	case reCampaign.MatchString(lower):
		switch {
		case reCreate.MatchString(lower):
			result.Intent = IntentCreateCampaign
			result.Confidence = 0.7
		case reList.MatchString(lower):
			result.Intent = IntentListCampaigns
			result.Confidence = 0.8
		case reStats.MatchString(lower):
			result.Intent = IntentCampaignStats
			result.Confidence = 0.7
		case reStart.MatchString(lower):
			result.Intent = IntentStartCampaign
			result.Confidence = 0.7
		case rePause.MatchString(lower):
			result.Intent = IntentPauseCampaign
			result.Confidence = 0.7
		}
	case reProspects.MatchString(lower):
		if reAdd.MatchString(lower) {
			result.Intent = IntentAddProspects
		} else {
			result.Intent = IntentListProspects
		}
		result.Confidence = 0.7
	case reLinkedIn.MatchString(lower):
		if reStatus.MatchString(lower) {
			result.Intent = IntentLinkedInStatus
		} else {
			result.Intent = IntentConnectLinkedIn
		}
		result.Confidence = 0.7
	case reActions.MatchString(lower):
		switch {
		case reApprove.MatchString(lower):
			result.Intent = IntentApproveActions
			result.Entities.ActionType = "approve"
		case reDeny.MatchString(lower):
			result.Intent = IntentDenyActions
			result.Entities.ActionType = "deny"
		default:
			result.Intent = IntentPendingActions
		}
		result.Confidence = 0.7
	case reHelp.MatchString(lower):
		result.Intent = IntentHelp
		result.Confidence = 0.9
	}

	result.Entities.JobTitles = extractJobTitles(message)

	return result
}

// extractJobTitles pulls job-title-like tokens out of the raw message,
// deduplicated and capitalized
func extractJobTitles(message string) []string {
	matches := reJobTitles.FindAllString(message, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	var titles []string
	for _, m := range matches {
		title := capitalize(m)
		if !seen[title] {
			seen[title] = true
			titles = append(titles, title)
		}
	}
	return titles
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
