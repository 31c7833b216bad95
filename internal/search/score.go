package search

import "strings"

// baseScore is the starting fit score before any keyword contributes.
const baseScore = 40

// maxScore caps the fit score.
const maxScore = 100

// Score rates how well a listing fits the search profile: every configured
// keyword found in the title adds its weight, a target company adds 8, and a
// remote listing adds 5. The result is capped at 100.
func Score(title, company, location string, keywords map[string]int, targetCompanies []string) int {
	score := baseScore
	titleLower := strings.ToLower(title)
	companyLower := strings.ToLower(company)
	locationLower := strings.ToLower(location)

	for keyword, points := range keywords {
		if strings.Contains(titleLower, keyword) {
			score += points
		}
	}

	for _, target := range targetCompanies {
		if strings.Contains(companyLower, strings.ToLower(target)) {
			score += 8
			break
		}
	}

	if strings.Contains(locationLower, "remote") || strings.Contains(titleLower, "remote") {
		score += 5
	}

	if score > maxScore {
		return maxScore
	}
	return score
}

// DedupKey builds the identity key that keeps the same listing from being
// tracked twice across runs and queries.
func DedupKey(title, company string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(company))
}
