package scoring

import "trueflow/internal/domain"

// Bucket thresholds.
const (
	hotThreshold  = 70
	warmThreshold = 40
)

// Score maps a lead to a 0-100 qualification score. Pure and deterministic:
// same lead, same score. Each signal only ever adds, so improving any single
// answer never lowers the result.
func Score(lead *domain.Lead) int {
	var score int
	switch lead.FormType {
	case domain.FormTypeAssessment:
		score = assessmentScore(lead)
	default:
		score = getStartedScore(lead)
	}
	return clamp(score)
}

// Bucket turns a score into a qualification: hot >= 70, warm >= 40.
func Bucket(score int) domain.Qualification {
	switch {
	case score >= hotThreshold:
		return domain.QualificationHot
	case score >= warmThreshold:
		return domain.QualificationWarm
	default:
		return domain.QualificationCold
	}
}

// assessmentScore starts from the quiz's own percentage and rewards answers
// that signal readiness to buy.
func assessmentScore(lead *domain.Lead) int {
	score := lead.AssessmentScore

	switch lead.Answers["budget"] {
	case "high":
		score += 10
	case "medium":
		score += 5
	}

	if lead.Answers["timeline"] == "immediate" {
		score += 10
	}

	score += teamSizeBonus(lead.TeamSize)

	return score
}

var planBase = map[string]int{
	"starter":      50,
	"professional": 60,
	"enterprise":   70,
}

// Business categories that historically convert best.
var serviceBusinessTypes = map[string]bool{
	"Real Estate":   true,
	"Insurance":     true,
	"Home Services": true,
	"Legal":         true,
}

// getStartedScore starts from a plan-indexed base and adds fixed bonuses
// for team size, lead volume, tool adoption, and business category.
func getStartedScore(lead *domain.Lead) int {
	score, ok := planBase[lead.PricingPlan]
	if !ok {
		score = 50
	}

	score += teamSizeBonus(lead.TeamSize)

	switch lead.MonthlyLeads {
	case "51-100":
		score += 5
	case "100+":
		score += 10
	}

	toolBonus := 2 * len(lead.CurrentTools)
	if toolBonus > 10 {
		toolBonus = 10
	}
	score += toolBonus

	if serviceBusinessTypes[lead.BusinessType] {
		score += 5
	}

	return score
}

func teamSizeBonus(teamSize string) int {
	switch teamSize {
	case "2-5":
		return 5
	case "6-10":
		return 10
	case "10+":
		return 15
	}
	return 0
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
