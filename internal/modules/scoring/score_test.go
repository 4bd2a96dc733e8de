package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trueflow/internal/domain"
)

func getStartedLead() *domain.Lead {
	return &domain.Lead{
		FormType:     domain.FormTypeGetStarted,
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@x.com",
		BusinessName: "Acme",
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	lead := getStartedLead()
	lead.PricingPlan = "professional"
	lead.TeamSize = "6-10"

	first := Score(lead)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(lead))
	}
}

func TestScoreStaysInRange(t *testing.T) {
	leads := []*domain.Lead{
		getStartedLead(),
		{FormType: domain.FormTypeGetStarted},
		{
			FormType:     domain.FormTypeGetStarted,
			PricingPlan:  "enterprise",
			TeamSize:     "10+",
			MonthlyLeads: "100+",
			BusinessType: "Real Estate",
			CurrentTools: []string{"CRM", "SMS", "Email Marketing", "Call Tracking", "Spreadsheets", "Calendar Booking"},
		},
		{FormType: domain.FormTypeAssessment, AssessmentScore: 100, Answers: map[string]string{"budget": "high", "timeline": "immediate"}, TeamSize: "10+"},
		{FormType: domain.FormTypeAssessment, AssessmentScore: 0},
	}

	for _, lead := range leads {
		score := Score(lead)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestScoreMonotoneInTeamSize(t *testing.T) {
	sizes := []string{"", "1", "2-5", "6-10", "10+"}

	prev := -1
	for _, size := range sizes {
		lead := getStartedLead()
		lead.TeamSize = size
		score := Score(lead)
		assert.GreaterOrEqual(t, score, prev, "upgrading team size %q must not lower the score", size)
		prev = score
	}
}

func TestScoreMonotoneInMonthlyLeads(t *testing.T) {
	volumes := []string{"0-10", "11-50", "51-100", "100+"}

	prev := -1
	for _, volume := range volumes {
		lead := getStartedLead()
		lead.MonthlyLeads = volume
		score := Score(lead)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}

func TestGetStartedPlanBase(t *testing.T) {
	cases := map[string]int{
		"starter":      50,
		"professional": 60,
		"enterprise":   70,
		"unknown":      50,
		"":             50,
	}

	for plan, want := range cases {
		lead := getStartedLead()
		lead.PricingPlan = plan
		assert.Equal(t, want, Score(lead), "plan %q", plan)
	}
}

func TestAssessmentBonuses(t *testing.T) {
	lead := &domain.Lead{
		FormType:        domain.FormTypeAssessment,
		AssessmentScore: 60,
	}
	assert.Equal(t, 60, Score(lead))

	lead.Answers = map[string]string{"budget": "high"}
	assert.Equal(t, 70, Score(lead))

	lead.Answers["timeline"] = "immediate"
	assert.Equal(t, 80, Score(lead))

	lead.TeamSize = "6-10"
	assert.Equal(t, 90, Score(lead))
}

func TestHotEnterpriseLeadClampsAtHundred(t *testing.T) {
	lead := &domain.Lead{
		FormType:     domain.FormTypeGetStarted,
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@x.com",
		BusinessName: "Acme",
		PricingPlan:  "enterprise",
		TeamSize:     "10+",
		MonthlyLeads: "100+",
	}

	score := Score(lead)
	assert.Equal(t, 95, score)
	assert.Equal(t, domain.QualificationHot, Bucket(score))

	// Stacking every remaining signal pushes past 100 and clamps.
	lead.BusinessType = "Real Estate"
	lead.CurrentTools = []string{"CRM", "SMS", "Email Marketing"}
	assert.Equal(t, 100, Score(lead))
}

func TestBucketThresholds(t *testing.T) {
	assert.Equal(t, domain.QualificationCold, Bucket(0))
	assert.Equal(t, domain.QualificationCold, Bucket(39))
	assert.Equal(t, domain.QualificationWarm, Bucket(40))
	assert.Equal(t, domain.QualificationWarm, Bucket(69))
	assert.Equal(t, domain.QualificationHot, Bucket(70))
	assert.Equal(t, domain.QualificationHot, Bucket(100))
}
