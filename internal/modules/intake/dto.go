package intake

import (
	"encoding/json"
	"strings"

	"trueflow/internal/domain"
)

// StringList accepts either a JSON array of strings or a single
// comma-separated string. The marketing site's older forms send the latter;
// downstream code always sees a list.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*s = trimmed(items)
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = trimmed(strings.Split(raw, ","))
	return nil
}

func trimmed(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// AssessmentRequest is the readiness-assessment result payload.
type AssessmentRequest struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	BusinessName string `json:"businessName"`
	BusinessType string `json:"businessType"`
	TeamSize     string `json:"teamSize"`
	MonthlyLeads string `json:"monthlyLeads"`

	// The quiz's own percentage result.
	Score   int               `json:"score" validate:"min=0,max=100"`
	Answers map[string]string `json:"answers"`
	Goals   StringList        `json:"goals"`

	Source string `json:"source"`
}

func (r *AssessmentRequest) toLead() *domain.Lead {
	return &domain.Lead{
		FormType:        domain.FormTypeAssessment,
		FirstName:       strings.TrimSpace(r.FirstName),
		LastName:        strings.TrimSpace(r.LastName),
		Email:           strings.TrimSpace(r.Email),
		Phone:           strings.TrimSpace(r.Phone),
		BusinessName:    strings.TrimSpace(r.BusinessName),
		BusinessType:    r.BusinessType,
		TeamSize:        r.TeamSize,
		MonthlyLeads:    r.MonthlyLeads,
		AssessmentScore: r.Score,
		Answers:         r.Answers,
		Goals:           r.Goals,
		Source:          r.Source,
	}
}

// GetStartedRequest is the "get started" signup form payload.
type GetStartedRequest struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	BusinessName string `json:"businessName" validate:"required"`
	BusinessType string `json:"businessType"`
	TeamSize     string `json:"teamSize"`
	MonthlyLeads string `json:"monthlyLeads"`

	PricingPlan   string     `json:"pricingPlan"`
	CurrentTools  StringList `json:"currentTools"`
	MainChallenge string     `json:"mainChallenge"`
	Goals         StringList `json:"goals"`

	Source string `json:"source"`
}

func (r *GetStartedRequest) toLead() *domain.Lead {
	return &domain.Lead{
		FormType:      domain.FormTypeGetStarted,
		FirstName:     strings.TrimSpace(r.FirstName),
		LastName:      strings.TrimSpace(r.LastName),
		Email:         strings.TrimSpace(r.Email),
		Phone:         strings.TrimSpace(r.Phone),
		BusinessName:  strings.TrimSpace(r.BusinessName),
		BusinessType:  r.BusinessType,
		TeamSize:      r.TeamSize,
		MonthlyLeads:  r.MonthlyLeads,
		PricingPlan:   strings.ToLower(strings.TrimSpace(r.PricingPlan)),
		CurrentTools:  r.CurrentTools,
		MainChallenge: strings.TrimSpace(r.MainChallenge),
		Goals:         r.Goals,
		Source:        r.Source,
	}
}

// SubmitResponse acknowledges an accepted lead. CRMSynced/EmailSent report
// best-effort delivery; they are informational, not error signals.
type SubmitResponse struct {
	SubmissionID  int64                `json:"submissionId"`
	Score         int                  `json:"score"`
	Qualification domain.Qualification `json:"qualification"`
	CRMSynced     bool                 `json:"crmSynced"`
	EmailSent     bool                 `json:"emailSent"`
}
