package ghl

import (
	"encoding/json"
	"time"

	"trueflow/internal/domain"
)

// GoHighLevel custom field data types.
const (
	TypeText            = "TEXT"
	TypeNumerical       = "NUMERICAL"
	TypeSingleOptions   = "SINGLE_OPTIONS"
	TypeMultipleOptions = "MULTIPLE_OPTIONS"
	TypeDate            = "DATE"
)

// FieldDefinition is a compiled-in description of a custom field the CRM
// must have. Name is what field lookup matches against remotely, so it has
// to track the display name configured in the CRM.
type FieldDefinition struct {
	Key      string
	Name     string
	DataType string
	Options  []string
}

// Catalog keys, used to join field definitions with submission values.
const (
	FieldBusinessType      = "business_type"
	FieldTeamSize          = "team_size"
	FieldMonthlyLeads      = "monthly_leads"
	FieldPricingPlan       = "pricing_plan"
	FieldCurrentTools      = "current_tools"
	FieldMainChallenge     = "main_challenge"
	FieldBusinessGoals     = "business_goals"
	FieldLeadScore         = "lead_score"
	FieldQualification     = "qualification"
	FieldAssessmentScore   = "assessment_score"
	FieldAssessmentAnswers = "assessment_answers"
	FieldLeadSource        = "lead_source"
	FieldSubmittedAt       = "submitted_at"
)

// ContactFieldCatalog returns the custom fields the funnel writes on every
// contact. The registry creates any of these that are missing remotely.
func ContactFieldCatalog() []FieldDefinition {
	return []FieldDefinition{
		{
			Key:      FieldBusinessType,
			Name:     "Business Type",
			DataType: TypeSingleOptions,
			Options: []string{
				"Real Estate", "Insurance", "Legal", "Home Services",
				"Healthcare", "Fitness", "Agency", "Other",
			},
		},
		{
			Key:      FieldTeamSize,
			Name:     "Team Size",
			DataType: TypeSingleOptions,
			Options:  []string{"1", "2-5", "6-10", "10+"},
		},
		{
			Key:      FieldMonthlyLeads,
			Name:     "Monthly Lead Volume",
			DataType: TypeSingleOptions,
			Options:  []string{"0-10", "11-50", "51-100", "100+"},
		},
		{
			Key:      FieldPricingPlan,
			Name:     "Pricing Plan",
			DataType: TypeSingleOptions,
			Options:  []string{"starter", "professional", "enterprise"},
		},
		{
			Key:      FieldCurrentTools,
			Name:     "Current Tools",
			DataType: TypeMultipleOptions,
			Options: []string{
				"CRM", "Email Marketing", "SMS", "Calendar Booking",
				"Call Tracking", "Spreadsheets", "None",
			},
		},
		{
			Key:      FieldMainChallenge,
			Name:     "Main Challenge",
			DataType: TypeText,
		},
		{
			Key:      FieldBusinessGoals,
			Name:     "Business Goals",
			DataType: TypeMultipleOptions,
			Options: []string{
				"More Leads", "Faster Response", "Automation",
				"Better Follow-up", "Scale Team", "Reduce Costs",
			},
		},
		{
			Key:      FieldLeadScore,
			Name:     "Lead Score",
			DataType: TypeNumerical,
		},
		{
			Key:      FieldQualification,
			Name:     "Lead Qualification",
			DataType: TypeSingleOptions,
			Options:  []string{"hot", "warm", "cold"},
		},
		{
			Key:      FieldAssessmentScore,
			Name:     "Assessment Score",
			DataType: TypeNumerical,
		},
		{
			Key:      FieldAssessmentAnswers,
			Name:     "Assessment Answers",
			DataType: TypeText,
		},
		{
			Key:      FieldLeadSource,
			Name:     "Lead Source",
			DataType: TypeText,
		},
		{
			Key:      FieldSubmittedAt,
			Name:     "Submitted At",
			DataType: TypeDate,
		},
	}
}

// LeadValues flattens a scored lead into catalog-keyed values. Empty values
// are omitted so the CRM keeps whatever it already has for those fields.
func LeadValues(lead *domain.Lead, score int, qualification domain.Qualification, now time.Time) map[string]any {
	values := map[string]any{
		FieldLeadScore:     score,
		FieldQualification: string(qualification),
		FieldSubmittedAt:   now.UTC().Format("2006-01-02"),
	}

	putString(values, FieldBusinessType, lead.BusinessType)
	putString(values, FieldTeamSize, lead.TeamSize)
	putString(values, FieldMonthlyLeads, lead.MonthlyLeads)
	putString(values, FieldPricingPlan, lead.PricingPlan)
	putString(values, FieldMainChallenge, lead.MainChallenge)

	if lead.Source != "" {
		values[FieldLeadSource] = lead.Source
	} else {
		values[FieldLeadSource] = "website"
	}

	if len(lead.CurrentTools) > 0 {
		values[FieldCurrentTools] = lead.CurrentTools
	}
	if len(lead.Goals) > 0 {
		values[FieldBusinessGoals] = lead.Goals
	}

	if lead.FormType == domain.FormTypeAssessment {
		values[FieldAssessmentScore] = lead.AssessmentScore
		if len(lead.Answers) > 0 {
			if raw, err := json.Marshal(lead.Answers); err == nil {
				values[FieldAssessmentAnswers] = string(raw)
			}
		}
	}

	return values
}

func putString(values map[string]any, key, v string) {
	if v != "" {
		values[key] = v
	}
}
