package domain

import "time"

// FormType identifies which funnel form produced a lead.
type FormType string

const (
	FormTypeAssessment FormType = "assessment"
	FormTypeGetStarted FormType = "get_started"
)

// Qualification buckets a lead score.
type Qualification string

const (
	QualificationHot  Qualification = "hot"
	QualificationWarm Qualification = "warm"
	QualificationCold Qualification = "cold"
)

// DeliveryStatus tracks the outcome of one downstream delivery channel.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
	DeliverySkipped DeliveryStatus = "skipped"
)

// Lead is a normalized form submission, ready for scoring and delivery.
// Array-ish fields are always slices here; the intake layer coerces
// comma-separated strings before a Lead is built.
type Lead struct {
	FormType FormType

	// Contact identity
	FirstName string
	LastName  string
	Email     string
	Phone     string

	// Business metadata
	BusinessName string
	BusinessType string
	TeamSize     string
	MonthlyLeads string

	// Get-started selections
	PricingPlan   string
	CurrentTools  []string
	MainChallenge string

	// Assessment results
	AssessmentScore int
	Answers         map[string]string
	Goals           []string

	Source string
}

// FullName returns the contact's display name.
func (l *Lead) FullName() string {
	if l.LastName == "" {
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// Submission is the journaled record of an accepted lead and what happened
// to it downstream. The CRM and email provider remain the systems of record
// for the contact itself; this exists so a delivery failure is never silent.
type Submission struct {
	ID int64

	FormType     FormType
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	BusinessName string

	// Raw request body as received, for replay/debugging.
	Payload string

	Score         int
	Qualification Qualification

	CRMContactID string
	CRMStatus    DeliveryStatus
	CRMError     string

	EmailStatus DeliveryStatus
	EmailError  string

	CreatedAt time.Time
	UpdatedAt time.Time
}
