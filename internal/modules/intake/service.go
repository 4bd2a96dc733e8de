package intake

import (
	"context"
	"errors"

	"trueflow/internal/domain"
	"trueflow/internal/ghl"
	"trueflow/internal/mailer"
	"trueflow/internal/modules/scoring"
)

// CRMDeliverer pushes a scored lead into the CRM.
type CRMDeliverer interface {
	Deliver(ctx context.Context, lead *domain.Lead, score int, qualification domain.Qualification) (*ghl.DeliveryResult, error)
}

// EmailNotifier sends the internal lead notification.
type EmailNotifier interface {
	NotifyLead(ctx context.Context, lead *domain.Lead, score int, qualification domain.Qualification) error
}

// SubmissionJournal persists accepted submissions and their outcomes.
type SubmissionJournal interface {
	Create(ctx context.Context, s *domain.Submission) error
	UpdateDelivery(ctx context.Context, id int64, s *domain.Submission) error
}

// FeedBroadcaster pushes accepted submissions to the live admin feed.
type FeedBroadcaster interface {
	BroadcastSubmission(s *domain.Submission)
}

// Service runs the intake pipeline. Once a lead passes validation the
// pipeline never fails the request: delivery errors land in the journal and
// the logs, and the submitter always gets an acknowledgment.
type Service struct {
	crm     CRMDeliverer
	mailer  EmailNotifier
	journal SubmissionJournal
	feed    FeedBroadcaster
	loggerf func(format string, args ...interface{})
}

func NewService(crm CRMDeliverer, notifier EmailNotifier, journal SubmissionJournal, feed FeedBroadcaster, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		crm:     crm,
		mailer:  notifier,
		journal: journal,
		feed:    feed,
		loggerf: loggerf,
	}
}

// Process scores the lead, journals it, delivers to the CRM and the
// notification inbox in sequence, then records the outcomes.
func (s *Service) Process(ctx context.Context, lead *domain.Lead, rawPayload []byte) *SubmitResponse {
	score := scoring.Score(lead)
	qualification := scoring.Bucket(score)

	sub := &domain.Submission{
		FormType:      lead.FormType,
		FirstName:     lead.FirstName,
		LastName:      lead.LastName,
		Email:         lead.Email,
		Phone:         lead.Phone,
		BusinessName:  lead.BusinessName,
		Payload:       string(rawPayload),
		Score:         score,
		Qualification: qualification,
		CRMStatus:     domain.DeliveryPending,
		EmailStatus:   domain.DeliveryPending,
	}

	journaled := true
	if err := s.journal.Create(ctx, sub); err != nil {
		journaled = false
		s.loggerf("level=error msg=journal write failed email=%s err=%v", lead.Email, err)
	}

	s.deliverCRM(ctx, lead, score, qualification, sub)
	s.deliverEmail(ctx, lead, score, qualification, sub)

	if journaled {
		if err := s.journal.UpdateDelivery(ctx, sub.ID, sub); err != nil {
			s.loggerf("level=error msg=journal update failed submission_id=%d err=%v", sub.ID, err)
		}
	}

	if s.feed != nil {
		s.feed.BroadcastSubmission(sub)
	}

	return &SubmitResponse{
		SubmissionID:  sub.ID,
		Score:         score,
		Qualification: qualification,
		CRMSynced:     sub.CRMStatus == domain.DeliverySent,
		EmailSent:     sub.EmailStatus == domain.DeliverySent,
	}
}

func (s *Service) deliverCRM(ctx context.Context, lead *domain.Lead, score int, qualification domain.Qualification, sub *domain.Submission) {
	result, err := s.crm.Deliver(ctx, lead, score, qualification)
	switch {
	case errors.Is(err, ghl.ErrNotConfigured):
		sub.CRMStatus = domain.DeliverySkipped
		s.loggerf("level=info msg=crm sync skipped, not configured email=%s", lead.Email)
	case err != nil:
		sub.CRMStatus = domain.DeliveryFailed
		sub.CRMError = err.Error()
		s.loggerf("level=error msg=crm sync failed email=%s err=%v", lead.Email, err)
	default:
		sub.CRMStatus = domain.DeliverySent
		sub.CRMContactID = result.ContactID
		s.loggerf("level=info msg=crm sync ok contact_id=%s created=%t fields=%d",
			result.ContactID, result.Created, result.MappedFields)
	}
}

func (s *Service) deliverEmail(ctx context.Context, lead *domain.Lead, score int, qualification domain.Qualification, sub *domain.Submission) {
	err := s.mailer.NotifyLead(ctx, lead, score, qualification)
	switch {
	case errors.Is(err, mailer.ErrNotConfigured):
		sub.EmailStatus = domain.DeliverySkipped
		s.loggerf("level=info msg=email notification skipped, not configured email=%s", lead.Email)
	case err != nil:
		sub.EmailStatus = domain.DeliveryFailed
		sub.EmailError = err.Error()
	default:
		sub.EmailStatus = domain.DeliverySent
	}
}
