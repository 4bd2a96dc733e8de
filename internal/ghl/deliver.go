package ghl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trueflow/internal/config"
	"trueflow/internal/domain"
)

// ErrNotConfigured is returned when CRM credentials are absent and delivery
// runs in log-only mode.
var ErrNotConfigured = errors.New("gohighlevel is not configured")

// Deliverer runs the full CRM side of a submission: field sync, value
// mapping, contact upsert, then best-effort opportunity and note.
type Deliverer struct {
	client   *Client
	registry *Registry
	cfg      config.GHLConfig
	policy   Policy
	now      func() time.Time
	loggerf  func(format string, args ...interface{})
}

// DeliveryResult reports what reached the CRM.
type DeliveryResult struct {
	ContactID    string
	Created      bool
	MappedFields int
}

func NewDeliverer(client *Client, registry *Registry, cfg config.GHLConfig, policy Policy, loggerf func(format string, args ...interface{})) *Deliverer {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Deliverer{
		client:   client,
		registry: registry,
		cfg:      cfg,
		policy:   policy,
		now:      time.Now,
		loggerf:  loggerf,
	}
}

// Deliver pushes one scored lead into the CRM. The contact upsert is the
// only hard failure; a broken field sync degrades to an upsert without
// custom values, and opportunity/note failures are logged only.
func (d *Deliverer) Deliver(ctx context.Context, lead *domain.Lead, score int, qualification domain.Qualification) (*DeliveryResult, error) {
	if !d.client.Enabled() {
		return nil, ErrNotConfigured
	}

	ids, err := d.registry.EnsureFields(ctx)
	if err != nil {
		d.loggerf("level=error msg=field sync failed, upserting without custom fields err=%v", err)
		ids = map[string]string{}
	}

	values := LeadValues(lead, score, qualification, d.now())
	fields := MapValues(values, ids, d.policy)

	tags := []string{"website-lead", string(lead.FormType), string(qualification)}

	result, err := d.client.UpsertContact(ctx, lead, tags, fields)
	if err != nil {
		return nil, err
	}

	if d.cfg.OpportunitiesEnabled() {
		if err := d.client.CreateOpportunity(ctx, result.ContactID, lead); err != nil {
			d.loggerf("level=error msg=create opportunity failed contact_id=%s err=%v", result.ContactID, err)
		}
	}

	if err := d.client.CreateNote(ctx, result.ContactID, submissionNote(lead, score, qualification)); err != nil {
		d.loggerf("level=error msg=create note failed contact_id=%s err=%v", result.ContactID, err)
	}

	return &DeliveryResult{
		ContactID:    result.ContactID,
		Created:      result.Created,
		MappedFields: len(fields),
	}, nil
}

func submissionNote(lead *domain.Lead, score int, qualification domain.Qualification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Website submission (%s)\n", lead.FormType)
	fmt.Fprintf(&b, "Score: %d (%s)\n", score, qualification)
	if lead.BusinessName != "" {
		fmt.Fprintf(&b, "Business: %s", lead.BusinessName)
		if lead.BusinessType != "" {
			fmt.Fprintf(&b, " (%s)", lead.BusinessType)
		}
		b.WriteString("\n")
	}
	if lead.PricingPlan != "" {
		fmt.Fprintf(&b, "Plan: %s\n", lead.PricingPlan)
	}
	if lead.MainChallenge != "" {
		fmt.Fprintf(&b, "Main challenge: %s\n", lead.MainChallenge)
	}
	if len(lead.Goals) > 0 {
		fmt.Fprintf(&b, "Goals: %s\n", strings.Join(lead.Goals, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
