package ghl

import (
	"context"
	"net/http"

	"trueflow/internal/domain"
)

// Monthly plan prices used as opportunity monetary value.
var planValues = map[string]float64{
	"starter":      97,
	"professional": 297,
	"enterprise":   497,
}

type opportunityRequest struct {
	LocationID      string  `json:"locationId"`
	PipelineID      string  `json:"pipelineId"`
	PipelineStageID string  `json:"pipelineStageId"`
	ContactID       string  `json:"contactId"`
	Name            string  `json:"name"`
	Status          string  `json:"status"`
	MonetaryValue   float64 `json:"monetaryValue,omitempty"`
}

// CreateOpportunity opens a pipeline opportunity for the contact, valued by
// the plan they picked (zero when they haven't picked one).
func (c *Client) CreateOpportunity(ctx context.Context, contactID string, lead *domain.Lead) error {
	req := opportunityRequest{
		LocationID:      c.cfg.LocationID,
		PipelineID:      c.cfg.PipelineID,
		PipelineStageID: c.cfg.PipelineStageID,
		ContactID:       contactID,
		Name:            lead.FullName() + " - " + lead.BusinessName,
		Status:          "open",
		MonetaryValue:   planValues[lead.PricingPlan],
	}
	return c.do(ctx, http.MethodPost, "/opportunities/", req, nil)
}

type noteRequest struct {
	Body string `json:"body"`
}

// CreateNote attaches a free-text note to the contact.
func (c *Client) CreateNote(ctx context.Context, contactID, body string) error {
	return c.do(ctx, http.MethodPost, "/contacts/"+contactID+"/notes", noteRequest{Body: body}, nil)
}
