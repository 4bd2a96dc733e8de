package ghl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"trueflow/internal/domain"
)

type contactRequest struct {
	LocationID   string             `json:"locationId,omitempty"`
	FirstName    string             `json:"firstName"`
	LastName     string             `json:"lastName"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone,omitempty"`
	CompanyName  string             `json:"companyName,omitempty"`
	Source       string             `json:"source,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
	CustomFields []CustomFieldValue `json:"customFields,omitempty"`
}

type contactEnvelope struct {
	Contact struct {
		ID string `json:"id"`
	} `json:"contact"`
}

// UpsertResult reports where a contact landed in the CRM.
type UpsertResult struct {
	ContactID string
	Created   bool
}

// FindContactByEmail returns the existing contact ID for email, or "" when
// the CRM has no match.
func (c *Client) FindContactByEmail(ctx context.Context, email string) (string, error) {
	path := fmt.Sprintf("/contacts/search/duplicate?locationId=%s&email=%s",
		url.QueryEscape(c.cfg.LocationID), url.QueryEscape(email))

	var out contactEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		// A 404 here means "no duplicate", not a failure.
		if apiErr, ok := err.(*APIError); ok && apiErr.Status == http.StatusNotFound {
			return "", nil
		}
		return "", err
	}
	return out.Contact.ID, nil
}

// UpsertContact searches the CRM by email and updates the existing contact,
// or creates a new one. Tags and custom field values ride along either way.
func (c *Client) UpsertContact(ctx context.Context, lead *domain.Lead, tags []string, fields []CustomFieldValue) (*UpsertResult, error) {
	req := contactRequest{
		FirstName:    lead.FirstName,
		LastName:     lead.LastName,
		Email:        lead.Email,
		Phone:        lead.Phone,
		CompanyName:  lead.BusinessName,
		Source:       "trueflow-website",
		Tags:         tags,
		CustomFields: fields,
	}

	existingID, err := c.FindContactByEmail(ctx, lead.Email)
	if err != nil {
		return nil, fmt.Errorf("search contact: %w", err)
	}

	if existingID != "" {
		// Update payloads must not carry locationId.
		var out contactEnvelope
		if err := c.do(ctx, http.MethodPut, "/contacts/"+existingID, req, &out); err != nil {
			return nil, fmt.Errorf("update contact: %w", err)
		}
		id := out.Contact.ID
		if id == "" {
			id = existingID
		}
		return &UpsertResult{ContactID: id}, nil
	}

	req.LocationID = c.cfg.LocationID
	var out contactEnvelope
	if err := c.do(ctx, http.MethodPost, "/contacts/", req, &out); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return &UpsertResult{ContactID: out.Contact.ID, Created: true}, nil
}
