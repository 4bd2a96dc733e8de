package ghl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trueflow/internal/config"
	"trueflow/internal/domain"
)

type fakeContacts struct {
	existingByEmail map[string]string

	searches int
	creates  int
	updates  int

	lastCreate map[string]any
	lastUpdate map[string]any

	opportunities int
	notes         []string

	server *httptest.Server
}

func newFakeContacts(t *testing.T) *fakeContacts {
	f := &fakeContacts{existingByEmail: map[string]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /contacts/search/duplicate", func(w http.ResponseWriter, r *http.Request) {
		f.searches++
		id, ok := f.existingByEmail[r.URL.Query().Get("email")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"contact": map[string]any{"id": id}})
	})
	mux.HandleFunc("POST /contacts/", func(w http.ResponseWriter, r *http.Request) {
		f.creates++
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastCreate))
		_ = json.NewEncoder(w).Encode(map[string]any{"contact": map[string]any{"id": "contact-new"}})
	})
	mux.HandleFunc("PUT /contacts/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.updates++
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastUpdate))
		_ = json.NewEncoder(w).Encode(map[string]any{"contact": map[string]any{"id": r.PathValue("id")}})
	})
	mux.HandleFunc("POST /opportunities/", func(w http.ResponseWriter, r *http.Request) {
		f.opportunities++
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})
	mux.HandleFunc("POST /contacts/{id}/notes", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Body string `json:"body"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.notes = append(f.notes, req.Body)
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})
	mux.HandleFunc("GET /locations/loc-1/customFields", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"customFields": []CustomField{
			{ID: "f-score", Name: "Lead Score"},
			{ID: "f-qual", Name: "Lead Qualification"},
		}})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeContacts) config() config.GHLConfig {
	return config.GHLConfig{
		Token:      "test-token",
		LocationID: "loc-1",
		BaseURL:    f.server.URL,
	}
}

func sampleLead() *domain.Lead {
	return &domain.Lead{
		FormType:     domain.FormTypeGetStarted,
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@x.com",
		BusinessName: "Acme",
		PricingPlan:  "enterprise",
		TeamSize:     "10+",
		MonthlyLeads: "100+",
	}
}

func TestUpsertContactCreatesWhenNoDuplicate(t *testing.T) {
	fake := newFakeContacts(t)
	client := NewClient(fake.config(), nil)

	result, err := client.UpsertContact(context.Background(), sampleLead(), []string{"website-lead"}, nil)
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, "contact-new", result.ContactID)
	assert.Equal(t, 1, fake.searches)
	assert.Equal(t, 1, fake.creates)
	assert.Equal(t, 0, fake.updates)
	assert.Equal(t, "loc-1", fake.lastCreate["locationId"])
}

func TestUpsertContactUpdatesExisting(t *testing.T) {
	fake := newFakeContacts(t)
	fake.existingByEmail["jane@x.com"] = "contact-42"
	client := NewClient(fake.config(), nil)

	result, err := client.UpsertContact(context.Background(), sampleLead(), nil, nil)
	require.NoError(t, err)

	assert.False(t, result.Created)
	assert.Equal(t, "contact-42", result.ContactID)
	assert.Equal(t, 0, fake.creates)
	assert.Equal(t, 1, fake.updates)

	// Update payloads must not carry the location.
	_, hasLocation := fake.lastUpdate["locationId"]
	assert.False(t, hasLocation)
}

func TestFindContactByEmailTreats404AsNoMatch(t *testing.T) {
	fake := newFakeContacts(t)
	client := NewClient(fake.config(), nil)

	id, err := client.FindContactByEmail(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestDelivererPushesContactAndNote(t *testing.T) {
	fake := newFakeContacts(t)
	client := NewClient(fake.config(), nil)
	registry := NewRegistry(client, NewFieldCache(time.Hour), []FieldDefinition{
		{Key: FieldLeadScore, Name: "Lead Score", DataType: TypeNumerical},
		{Key: FieldQualification, Name: "Lead Qualification", DataType: TypeSingleOptions},
	}, nil)
	deliverer := NewDeliverer(client, registry, fake.config(), StringifyAll, nil)

	result, err := deliverer.Deliver(context.Background(), sampleLead(), 100, domain.QualificationHot)
	require.NoError(t, err)

	assert.Equal(t, "contact-new", result.ContactID)
	assert.True(t, result.Created)
	assert.Equal(t, 2, result.MappedFields)
	require.Len(t, fake.notes, 1)
	assert.Contains(t, fake.notes[0], "Score: 100 (hot)")

	// Opportunities are off without pipeline configuration.
	assert.Equal(t, 0, fake.opportunities)
}

func TestDelivererNotConfigured(t *testing.T) {
	client := NewClient(config.GHLConfig{}, nil)
	registry := NewRegistry(client, NewFieldCache(time.Hour), nil, nil)
	deliverer := NewDeliverer(client, registry, config.GHLConfig{}, StringifyAll, nil)

	_, err := deliverer.Deliver(context.Background(), sampleLead(), 50, domain.QualificationWarm)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDelivererCreatesOpportunityWhenConfigured(t *testing.T) {
	fake := newFakeContacts(t)
	cfg := fake.config()
	cfg.PipelineID = "pipe-1"
	cfg.PipelineStageID = "stage-1"
	cfg.CreateOpportunities = true

	client := NewClient(cfg, nil)
	registry := NewRegistry(client, NewFieldCache(time.Hour), nil, nil)
	deliverer := NewDeliverer(client, registry, cfg, StringifyAll, nil)

	_, err := deliverer.Deliver(context.Background(), sampleLead(), 100, domain.QualificationHot)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.opportunities)
}
