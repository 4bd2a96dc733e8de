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
)

type fakeGHL struct {
	t *testing.T

	listCalls   int
	createCalls []string
	fields      []CustomField
	failCreate  map[string]bool

	server *httptest.Server
}

func newFakeGHL(t *testing.T, existing []CustomField) *fakeGHL {
	f := &fakeGHL{t: t, fields: existing, failCreate: map[string]bool{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /locations/loc-1/customFields", func(w http.ResponseWriter, r *http.Request) {
		f.listCalls++
		_ = json.NewEncoder(w).Encode(map[string]any{"customFields": f.fields})
	})
	mux.HandleFunc("POST /locations/loc-1/customFields", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string `json:"name"`
			DataType string `json:"dataType"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.createCalls = append(f.createCalls, req.Name)

		if f.failCreate[req.Name] {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"invalid field"}`))
			return
		}

		created := CustomField{ID: "id-" + req.Name, Name: req.Name, DataType: req.DataType}
		f.fields = append(f.fields, created)
		_ = json.NewEncoder(w).Encode(map[string]any{"customField": created})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGHL) client() *Client {
	return NewClient(config.GHLConfig{
		Token:      "test-token",
		LocationID: "loc-1",
		BaseURL:    f.server.URL,
	}, nil)
}

func testCatalog() []FieldDefinition {
	return []FieldDefinition{
		{Key: "lead_score", Name: "Lead Score", DataType: TypeNumerical},
		{Key: "team_size", Name: "Team Size", DataType: TypeSingleOptions, Options: []string{"1", "2-5"}},
	}
}

func TestEnsureFieldsMatchesExistingByNormalizedName(t *testing.T) {
	// Remote name differs in case and spacing; the registry must not
	// create a duplicate.
	fake := newFakeGHL(t, []CustomField{
		{ID: "remote-1", Name: "  lead   SCORE ", DataType: TypeNumerical},
	})
	registry := NewRegistry(fake.client(), NewFieldCache(time.Hour), testCatalog(), nil)

	ids, err := registry.EnsureFields(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "remote-1", ids["lead_score"])
	assert.NotContains(t, fake.createCalls, "Lead Score")
	assert.Contains(t, fake.createCalls, "Team Size")
}

func TestEnsureFieldsCreatesMissingFields(t *testing.T) {
	fake := newFakeGHL(t, nil)
	registry := NewRegistry(fake.client(), NewFieldCache(time.Hour), testCatalog(), nil)

	ids, err := registry.EnsureFields(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "id-Lead Score", ids["lead_score"])
	assert.Equal(t, "id-Team Size", ids["team_size"])
	assert.Len(t, fake.createCalls, 2)
}

func TestEnsureFieldsSkipsFailedCreates(t *testing.T) {
	fake := newFakeGHL(t, nil)
	fake.failCreate["Team Size"] = true
	registry := NewRegistry(fake.client(), NewFieldCache(time.Hour), testCatalog(), nil)

	ids, err := registry.EnsureFields(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "id-Lead Score", ids["lead_score"])
	_, ok := ids["team_size"]
	assert.False(t, ok, "failed create must leave the key out of the map")
}

func TestEnsureFieldsUsesCacheWithinTTL(t *testing.T) {
	fake := newFakeGHL(t, nil)
	now, advance := fakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	cache := NewFieldCache(time.Hour).WithClock(now)
	registry := NewRegistry(fake.client(), cache, testCatalog(), nil)

	_, err := registry.EnsureFields(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fake.listCalls)

	// Second run inside the TTL is served from cache.
	_, err = registry.EnsureFields(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fake.listCalls)

	// After the TTL the registry refetches.
	advance(2 * time.Hour)
	_, err = registry.EnsureFields(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fake.listCalls)
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "lead score", canonicalName("  Lead   SCORE "))
	assert.Equal(t, "team size", canonicalName("Team Size"))
}
