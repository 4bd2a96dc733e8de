package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trueflow/internal/config"
	"trueflow/internal/domain"
	"trueflow/internal/pkg/retry"
)

func testLead() *domain.Lead {
	return &domain.Lead{
		FormType:     domain.FormTypeGetStarted,
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@x.com",
		BusinessName: "Acme",
		PricingPlan:  "enterprise",
	}
}

func newTestNotifier(baseURL string) *Notifier {
	n := NewNotifier(config.ResendConfig{
		APIKey:  "re_test_key",
		BaseURL: baseURL,
		From:    "TrueFlow AI <leads@trueflow.ai>",
		To:      []string{"sales@trueflow.ai"},
	}, nil)
	n.backoff = retry.None()
	return n
}

func TestNotifyLeadSendsFormattedEmail(t *testing.T) {
	var got sendRequest
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "email-1"})
	}))
	defer server.Close()

	n := newTestNotifier(server.URL)
	err := n.NotifyLead(context.Background(), testLead(), 100, domain.QualificationHot)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"sales@trueflow.ai"}, got.To)
	assert.Contains(t, got.Subject, "[HOT]")
	assert.Contains(t, got.Subject, "Jane Doe")
	assert.Contains(t, got.Text, "Business: Acme")
	assert.Contains(t, got.HTML, "Acme")
}

func TestNotifyLeadRetriesAtMostThreeTimes(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	n := newTestNotifier(server.URL)
	err := n.NotifyLead(context.Background(), testLead(), 50, domain.QualificationWarm)

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestNotifyLeadRecoversOnSecondAttempt(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "email-1"})
	}))
	defer server.Close()

	n := newTestNotifier(server.URL)
	err := n.NotifyLead(context.Background(), testLead(), 50, domain.QualificationWarm)

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestNotifyLeadNotConfigured(t *testing.T) {
	n := NewNotifier(config.ResendConfig{}, nil)
	err := n.NotifyLead(context.Background(), testLead(), 50, domain.QualificationWarm)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSubjectLeadsWithQualification(t *testing.T) {
	lead := testLead()
	assert.Equal(t, "[HOT] New Lead: Jane Doe (85)", Subject(lead, 85, domain.QualificationHot))

	lead.FormType = domain.FormTypeAssessment
	assert.Equal(t, "[COLD] Assessment Completed: Jane Doe (20)", Subject(lead, 20, domain.QualificationCold))
}
