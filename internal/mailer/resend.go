package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"trueflow/internal/config"
	"trueflow/internal/domain"
	"trueflow/internal/pkg/retry"
)

// ErrNotConfigured is returned when the email provider credentials are
// absent and notification runs in log-only mode.
var ErrNotConfigured = errors.New("resend is not configured")

const (
	sendAttempts = 3
	backoffStep  = time.Second
)

// Notifier sends lead notification emails through Resend. Send failures are
// retried and ultimately returned as error values; a failed notification
// never affects the HTTP response to the lead.
type Notifier struct {
	httpClient *http.Client
	cfg        config.ResendConfig
	backoff    retry.BackoffFunc
	loggerf    func(format string, args ...interface{})
}

func NewNotifier(cfg config.ResendConfig, loggerf func(format string, args ...interface{})) *Notifier {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Notifier{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cfg:        cfg,
		backoff:    retry.Linear(backoffStep),
		loggerf:    loggerf,
	}
}

// Enabled reports whether the notifier has provider credentials.
func (n *Notifier) Enabled() bool {
	return n.cfg.Enabled()
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html"`
}

// NotifyLead formats and sends the internal notification for one scored
// lead, retrying transient failures. On final failure it writes a
// structured log entry and returns the last error.
func (n *Notifier) NotifyLead(ctx context.Context, lead *domain.Lead, score int, qualification domain.Qualification) error {
	if !n.Enabled() {
		return ErrNotConfigured
	}

	msg := sendRequest{
		From:    n.cfg.From,
		To:      n.cfg.To,
		Subject: Subject(lead, score, qualification),
		Text:    TextBody(lead, score, qualification),
		HTML:    HTMLBody(lead, score, qualification),
	}

	err := retry.Do(ctx, sendAttempts, n.backoff, func() error {
		return n.send(ctx, msg)
	})
	if err != nil {
		n.loggerf("level=error msg=lead notification failed to=%v subject=%q err=%v", msg.To, msg.Subject, err)
	}
	return err
}

func (n *Notifier) send(ctx context.Context, msg sendRequest) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("resend: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.BaseURL+"/emails", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("resend: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("resend: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("resend: status %d: %s", resp.StatusCode, body)
	}
	return nil
}
