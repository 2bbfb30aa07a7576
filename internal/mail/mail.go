package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"teamnet/pkg/logger"
)

const sendgridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// Sender delivers account emails
type Sender interface {
	// SendWelcome mails a newly created user their generated password
	SendWelcome(ctx context.Context, toEmail, name, password string) error
}

// SendgridSender sends through the SendGrid v3 API
type SendgridSender struct {
	apiKey string
	from   string
	client *http.Client
	logger *zap.Logger
}

func NewSendgridSender(apiKey, from string) *SendgridSender {
	return &SendgridSender{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger.Get(),
	}
}

func (s *SendgridSender) SendWelcome(ctx context.Context, toEmail, name, password string) error {
	body := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]string{{"email": toEmail}}},
		},
		"from":    map[string]string{"email": s.from},
		"subject": "Welcome to TeamNet",
		"content": []map[string]string{
			{
				"type": "text/plain",
				"value": fmt.Sprintf(
					"Hi %s,\n\nYour TeamNet account is ready. Sign in with this temporary password and change it right away:\n\n%s\n",
					name, password,
				),
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendgridEndpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send mail: sendgrid returned %d", resp.StatusCode)
	}

	s.logger.Info("Welcome mail sent", zap.String("to", toEmail))
	return nil
}

// NoopSender logs instead of sending. Used in development when no
// SendGrid key is configured.
type NoopSender struct {
	logger *zap.Logger
}

func NewNoopSender() *NoopSender {
	return &NoopSender{logger: logger.Get()}
}

func (s *NoopSender) SendWelcome(ctx context.Context, toEmail, name, password string) error {
	s.logger.Info("Mail delivery disabled, skipping welcome mail", zap.String("to", toEmail))
	return nil
}
