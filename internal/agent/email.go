package agent

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"medical-audio-processor/internal/observability/logging"
)

// SendGridSender dispatches email through the SendGrid API. When the
// enabled flag is off or no API key is configured, sends are reported
// as skipped rather than failing the action.
type SendGridSender struct {
	enabled bool
	apiKey  string
	from    string
}

// NewSendGridSender creates the sender.
func NewSendGridSender(enabled bool, apiKey, from string) *SendGridSender {
	return &SendGridSender{enabled: enabled, apiKey: apiKey, from: from}
}

// Send dispatches a plain-text email and returns a human-readable
// outcome string.
func (s *SendGridSender) Send(_ context.Context, to, subject, body string) (string, error) {
	logger := logging.WithComponent("email")

	if !s.enabled {
		logger.Info().Msg("Email sending is disabled")
		return "Email sending is disabled.", nil
	}
	if s.apiKey == "" {
		logger.Error().Msg("SendGrid API key not set")
		return "Email service not configured.", nil
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail("Medical Team", s.from),
		subject,
		sgmail.NewEmail("", to),
		body,
		"",
	)

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}

	logger.Info().Str("to", to).Int("status", resp.StatusCode).Msg("Email sent")
	return fmt.Sprintf("Email sent to %s", to), nil
}
