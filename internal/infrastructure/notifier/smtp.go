package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"mindnamo-admin.backend/internal/config"
	domainerrors "mindnamo-admin.backend/internal/domain/errors"
)

// SMTPNotifier delivers transactional mail over plain SMTP. Delivery
// is best effort; callers must not roll back state when it fails.
type SMTPNotifier struct {
	cfg config.SMTPConfig
}

var sendMail = smtp.SendMail

// NewSMTPNotifier creates a new SMTP notifier
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// Send delivers one HTML message and returns a delivery ID.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	if !n.cfg.Enabled() {
		return "", fmt.Errorf("no mail transport configured: %w", domainerrors.ErrUpstreamUnavailable)
	}

	messageID := uuid.New().String()
	var msg strings.Builder
	msg.WriteString("From: \"Mind Namo Admin\" <" + n.cfg.From + ">\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("Message-ID: <" + messageID + "@mindnamo.com>\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)

	if err := sendMail(addr, auth, n.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return messageID, nil
}
