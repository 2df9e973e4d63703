package services

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"School-Administration-System/config"
)

// Notifier delivers auto-mark notifications to teachers, best effort
// per recipient. Attendance correctness never depends on delivery.
type Notifier interface {
	Send(email, name, status, message string) error
}

func NewNotifier(cfg *config.AppConfig) Notifier {
	if cfg.SendgridAPIKey == "" {
		log.Println("SENDGRID_API_KEY not set, notifications will only be logged")
		return &logNotifier{}
	}
	return &sendgridNotifier{
		client:    sendgrid.NewSendClient(cfg.SendgridAPIKey),
		fromEmail: cfg.SenderEmail,
		fromName:  cfg.SenderName,
	}
}

type sendgridNotifier struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func (n *sendgridNotifier) Send(email, name, status, message string) error {
	from := sgmail.NewEmail(n.fromName, n.fromEmail)
	to := sgmail.NewEmail(name, email)
	subject := fmt.Sprintf("Attendance marked as %s", status)

	msg := sgmail.NewSingleEmail(from, subject, to, message, "")

	resp, err := n.client.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected notification with status %d", resp.StatusCode)
	}
	return nil
}

// logNotifier is the development fallback.
type logNotifier struct{}

func (n *logNotifier) Send(email, name, status, message string) error {
	log.Printf("[notify] to=%s (%s) status=%s: %s", email, name, status, message)
	return nil
}
