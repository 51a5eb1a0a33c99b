// Package notification turns domain events into transactional email.
package notification

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers the notification emails. Implemented by SMTPSender;
// NoopSender stands in when SMTP is not configured.
type Sender interface {
	SendQuoteConfirmation(ctx context.Context, toEmail string, data QuoteEmailData) error
	SendQuoteFollowUp(ctx context.Context, toEmail string, data QuoteEmailData) error
	SendHandoffAlert(ctx context.Context, toEmail string, data HandoffEmailData) error
}

// QuoteEmailData fills the client-facing quote templates.
type QuoteEmailData struct {
	ClientName  string
	ServiceType string
	TotalText   string
	RequestID   string
}

// HandoffEmailData fills the internal handoff alert template.
type HandoffEmailData struct {
	SessionID string
	Name      string
	Email     string
	Message   string
}

// SMTPSender delivers notification emails via a direct SMTP connection
// using go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendQuoteConfirmation emails the client their submitted quote.
func (s *SMTPSender) SendQuoteConfirmation(ctx context.Context, toEmail string, data QuoteEmailData) error {
	content, err := renderEmailTemplate("quote_confirmation", data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectQuoteConfirmation, content)
}

// SendQuoteFollowUp emails the client a nudge about an unanswered quote.
func (s *SMTPSender) SendQuoteFollowUp(ctx context.Context, toEmail string, data QuoteEmailData) error {
	content, err := renderEmailTemplate("quote_followup", data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectQuoteFollowUp, content)
}

// SendHandoffAlert emails the agency's support inbox about a visitor
// waiting for a human.
func (s *SMTPSender) SendHandoffAlert(ctx context.Context, toEmail string, data HandoffEmailData) error {
	content, err := renderEmailTemplate("handoff_alert", data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectHandoffAlert, content)
}

// NoopSender drops all notifications. Used when email is disabled.
type NoopSender struct{}

func (NoopSender) SendQuoteConfirmation(context.Context, string, QuoteEmailData) error { return nil }
func (NoopSender) SendQuoteFollowUp(context.Context, string, QuoteEmailData) error    { return nil }
func (NoopSender) SendHandoffAlert(context.Context, string, HandoffEmailData) error   { return nil }

var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = NoopSender{}
)
