package email

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	"github.com/deskpulse/deskpulse/internal/domain/user"
	"github.com/deskpulse/deskpulse/internal/shared/config"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

// SMTPTicketNotifier emails ticket participants about assignment and status changes.
type SMTPTicketNotifier struct {
	config config.EmailConfig
	send   func(m *gomail.Message) error
	logger logger.Interface
}

func NewSMTPTicketNotifier(cfg config.EmailConfig, log logger.Interface) *SMTPTicketNotifier {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	return &SMTPTicketNotifier{
		config: cfg,
		send:   func(m *gomail.Message) error { return dialer.DialAndSend(m) },
		logger: log,
	}
}

func (s *SMTPTicketNotifier) NotifyAssigned(ctx context.Context, t *ticket.Ticket, assignee *user.User) error {
	link := s.ticketURL(t)
	subject := fmt.Sprintf("[#%d] Ticket assigned to you: %s", t.ID(), t.Subject())

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>A ticket was assigned to you</h2>
			<p>Hi %s,</p>
			<p><strong>#%d %s</strong> (priority %s, category %s) is now yours.</p>
			<p><a href="%s">Open the ticket</a></p>
		</body>
		</html>
	`, html.EscapeString(assignee.Name()), t.ID(), html.EscapeString(t.Subject()),
		t.Priority(), t.Category(), link)

	plainBody := fmt.Sprintf(`
Hi %s,

Ticket #%d "%s" (priority %s, category %s) is now assigned to you.

%s
	`, assignee.Name(), t.ID(), t.Subject(), t.Priority(), t.Category(), link)

	return s.sendEmail(ctx, assignee.Email().String(), subject, htmlBody, plainBody)
}

func (s *SMTPTicketNotifier) NotifyStatusChanged(ctx context.Context, t *ticket.Ticket, owner *user.User) error {
	link := s.ticketURL(t)
	subject := fmt.Sprintf("[#%d] Ticket status changed to %s", t.ID(), t.Status())

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Your ticket was updated</h2>
			<p>Hi %s,</p>
			<p>The status of <strong>#%d %s</strong> is now <strong>%s</strong>.</p>
			<p><a href="%s">View the ticket</a></p>
		</body>
		</html>
	`, html.EscapeString(owner.Name()), t.ID(), html.EscapeString(t.Subject()), t.Status(), link)

	plainBody := fmt.Sprintf(`
Hi %s,

The status of ticket #%d "%s" is now %s.

%s
	`, owner.Name(), t.ID(), t.Subject(), t.Status(), link)

	return s.sendEmail(ctx, owner.Email().String(), subject, htmlBody, plainBody)
}

func (s *SMTPTicketNotifier) ticketURL(t *ticket.Ticket) string {
	return fmt.Sprintf("%s/tickets/%d", s.config.BaseURL, t.ID())
}

func (s *SMTPTicketNotifier) sendEmail(ctx context.Context, to, subject, htmlBody, plainBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infow("notification email sent", "to", to, "subject", subject)
	return nil
}

// NoopNotifier drops notifications when no SMTP relay is configured.
type NoopNotifier struct {
	logger logger.Interface
}

func NewNoopNotifier(log logger.Interface) *NoopNotifier {
	return &NoopNotifier{logger: log}
}

func (n *NoopNotifier) NotifyAssigned(_ context.Context, t *ticket.Ticket, assignee *user.User) error {
	n.logger.Debugw("email disabled, skipping assignment notification", "ticket_id", t.ID(), "user_id", assignee.ID())
	return nil
}

func (n *NoopNotifier) NotifyStatusChanged(_ context.Context, t *ticket.Ticket, owner *user.User) error {
	n.logger.Debugw("email disabled, skipping status notification", "ticket_id", t.ID(), "user_id", owner.ID())
	return nil
}
