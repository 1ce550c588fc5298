package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"complaintdesk/internal/config"
)

// Mailer delivers notification emails over SMTP. When the SMTP settings are
// absent it stays disabled and every send is a silent no-op.
type Mailer struct {
	client *mail.Client
	cfg    config.SMTPConfig
	log    zerolog.Logger
}

func NewMailer(cfg config.SMTPConfig, log zerolog.Logger) (*Mailer, error) {
	if !cfg.Enabled() {
		log.Warn().Msg("smtp not fully configured, email notifications disabled")
		return &Mailer{cfg: cfg, log: log}, nil
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("init smtp client: %w", err)
	}

	return &Mailer{client: client, cfg: cfg, log: log}, nil
}

func (m *Mailer) Enabled() bool {
	return m.client != nil
}

func (m *Mailer) SendComplaintCreated(ctx context.Context, task Task) error {
	body := fmt.Sprintf(`<h2>New Complaint Submitted</h2>
<p><strong>Title:</strong> %s</p>
<p><strong>Category:</strong> %s</p>
<p><strong>Priority:</strong> %s</p>
<p><strong>Description:</strong></p>
<p>%s</p>`,
		html.EscapeString(task.Title),
		html.EscapeString(task.Category),
		html.EscapeString(task.Priority),
		html.EscapeString(task.Description),
	)
	return m.send(ctx, m.cfg.AdminEmail, "New Complaint Submitted", body)
}

func (m *Mailer) SendStatusUpdated(ctx context.Context, task Task) error {
	body := fmt.Sprintf(`<h2>Complaint Status Updated</h2>
<p><strong>Title:</strong> %s</p>
<p><strong>New Status:</strong> %s</p>
<p><strong>Date:</strong> %s</p>`,
		html.EscapeString(task.Title),
		html.EscapeString(task.Status),
		time.Now().Format(time.RFC1123),
	)
	return m.send(ctx, m.cfg.AdminEmail, "Complaint Status Updated", body)
}

func (m *Mailer) SendPendingDigest(ctx context.Context, pending int) error {
	body := fmt.Sprintf(`<h2>Daily Complaint Digest</h2>
<p>There are <strong>%d</strong> complaints awaiting triage.</p>`, pending)
	return m.send(ctx, m.cfg.AdminEmail, "Daily Complaint Digest", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	if m.client == nil {
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
