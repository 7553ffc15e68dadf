package email

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

const smtpTimeout = 15 * time.Second

// SMTPOptions configures SMTPSender. Auth is used only when Username is set.
type SMTPOptions struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// SMTPSender delivers consultant alerts over SMTP via go-mail.
type SMTPSender struct {
	opts SMTPOptions
}

func NewSMTPSender(opts SMTPOptions) *SMTPSender {
	return &SMTPSender{opts: opts}
}

// outgoing is one rendered message.
type outgoing struct {
	to      string
	replyTo string
	subject string
	html    string
	text    string
}

func (s *SMTPSender) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(s.opts.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(smtpTimeout),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.opts.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.opts.Username),
			gomail.WithPassword(s.opts.Password),
		)
	}
	return opts
}

func (s *SMTPSender) send(ctx context.Context, out outgoing) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.opts.FromName, s.opts.FromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(out.to); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	if out.replyTo != "" {
		if err := msg.ReplyTo(out.replyTo); err != nil {
			return fmt.Errorf("smtp reply-to: %w", err)
		}
	}
	msg.Subject(out.subject)
	msg.SetBodyString(gomail.TypeTextHTML, out.html)
	if out.text != "" {
		msg.AddAlternativeString(gomail.TypeTextPlain, out.text)
	}

	client, err := gomail.NewClient(s.opts.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// SendConsultantAlert emails the consultant about a high-value lead.
// Replies go straight to the lead.
func (s *SMTPSender) SendConsultantAlert(ctx context.Context, toEmail string, alert ConsultantAlert) error {
	subject, html, err := renderConsultantAlert(alert)
	if err != nil {
		return err
	}
	return s.send(ctx, outgoing{
		to:      strings.TrimSpace(toEmail),
		replyTo: alert.Email,
		subject: subject,
		html:    html,
		text:    plainConsultantAlert(alert),
	})
}
