package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/amishk599/jobdigest/internal/model"
)

// Ensure EmailNotifier implements model.Notifier.
var _ model.Notifier = (*EmailNotifier)(nil)

const (
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 465
)

// mailSender is the part of *mail.Client the notifier uses.
type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailOptions configures the SMTP submission.
type EmailOptions struct {
	Host     string
	Port     int
	Username string // also used as the From address
	Password string
	To       string
	Timeout  time.Duration
}

// EmailNotifier sends each digest as one HTML email to a single recipient.
type EmailNotifier struct {
	sender mailSender
	from   string
	to     string
	logger *slog.Logger
}

// NewEmailNotifier creates a notifier that submits over implicit TLS on
// port 465 and STARTTLS on any other port, authenticating with PLAIN.
func NewEmailNotifier(opts EmailOptions, logger *slog.Logger) (*EmailNotifier, error) {
	host := opts.Host
	if host == "" {
		host = DefaultSMTPHost
	}
	port := opts.Port
	if port == 0 {
		port = DefaultSMTPPort
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	clientOpts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(opts.Username),
		mail.WithPassword(opts.Password),
		mail.WithTimeout(timeout),
	}
	if port == 465 {
		clientOpts = append(clientOpts, mail.WithSSL())
	} else {
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}
	clientOpts = append(clientOpts, mail.WithPort(port))

	client, err := mail.NewClient(host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return newEmailNotifier(client, opts.Username, opts.To, logger), nil
}

func newEmailNotifier(sender mailSender, from, to string, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{sender: sender, from: from, to: to, logger: logger}
}

// Recipient returns the address digests are sent to.
func (e *EmailNotifier) Recipient() string { return e.to }

// Notify builds the message and submits it. Any SMTP failure is returned.
func (e *EmailNotifier) Notify(ctx context.Context, d model.Digest) error {
	msg, err := e.message(d)
	if err != nil {
		return err
	}
	if err := e.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", e.to, err)
	}
	e.logger.Info("email sent", "to", e.to, "subject", d.Subject)
	return nil
}

func (e *EmailNotifier) message(d model.Digest) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(e.from); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(e.to); err != nil {
		return nil, fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(d.Subject)
	msg.SetBodyString(mail.TypeTextHTML, d.HTML)
	return msg, nil
}
