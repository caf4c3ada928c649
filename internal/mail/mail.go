// Package mail relays contact form submissions to the site owner over SMTP.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"strings"
	texttemplate "text/template"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/sakif/portfolio/internal/model"
)

// Config is the SMTP account used to send contact mail.
type Config struct {
	Host     string
	Port     int
	Secure   bool // implicit TLS (port 465); otherwise STARTTLS when offered
	Username string
	Password string

	From      string // defaults to Username
	Recipient string // defaults to Username
	Timeout   time.Duration
}

// sender is the part of *gomail.Client the relay uses.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPMailer sends one message per contact submission, dialing the SMTP
// server fresh each time.
type SMTPMailer struct {
	from      string
	recipient string
	client    sender
}

// NewSMTPMailer validates cfg and prepares the SMTP client. No connection is
// made until the first Send.
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	from := firstNonEmpty(cfg.From, cfg.Username)
	recipient := firstNonEmpty(cfg.Recipient, cfg.Username)
	if from == "" || recipient == "" {
		return nil, errors.New("mail: sender and recipient need EMAIL_USER or EMAIL_FROM/EMAIL_RECIPIENT")
	}
	if cfg.Host == "" {
		return nil, errors.New("mail: SMTP host is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSConfig(&tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		}),
	}
	if cfg.Secure {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	if cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(cfg.Timeout))
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: creating SMTP client: %w", err)
	}

	return &SMTPMailer{from: from, recipient: recipient, client: client}, nil
}

// Send delivers msg to the configured recipient with Reply-To set to the
// submitter, so answering the mail answers the visitor.
func (m *SMTPMailer) Send(ctx context.Context, msg model.ContactMessage) error {
	out, err := m.build(msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("mail: sending contact message: %w", err)
	}
	return nil
}

func (m *SMTPMailer) build(msg model.ContactMessage) (*gomail.Msg, error) {
	out := gomail.NewMsg()
	if err := out.From(m.from); err != nil {
		return nil, fmt.Errorf("mail: invalid sender %q: %w", m.from, err)
	}
	if err := out.To(m.recipient); err != nil {
		return nil, fmt.Errorf("mail: invalid recipient %q: %w", m.recipient, err)
	}
	// The visitor's address is not validated; one that does not parse just
	// means the owner replies by hand.
	if err := out.ReplyTo(msg.Email); err != nil {
		slog.Debug("contact email has no usable reply-to",
			slog.String("email", msg.Email),
			slog.String("error", err.Error()),
		)
	}
	out.Subject(Subject(msg))

	text, html, err := renderBodies(msg)
	if err != nil {
		return nil, err
	}
	out.SetBodyString(gomail.TypeTextPlain, text)
	out.AddAlternativeString(gomail.TypeTextHTML, html)
	return out, nil
}

// Subject is the subject line for a contact submission.
func Subject(msg model.ContactMessage) string {
	return "Portfolio Contact: Message from " + msg.Name
}

var textBody = texttemplate.Must(texttemplate.New("text").Parse(
	`Name: {{.Name}}
Email: {{.Email}}

Message:
{{.Message}}
`))

// html/template escapes the visitor's input; only the <br> line breaks are
// markup.
var htmlBody = htmltemplate.Must(htmltemplate.New("html").Funcs(htmltemplate.FuncMap{
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}).Parse(
	`<h3>New Message from Your Portfolio Contact Form</h3>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Message:</strong></p>
<p>{{range $i, $line := lines .Message}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
`))

func renderBodies(msg model.ContactMessage) (text, html string, err error) {
	var tb, hb bytes.Buffer
	if err := textBody.Execute(&tb, msg); err != nil {
		return "", "", fmt.Errorf("mail: rendering text body: %w", err)
	}
	if err := htmlBody.Execute(&hb, msg); err != nil {
		return "", "", fmt.Errorf("mail: rendering html body: %w", err)
	}
	return tb.String(), hb.String(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ErrNotConfigured is returned by Unconfigured.Send.
var ErrNotConfigured = errors.New("mail: contact relay is not configured (set EMAIL_USER)")

// Unconfigured is the mailer used when no SMTP account is set up. Every
// submission fails as a delivery error instead of the route disappearing.
type Unconfigured struct{}

func (Unconfigured) Send(context.Context, model.ContactMessage) error {
	return ErrNotConfigured
}
