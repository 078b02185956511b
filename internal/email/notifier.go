package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"text/template"
	"time"

	"github.com/noahform/intake/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Stored intake values are already HTML-escaped, so the HTML bodies are
// rendered with text/template and the plaintext bodies unescape them.
var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"plain": html.UnescapeString,
}).ParseFS(templateFS, "templates/*.tmpl"))

const (
	adminSubjectPrefix = "🏋️ Nieuwe Intake: "
	clientSubject      = "Bedankt voor je aanmelding! 🎯"
	receivedAtLayout   = "02-01-2006 15:04:05"
)

// ErrNoAdminAddress is returned when no admin recipient is configured.
var ErrNoAdminAddress = errors.New("admin email address not configured")

type NotifierConfig struct {
	From       Address
	AdminEmail string
	Timeout    time.Duration
}

// Notifier renders intake mails and hands them to a Transport.
type Notifier struct {
	transport Transport
	from      Address
	admin     string
	timeout   time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func NewNotifier(t Transport, cfg NotifierConfig, logger *slog.Logger) *Notifier {
	return &Notifier{
		transport: t,
		from:      cfg.From,
		admin:     cfg.AdminEmail,
		timeout:   cfg.Timeout,
		now:       time.Now,
		logger:    logger.With("component", "notifier"),
	}
}

type templateData struct {
	Intake      *model.Intake
	ReceivedAt  string
	RedirectURL string
}

// SendAdminNotice mails the full submission to the admin with Reply-To set
// to the submitter.
func (n *Notifier) SendAdminNotice(ctx context.Context, rec *model.Intake) error {
	if n.admin == "" {
		return ErrNoAdminAddress
	}

	data := templateData{Intake: rec, ReceivedAt: n.receivedAt(rec)}
	htmlBody, textBody, err := render("admin", data)
	if err != nil {
		return err
	}

	msg := Message{
		From:    n.from,
		To:      Address{Email: n.admin},
		ReplyTo: submitter(rec),
		Subject: adminSubjectPrefix + html.UnescapeString(rec.FullName()),
		HTML:    htmlBody,
		Text:    textBody,
	}
	return n.send(ctx, msg)
}

// SendClientConfirmation thanks the submitter. A non-empty redirectURL adds
// a link to book the intake call.
func (n *Notifier) SendClientConfirmation(ctx context.Context, rec *model.Intake, redirectURL string) error {
	data := templateData{Intake: rec, ReceivedAt: n.receivedAt(rec), RedirectURL: redirectURL}
	htmlBody, textBody, err := render("client", data)
	if err != nil {
		return err
	}

	msg := Message{
		From:    n.from,
		To:      submitter(rec),
		Subject: clientSubject,
		HTML:    htmlBody,
		Text:    textBody,
	}
	return n.send(ctx, msg)
}

// send is detached from the caller's cancellation so a client disconnect
// does not abort delivery, but is still bounded by the configured timeout.
func (n *Notifier) send(ctx context.Context, msg Message) error {
	ctx = context.WithoutCancel(ctx)
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	if err := n.transport.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %q: %w", msg.Subject, err)
	}
	n.logger.Debug("mail sent", "to", msg.To.Email, "subject", msg.Subject)
	return nil
}

func (n *Notifier) receivedAt(rec *model.Intake) string {
	t := rec.CreatedAt
	if t.IsZero() {
		t = n.now()
	}
	return t.Format(receivedAtLayout)
}

func submitter(rec *model.Intake) Address {
	return Address{
		Name:  html.UnescapeString(rec.FullName()),
		Email: html.UnescapeString(rec.Email),
	}
}

func render(name string, data templateData) (string, string, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := templates.ExecuteTemplate(&htmlBuf, name+".html.tmpl", data); err != nil {
		return "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	if err := templates.ExecuteTemplate(&textBuf, name+".txt.tmpl", data); err != nil {
		return "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}
