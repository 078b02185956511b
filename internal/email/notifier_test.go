package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/noahform/intake/internal/model"
)

type fakeTransport struct {
	mu        sync.Mutex
	sent      []Message
	err       error
	ctxErrs   []error
	deadlines []bool
}

func (f *fakeTransport) Send(ctx context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	_, hasDeadline := ctx.Deadline()
	f.deadlines = append(f.deadlines, hasDeadline)
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testIntake() *model.Intake {
	return &model.Intake{
		ID:              1,
		Voornaam:        "Noah",
		Achternaam:      "O&#039;Brien",
		Email:           "noah@example.com",
		Telefoon:        "+32 470 12 34 56",
		Leeftijd:        29,
		Lengte:          "182",
		Gewicht:         "80",
		Beroep:          "Developer",
		Blessures:       "&lt;geen&gt;",
		Struggle:        "Consistentie",
		TrainFrequentie: "3x per week",
		Uiteten:         "1x per week",
		VoedingAanpak:   "Intuitief",
		Doelen:          "Sterker worden",
		Importance:      8,
		Actie:           "ja",
		StartNu:         "nee",
		CreatedAt:       time.Date(2026, 5, 4, 13, 14, 15, 0, time.UTC),
	}
}

func newTestNotifier(tr Transport, admin string) *Notifier {
	return NewNotifier(tr, NotifierConfig{
		From:       Address{Name: "Intake Formulier", Email: "noreply@example.com"},
		AdminEmail: admin,
		Timeout:    time.Second,
	}, discardLogger())
}

func TestSendAdminNotice(t *testing.T) {
	tr := &fakeTransport{}
	n := newTestNotifier(tr, "admin@example.com")

	if err := n.SendAdminNotice(context.Background(), testIntake()); err != nil {
		t.Fatalf("SendAdminNotice: %v", err)
	}
	if len(tr.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(tr.sent))
	}
	msg := tr.sent[0]

	if msg.To.Email != "admin@example.com" {
		t.Errorf("To = %q, want admin", msg.To.Email)
	}
	if msg.From.Email != "noreply@example.com" {
		t.Errorf("From = %q", msg.From.Email)
	}
	if msg.ReplyTo.Email != "noah@example.com" || msg.ReplyTo.Name != "Noah O'Brien" {
		t.Errorf("ReplyTo = %+v", msg.ReplyTo)
	}
	if msg.Subject != "🏋️ Nieuwe Intake: Noah O'Brien" {
		t.Errorf("Subject = %q", msg.Subject)
	}

	for _, want := range []string{"Noah O&#039;Brien", "&lt;geen&gt;", "29 jaar", "8/10", "mailto:noah@example.com", "04-05-2026 13:14:15", "Meer info gewenst"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Contains(msg.HTML, "&amp;#039;") {
		t.Error("HTML body is double-escaped")
	}
	for _, want := range []string{"Naam: Noah O'Brien", "Blessures: <geen>", "Telefoon: +32 470 12 34 56", "Belangrijkheid: 8/10"} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("Text missing %q", want)
		}
	}
}

func TestSendAdminNoticeNoPhone(t *testing.T) {
	tr := &fakeTransport{}
	n := newTestNotifier(tr, "admin@example.com")

	rec := testIntake()
	rec.Telefoon = ""
	if err := n.SendAdminNotice(context.Background(), rec); err != nil {
		t.Fatalf("SendAdminNotice: %v", err)
	}
	if !strings.Contains(tr.sent[0].Text, "Telefoon: Niet opgegeven") {
		t.Error("expected placeholder for missing phone")
	}
}

func TestSendAdminNoticeWithoutAdmin(t *testing.T) {
	tr := &fakeTransport{}
	n := newTestNotifier(tr, "")

	err := n.SendAdminNotice(context.Background(), testIntake())
	if !errors.Is(err, ErrNoAdminAddress) {
		t.Fatalf("err = %v, want ErrNoAdminAddress", err)
	}
	if len(tr.sent) != 0 {
		t.Error("expected nothing sent")
	}
}

func TestSendClientConfirmation(t *testing.T) {
	tr := &fakeTransport{}
	n := newTestNotifier(tr, "admin@example.com")

	link := "https://calendly.com/its-noahcpt/1-1-intake?email=noah%40example.com&name=Noah&phone="
	if err := n.SendClientConfirmation(context.Background(), testIntake(), link); err != nil {
		t.Fatalf("SendClientConfirmation: %v", err)
	}
	msg := tr.sent[0]

	if msg.To.Email != "noah@example.com" || msg.To.Name != "Noah O'Brien" {
		t.Errorf("To = %+v", msg.To)
	}
	if !msg.ReplyTo.IsZero() {
		t.Errorf("ReplyTo = %+v, want empty", msg.ReplyTo)
	}
	if msg.Subject != "Bedankt voor je aanmelding! 🎯" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "Bedankt Noah!") {
		t.Error("HTML missing greeting")
	}
	if !strings.Contains(msg.HTML, `href="https://calendly.com/its-noahcpt/1-1-intake?email=noah%40example.com&amp;name=Noah&amp;phone="`) {
		t.Error("HTML missing escaped call-to-action link")
	}
	if !strings.Contains(msg.Text, "Plan je kennismakingsgesprek: "+link) {
		t.Error("Text missing call-to-action link")
	}
}

func TestSendClientConfirmationWithoutLink(t *testing.T) {
	tr := &fakeTransport{}
	n := newTestNotifier(tr, "admin@example.com")

	if err := n.SendClientConfirmation(context.Background(), testIntake(), ""); err != nil {
		t.Fatalf("SendClientConfirmation: %v", err)
	}
	msg := tr.sent[0]
	if strings.Contains(msg.HTML, "Plan Afspraak In") || strings.Contains(msg.Text, "kennismakingsgesprek:") {
		t.Error("expected no call-to-action without a link")
	}
}

func TestSendTransportError(t *testing.T) {
	tr := &fakeTransport{err: errors.New("connection refused")}
	n := newTestNotifier(tr, "admin@example.com")

	err := n.SendClientConfirmation(context.Background(), testIntake(), "")
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("err = %v, want wrapped transport error", err)
	}
}

func TestSendIgnoresCallerCancellation(t *testing.T) {
	tr := &fakeTransport{}
	n := newTestNotifier(tr, "admin@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.SendAdminNotice(ctx, testIntake()); err != nil {
		t.Fatalf("SendAdminNotice: %v", err)
	}
	if tr.ctxErrs[0] != nil {
		t.Errorf("send context err = %v, want nil", tr.ctxErrs[0])
	}
	if !tr.deadlines[0] {
		t.Error("expected send context to carry the mail timeout")
	}
}
