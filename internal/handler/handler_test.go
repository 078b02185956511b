package handler

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/noahform/intake/internal/database"
	"github.com/noahform/intake/internal/email"
	"github.com/noahform/intake/internal/metrics"
	"github.com/noahform/intake/internal/store"
	"github.com/noahform/intake/internal/token"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testIssuer() *token.Issuer {
	return token.NewIssuer(token.Config{
		Secret:   "handler-secret",
		Issuer:   "noahform.be",
		Audience: "noahform-users",
		TTL:      24 * time.Hour,
	})
}

type recordingTransport struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (r *recordingTransport) Send(ctx context.Context, msg email.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingTransport) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type intakeFixture struct {
	db        *sql.DB
	store     *store.IntakeStore
	transport *recordingTransport
	handler   *IntakeHandler
}

func setupIntakeHandler(t *testing.T) *intakeFixture {
	t.Helper()
	db := setupDB(t)
	is := store.NewIntakeStore(db)
	tr := &recordingTransport{}
	n := email.NewNotifier(tr, email.NotifierConfig{
		From:       email.Address{Name: "Intake Formulier", Email: "noreply@example.com"},
		AdminEmail: "admin@example.com",
		Timeout:    time.Second,
	}, discardLogger())

	h := NewIntakeHandler(is, n, "https://calendly.com/its-noahcpt/1-1-intake", metrics.New(), discardLogger())
	return &intakeFixture{db: db, store: is, transport: tr, handler: h}
}
