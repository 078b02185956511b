package store

import (
	"context"
	"testing"

	"github.com/noahform/intake/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreate(t *testing.T) {
	us := setupUserTestDB(t)
	ctx := context.Background()

	u, err := us.Create(ctx, "noah@example.com", "$2a$10$hash", "Noah", "admin")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if u.Email != "noah@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "noah@example.com")
	}
	if u.PasswordHash != "$2a$10$hash" {
		t.Errorf("password hash = %q, want %q", u.PasswordHash, "$2a$10$hash")
	}
	if u.Role != "admin" {
		t.Errorf("role = %q, want %q", u.Role, "admin")
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us := setupUserTestDB(t)
	ctx := context.Background()

	if _, err := us.Create(ctx, "noah@example.com", "h", "Noah", "admin"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create(ctx, "noah@example.com", "h2", "Noah 2", "user"); err == nil {
		t.Fatal("expected error for duplicate email, got nil")
	}
}

func TestUserGetByEmail(t *testing.T) {
	us := setupUserTestDB(t)
	ctx := context.Background()

	created, err := us.Create(ctx, "noah@example.com", "h", "Noah", "admin")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	u, err := us.GetByEmail(ctx, "noah@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.ID != created.ID {
		t.Errorf("id = %d, want %d", u.ID, created.ID)
	}
	if u.Name != "Noah" {
		t.Errorf("name = %q, want %q", u.Name, "Noah")
	}
}

func TestUserGetByEmailIsExact(t *testing.T) {
	us := setupUserTestDB(t)
	ctx := context.Background()

	if _, err := us.Create(ctx, "noah@example.com", "h", "Noah", "admin"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	for _, email := range []string{"nobody@example.com", "noah@example", "%@example.com"} {
		u, err := us.GetByEmail(ctx, email)
		if err != nil {
			t.Fatalf("get by email %q: %v", email, err)
		}
		if u != nil {
			t.Errorf("GetByEmail(%q) = %+v, want nil", email, u)
		}
	}
}

func TestUserNullNameAndRole(t *testing.T) {
	us := setupUserTestDB(t)
	ctx := context.Background()

	// Simulate a row written by external tooling that left name/role empty.
	if _, err := us.db.Exec(`INSERT INTO users (email, password, name, role) VALUES ('old@example.com', 'h', '', '')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	u, err := us.GetByEmail(ctx, "old@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u.Role != "user" {
		t.Errorf("role = %q, want %q", u.Role, "user")
	}
	if u.Name != "" {
		t.Errorf("name = %q, want empty", u.Name)
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent user")
	}
}
