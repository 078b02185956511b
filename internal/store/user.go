package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/noahform/intake/internal/model"
)

// UserStore reads admin users. Users are provisioned out-of-band (cmd/useradd).
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var name, role sql.NullString
	err := scanner.Scan(&u.ID, &u.Email, &u.PasswordHash, &name, &role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	// Rows created by older tooling may carry NULL name/role.
	u.Name = name.String
	u.Role = role.String
	if u.Role == "" {
		u.Role = "user"
	}
	return &u, nil
}

const userCols = `id, email, password, name, role, created_at`

func (s *UserStore) Create(ctx context.Context, email, passwordHash, name, role string) (*model.User, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, password, name, role) VALUES (?, ?, ?, ?)`,
		email, passwordHash, name, role,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email = ? LIMIT 1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}
