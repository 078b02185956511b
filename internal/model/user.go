package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the user data carried inside an auth token.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (u *User) Identity() Identity {
	role := u.Role
	if role == "" {
		role = "user"
	}
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name, Role: role}
}
