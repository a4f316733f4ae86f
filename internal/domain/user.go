package domain

import (
	"context"
	"time"
)

// Role is the application role of a user. Exactly three values exist; a user
// holds one role at a time.
type Role string

const (
	RoleUser      Role = "USER"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole validates a role string from the boundary (request body or token
// claim). Unknown values are rejected rather than propagated.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidInput
}

// CanAuthorEvents reports whether the role may create, edit, or delete events.
func (r Role) CanAuthorEvents() bool {
	return r == RoleOrganizer || r == RoleAdmin
}

// User represents a registered account.
// swagger:model User
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Organization string    `json:"organization,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User. ID is set by the repository on create.
func NewUser(email, passwordHash string, role Role, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// PasswordHasher handles password hashing and verification.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues session tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, email string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the actor it carries.
type TokenVerifier interface {
	Verify(token string) (Actor, error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateRole(ctx context.Context, id int64, role Role) error
}

// UserService defines sign-up, login, and admin user management.
type UserService interface {
	SignUp(ctx context.Context, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	GetByID(ctx context.Context, actor Actor, id int64) (*User, error)
	ListUsers(ctx context.Context, actor Actor) ([]*User, error)
	UpdateUserRole(ctx context.Context, actor Actor, id int64, role Role) (*User, error)
}
