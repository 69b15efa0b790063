package user

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/deskpulse/deskpulse/internal/domain/user/valueobjects"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
)

const maxNameLength = 255

// User is an account that can open tickets or, with the admin role, handle them.
type User struct {
	id           uint
	name         string
	email        *vo.Email
	passwordHash string
	role         authorization.UserRole
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a user. passwordHash must already be hashed.
func NewUser(name string, email *vo.Email, passwordHash string, role authorization.UserRole) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return nil, fmt.Errorf("name exceeds maximum length of %d characters", maxNameLength)
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	now := time.Now().UTC()
	return &User{
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructUser reconstructs a user from persistence
func ReconstructUser(
	id uint,
	name string,
	email *vo.Email,
	passwordHash string,
	role authorization.UserRole,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if email == nil {
		return nil, fmt.Errorf("email is required")
	}

	return &User{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         authorization.ParseUserRole(role.String()),
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Email() *vo.Email {
	return u.email
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) Role() authorization.UserRole {
	return u.role
}

func (u *User) IsAdmin() bool {
	return u.role.IsAdmin()
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// Principal returns the authorization principal for this user.
func (u *User) Principal() authorization.Principal {
	return authorization.NewPrincipal(u.id, u.role)
}

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// PromoteToAdmin grants the admin role. Used by seeding.
func (u *User) PromoteToAdmin() {
	if u.role.IsAdmin() {
		return
	}
	u.role = authorization.RoleAdmin
	u.updatedAt = time.Now().UTC()
}

// Profile is the public view of a user embedded in messages and comments.
type Profile struct {
	ID   uint
	Name string
	Role authorization.UserRole
}

func (u *User) Profile() Profile {
	return Profile{ID: u.id, Name: u.name, Role: u.role}
}
