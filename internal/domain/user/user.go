// Package user provides the account aggregate and its roles.
package user

import (
	"strings"
	"time"

	"github.com/conveyor-ci/conveyor/internal/domain/event"
	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// Role grants a fixed set of permissions.
type Role string

const (
	// RoleAdmin has full access.
	RoleAdmin Role = "Admin"

	// RoleDeveloper can build and deploy.
	RoleDeveloper Role = "Developer"

	// RoleViewer has read-only access.
	RoleViewer Role = "Viewer"

	// RoleService marks machine accounts used for API access.
	RoleService Role = "Service"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDeveloper, RoleViewer, RoleService:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// User is the aggregate root for an account. The password hash is stored
// opaquely; hashing is the caller's concern.
type User struct {
	id           identity.UserID
	username     string
	email        string
	fullName     string
	passwordHash string
	role         Role
	active       bool
	lastLogin    time.Time
	createdAt    time.Time
	updatedAt    time.Time

	event.Buffer
}

// New creates an active user and emits UserCreated. Usernames need at
// least three characters; emails get only a minimal shape check.
func New(username, email, passwordHash string, role Role) (*User, error) {
	if len(username) < 3 {
		return nil, fault.Validation("username must be at least 3 characters")
	}
	if !strings.Contains(email, "@") {
		return nil, fault.Validation("invalid email address")
	}
	if !role.IsValid() {
		return nil, fault.Validationf("unknown role %q", role)
	}

	now := time.Now()
	u := &User{
		id:           identity.NewUserID(),
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}

	u.Append(event.UserCreated{
		UserID:   u.id,
		Username: username,
		Email:    email,
		Role:     string(role),
		At:       now,
	})

	return u, nil
}

// ID returns the user ID.
func (u *User) ID() identity.UserID { return u.id }

// Username returns the username.
func (u *User) Username() string { return u.username }

// Email returns the email address.
func (u *User) Email() string { return u.email }

// FullName returns the display name.
func (u *User) FullName() string { return u.fullName }

// Role returns the user's role.
func (u *User) Role() Role { return u.role }

// IsActive reports whether the account is active.
func (u *User) IsActive() bool { return u.active }

// IsAdmin reports whether the user has the Admin role.
func (u *User) IsAdmin() bool { return u.role == RoleAdmin }

// PasswordHash returns the stored hash.
func (u *User) PasswordHash() string { return u.passwordHash }

// LastLogin returns the last recorded login, zero if never logged in.
func (u *User) LastLogin() time.Time { return u.lastLogin }

// CreatedAt returns when the account was created.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns when the account was last mutated.
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// UpdatePassword replaces the password hash and emits UserPasswordChanged.
func (u *User) UpdatePassword(newHash string) {
	u.passwordHash = newHash
	u.updatedAt = time.Now()
	u.Append(event.UserPasswordChanged{UserID: u.id, At: u.updatedAt})
}

// UpdateEmail replaces the email address.
func (u *User) UpdateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return fault.Validation("invalid email address")
	}
	u.email = email
	u.updatedAt = time.Now()
	return nil
}

// SetFullName sets the display name.
func (u *User) SetFullName(name string) {
	u.fullName = name
	u.updatedAt = time.Now()
}

// UpdateRole changes the user's role.
func (u *User) UpdateRole(role Role) error {
	if !role.IsValid() {
		return fault.Validationf("unknown role %q", role)
	}
	u.role = role
	u.updatedAt = time.Now()
	return nil
}

// Deactivate disables the account and emits UserDeactivated. Deactivating
// an inactive account is a no-op.
func (u *User) Deactivate() {
	if !u.active {
		return
	}
	u.active = false
	u.updatedAt = time.Now()
	u.Append(event.UserDeactivated{UserID: u.id, At: u.updatedAt})
}

// Activate re-enables the account. No event is emitted.
func (u *User) Activate() {
	if u.active {
		return
	}
	u.active = true
	u.updatedAt = time.Now()
}

// RecordLogin stamps the last login time.
func (u *User) RecordLogin() {
	u.lastLogin = time.Now()
	u.updatedAt = u.lastLogin
}
