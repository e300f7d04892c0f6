package user

import (
	"errors"
	"testing"

	"github.com/conveyor-ci/conveyor/internal/domain/event"
	"github.com/conveyor-ci/conveyor/internal/domain/fault"
)

func newTestUser() *User {
	u, err := New("testuser", "test@example.com", "hashed", RoleDeveloper)
	if err != nil {
		panic(err)
	}
	return u
}

func TestNew(t *testing.T) {
	u := newTestUser()

	if u.Username() != "testuser" || u.Email() != "test@example.com" {
		t.Errorf("identity fields: %s / %s", u.Username(), u.Email())
	}
	if u.Role() != RoleDeveloper || u.IsAdmin() {
		t.Errorf("Role() = %s", u.Role())
	}
	if !u.IsActive() {
		t.Error("new user inactive")
	}

	events := u.TakeEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	created := events[0].(event.UserCreated)
	if created.Role != "Developer" {
		t.Errorf("event role = %q", created.Role)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("ab", "test@example.com", "h", RoleViewer); !errors.Is(err, fault.ErrValidation) {
		t.Errorf("short username: %v", err)
	}
	if _, err := New("testuser", "not-an-email", "h", RoleViewer); !errors.Is(err, fault.ErrValidation) {
		t.Errorf("bad email: %v", err)
	}
	if _, err := New("testuser", "t@e.com", "h", Role("Root")); !errors.Is(err, fault.ErrValidation) {
		t.Errorf("unknown role: %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	u := newTestUser()
	u.TakeEvents()

	u.UpdatePassword("new-hash")
	if u.PasswordHash() != "new-hash" {
		t.Errorf("PasswordHash() = %q", u.PasswordHash())
	}

	events := u.TakeEvents()
	if len(events) != 1 || events[0].EventName() != "user.password_changed" {
		t.Fatalf("expected user.password_changed, got %v", events)
	}
}

func TestDeactivateIdempotent(t *testing.T) {
	u := newTestUser()
	u.TakeEvents()

	u.Deactivate()
	if u.IsActive() {
		t.Error("user still active")
	}
	events := u.TakeEvents()
	if len(events) != 1 || events[0].EventName() != "user.deactivated" {
		t.Fatalf("expected user.deactivated, got %v", events)
	}

	// Second deactivation emits nothing.
	u.Deactivate()
	if len(u.TakeEvents()) != 0 {
		t.Error("repeated deactivate emitted events")
	}

	u.Activate()
	if !u.IsActive() {
		t.Error("user not reactivated")
	}
	if len(u.TakeEvents()) != 0 {
		t.Error("activate emitted events")
	}
}

func TestUpdateRole(t *testing.T) {
	u := newTestUser()

	if err := u.UpdateRole(RoleAdmin); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if !u.IsAdmin() {
		t.Error("role update not applied")
	}

	if err := u.UpdateRole(Role("SuperUser")); err == nil {
		t.Error("unknown role accepted")
	}
}

func TestUpdateEmail(t *testing.T) {
	u := newTestUser()

	if err := u.UpdateEmail("new@example.com"); err != nil {
		t.Fatalf("UpdateEmail: %v", err)
	}
	if u.Email() != "new@example.com" {
		t.Errorf("Email() = %q", u.Email())
	}

	if err := u.UpdateEmail("nope"); err == nil {
		t.Error("bad email accepted")
	}
}

func TestRecordLogin(t *testing.T) {
	u := newTestUser()
	if !u.LastLogin().IsZero() {
		t.Error("LastLogin set before any login")
	}
	u.RecordLogin()
	if u.LastLogin().IsZero() {
		t.Error("login not recorded")
	}
}
