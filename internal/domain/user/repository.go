package user

import (
	"context"

	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// Repository is the persistence port for users. The finders return
// (nil, nil) when no user matches.
type Repository interface {
	Save(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id identity.UserID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id identity.UserID) error
	Exists(ctx context.Context, id identity.UserID) (bool, error)
}
