package repositories

import (
	"context"

	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/repositories/models"
)

// Repository is the user store.
type Repository interface {
	Close(ctx context.Context) error
	// FindUserByID returns ErrNotFound if no user has the id.
	FindUserByID(ctx context.Context, id types.UserID) (*models.User, error)
	// FindUserByUsername returns ErrNotFound if no user has the name.
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	// CreateUser returns ErrNameExists if the username is taken.
	CreateUser(ctx context.Context, username string, hashedPassword string) (*models.User, error)
}
