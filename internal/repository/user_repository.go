package repository

import (
	"context"

	"github.com/jamdate/jamdate-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*domain.User, error)
	// LockByID takes a row lock on the user for the rest of the transaction.
	LockByID(ctx context.Context, id int) error
	UpdatePhoto(ctx context.Context, id int, photo string) error
	Delete(ctx context.Context, id int) error
}
