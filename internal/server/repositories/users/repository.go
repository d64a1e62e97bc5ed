// Package users stores registered accounts in the primary store.
package users

import (
	"context"

	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID and CreatedAt. A username or email
	// collision yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	GetByUserNameAndEmail(ctx context.Context, userName, email string) (*models.User, error)
	ExistsByUserNameOrEmail(ctx context.Context, userName, email string) (bool, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
}
