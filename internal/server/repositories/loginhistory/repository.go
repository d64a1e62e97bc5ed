// Package loginhistory records successful logins in the primary store.
package loginhistory

import (
	"context"

	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, e *models.LoginEvent) (*models.LoginEvent, error)
	ListByUser(ctx context.Context, userID int64) ([]models.LoginEvent, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}
