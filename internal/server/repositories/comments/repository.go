// Package comments stores post comments in the primary store.
package comments

import (
	"context"

	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	// ListByPost returns the comments of a post oldest first; an empty result
	// is not an error here.
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
	// Update rewrites the content and refreshes CreatedAt.
	Update(ctx context.Context, c *models.Comment) error
	Delete(ctx context.Context, id int64) error
	DeleteByPost(ctx context.Context, postID int64) (int64, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}
