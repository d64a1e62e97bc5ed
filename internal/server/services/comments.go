package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogmirror/internal/common"
	"github.com/dmitrijs2005/blogmirror/internal/logging"
	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

type CommentService struct {
	store  Store
	mirror Mirror
	logger logging.Logger
}

func NewCommentService(store Store, mirror Mirror, logger logging.Logger) *CommentService {
	return &CommentService{store: store, mirror: mirror, logger: logger.With("module", "comments")}
}

// Create stores a comment on an existing post and mirrors it.
func (s *CommentService) Create(ctx context.Context, userID, postID int64, content string) (*models.Comment, error) {
	if err := validateComment(content); err != nil {
		return nil, err
	}

	if _, err := s.store.Repos.Posts(s.store.DB).GetByID(ctx, postID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading post: %w", err)
	}

	c, err := s.store.Repos.Comments(s.store.DB).Create(ctx, &models.Comment{PostID: postID, UserID: userID, Content: content})
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}

	if _, err := s.mirror.RecordComment(ctx, c); err != nil {
		s.logger.Warn(ctx, "comment not mirrored", "comment_id", c.ID, "error", err)
	}

	return c, nil
}

// ListByPost returns the comments of a post; none at all is common.ErrNotFound.
func (s *CommentService) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	list, err := s.store.Repos.Comments(s.store.DB).ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	if len(list) == 0 {
		return nil, common.ErrNotFound
	}
	return list, nil
}

func (s *CommentService) authored(ctx context.Context, userID, id int64) (*models.Comment, error) {
	c, err := s.store.Repos.Comments(s.store.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading comment: %w", err)
	}
	if c.UserID != userID {
		return nil, common.ErrForbidden
	}
	return c, nil
}

func (s *CommentService) Update(ctx context.Context, userID, id int64, content string) (*models.Comment, error) {
	if err := validateComment(content); err != nil {
		return nil, err
	}

	c, err := s.authored(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	c.Content = content
	if err := s.store.Repos.Comments(s.store.DB).Update(ctx, c); err != nil {
		return nil, fmt.Errorf("error updating comment: %w", err)
	}
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.authored(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.Repos.Comments(s.store.DB).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	return nil
}
