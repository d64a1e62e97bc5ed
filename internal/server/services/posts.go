package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogmirror/internal/common"
	"github.com/dmitrijs2005/blogmirror/internal/dbx"
	"github.com/dmitrijs2005/blogmirror/internal/logging"
	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

type PostService struct {
	store  Store
	logger logging.Logger
}

func NewPostService(store Store, logger logging.Logger) *PostService {
	return &PostService{store: store, logger: logger.With("module", "posts")}
}

func (s *PostService) Create(ctx context.Context, ownerID int64, title, content string) (*models.Post, error) {
	if err := validatePost(title, content); err != nil {
		return nil, err
	}

	post, err := s.store.Repos.Posts(s.store.DB).Create(ctx, &models.Post{OwnerID: ownerID, Title: title, Content: content})
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	s.logger.Info(ctx, "post created", "post_id", post.ID, "owner_id", ownerID)
	return post, nil
}

func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	list, err := s.store.Repos.Posts(s.store.DB).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return list, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.store.Repos.Posts(s.store.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading post: %w", err)
	}
	return post, nil
}

// owned loads post id and checks that ownerID wrote it.
func (s *PostService) owned(ctx context.Context, ownerID, id int64) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.OwnerID != ownerID {
		return nil, common.ErrForbidden
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, ownerID, id int64, title, content string) (*models.Post, error) {
	if err := validatePost(title, content); err != nil {
		return nil, err
	}

	post, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content
	if err := s.store.Repos.Posts(s.store.DB).Update(ctx, post); err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}

	return post, nil
}

// Delete removes the post and its comments together.
func (s *PostService) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}

	err := s.store.Tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.store.Repos.Comments(tx).DeleteByPost(ctx, id); err != nil {
			return fmt.Errorf("error deleting comments: %w", err)
		}
		if err := s.store.Repos.Posts(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("error deleting post: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "post deleted", "post_id", id, "owner_id", ownerID)
	return nil
}
