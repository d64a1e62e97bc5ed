package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogmirror/internal/common"
	"github.com/dmitrijs2005/blogmirror/internal/dbx"
	"github.com/dmitrijs2005/blogmirror/internal/logging"
	"github.com/dmitrijs2005/blogmirror/internal/server/auth"
	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

type UserService struct {
	store  Store
	creds  *auth.Manager
	mirror Mirror
	logger logging.Logger
}

func NewUserService(store Store, creds *auth.Manager, mirror Mirror, logger logging.Logger) *UserService {
	return &UserService{
		store:  store,
		creds:  creds,
		mirror: mirror,
		logger: logger.With("module", "users"),
	}
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	AccessToken string
	User        *models.User
}

// Register validates the input, stores a new user with a bcrypt hash of
// password and mirrors it. A taken username or email gives
// common.ErrAlreadyExists without saying which one.
func (s *UserService) Register(ctx context.Context, userName, email, password string) (*models.User, error) {
	if err := validateRegistration(userName, email, password); err != nil {
		return nil, err
	}

	repo := s.store.Repos.Users(s.store.DB)

	exists, err := repo.ExistsByUserNameOrEmail(ctx, userName, email)
	if err != nil {
		return nil, fmt.Errorf("error checking user: %w", err)
	}
	if exists {
		return nil, common.ErrAlreadyExists
	}

	hash, err := s.creds.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := repo.Create(ctx, &models.User{UserName: userName, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	if _, err := s.mirror.RecordUser(ctx, user); err != nil {
		s.logger.Warn(ctx, "user not mirrored", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// Login checks email and password, records the login and issues an access
// token. Unknown email and wrong password both give
// common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.Repos.Users(s.store.DB).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !s.creds.Verify(password, user.PasswordHash) {
		s.logger.Info(ctx, "login rejected", "user_id", user.ID)
		return nil, common.ErrInvalidCredentials
	}

	event, err := s.store.Repos.LoginHistory(s.store.DB).Create(ctx, &models.LoginEvent{UserID: user.ID})
	if err != nil {
		return nil, fmt.Errorf("error recording login: %w", err)
	}

	if _, err := s.mirror.RecordLogin(ctx, event); err != nil {
		s.logger.Warn(ctx, "login not mirrored", "user_id", user.ID, "error", err)
	}

	token, err := s.creds.AccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{AccessToken: token, User: user}, nil
}

// Authenticate resolves a bearer token to a user that still exists.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := s.creds.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Repos.Users(s.store.DB).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// FindID looks up the account registered with both userName and email.
func (s *UserService) FindID(ctx context.Context, userName, email string) (*models.User, error) {
	user, err := s.store.Repos.Users(s.store.DB).GetByUserNameAndEmail(ctx, userName, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// ResetPassword replaces the password of the matching account with a random
// one and returns it. The plaintext is not kept anywhere.
func (s *UserService) ResetPassword(ctx context.Context, userName, email string) (string, error) {
	user, err := s.FindID(ctx, userName, email)
	if err != nil {
		return "", err
	}

	password, err := s.creds.TemporaryPassword()
	if err != nil {
		return "", fmt.Errorf("error generating password: %w", err)
	}

	hash, err := s.creds.Hash(password)
	if err != nil {
		return "", err
	}

	if err := s.store.Repos.Users(s.store.DB).UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return "", fmt.Errorf("error updating password: %w", err)
	}

	s.logger.Info(ctx, "password reset", "user_id", user.ID)
	return password, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userName, oldPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	repo := s.store.Repos.Users(s.store.DB)

	user, err := repo.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}

	if !s.creds.Verify(oldPassword, user.PasswordHash) {
		return common.ErrInvalidCredentials
	}

	hash, err := s.creds.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	s.logger.Info(ctx, "password changed", "user_id", user.ID)
	return nil
}

// removeUserData deletes everything owned by userID in one transaction:
// the user's comments, comments on the user's posts, login history, posts
// and finally the user row. It returns the ids of the removed posts.
func (s *UserService) removeUserData(ctx context.Context, userID int64) ([]int64, error) {
	var postIDs []int64
	err := s.store.Tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		postIDs = nil
		comments := s.store.Repos.Comments(tx)
		posts := s.store.Repos.Posts(tx)

		if _, err := comments.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("error deleting comments: %w", err)
		}

		owned, err := posts.ListByOwner(ctx, userID)
		if err != nil {
			return fmt.Errorf("error listing posts: %w", err)
		}
		for _, p := range owned {
			postIDs = append(postIDs, p.ID)
			if _, err := comments.DeleteByPost(ctx, p.ID); err != nil {
				return fmt.Errorf("error deleting comments of post %d: %w", p.ID, err)
			}
		}

		if _, err := s.store.Repos.LoginHistory(tx).DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("error deleting login history: %w", err)
		}

		if _, err := posts.DeleteByOwner(ctx, userID); err != nil {
			return fmt.Errorf("error deleting posts: %w", err)
		}

		if err := s.store.Repos.Users(tx).Delete(ctx, userID); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return postIDs, nil
}
