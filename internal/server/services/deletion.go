package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogmirror/internal/common"
)

// DeletionState tracks an account deletion request.
//
//	Requested -> Verified -> Deleted
//	Requested -> Rejected
type DeletionState int

const (
	DeletionRequested DeletionState = iota
	DeletionVerified
	DeletionDeleted
	DeletionRejected
)

func (s DeletionState) String() string {
	switch s {
	case DeletionRequested:
		return "requested"
	case DeletionVerified:
		return "verified"
	case DeletionDeleted:
		return "deleted"
	case DeletionRejected:
		return "rejected"
	default:
		return fmt.Sprintf("DeletionState(%d)", int(s))
	}
}

// DeleteAccount removes the account identified by userName and email once
// password verifies against the stored hash. Rejection leaves every row in
// place and returns common.ErrNotFound or common.ErrInvalidCredentials.
//
// The returned state is DeletionVerified when the primary transaction
// failed, so nothing was removed.
func (s *UserService) DeleteAccount(ctx context.Context, userName, email, password string) (DeletionState, error) {
	state := DeletionRequested

	user, err := s.store.Repos.Users(s.store.DB).GetByUserNameAndEmail(ctx, userName, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info(ctx, "account deletion rejected", "reason", "unknown account", "from", state.String())
			return DeletionRejected, common.ErrNotFound
		}
		return state, fmt.Errorf("error loading user: %w", err)
	}

	if !s.creds.Verify(password, user.PasswordHash) {
		s.logger.Info(ctx, "account deletion rejected", "reason", "bad password", "user_id", user.ID, "from", state.String())
		return DeletionRejected, common.ErrInvalidCredentials
	}
	state = DeletionVerified

	postIDs, err := s.removeUserData(ctx, user.ID)
	if err != nil {
		return state, err
	}
	state = DeletionDeleted

	s.logger.Info(ctx, "account deleted", "user_id", user.ID)

	if _, err := s.mirror.RecordDeleteByOwner(ctx, user.ID, postIDs...); err != nil {
		s.logger.Warn(ctx, "account deletion not mirrored", "user_id", user.ID, "error", err)
	}

	return state, nil
}
