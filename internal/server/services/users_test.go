package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogmirror/internal/common"
	"github.com/dmitrijs2005/blogmirror/internal/mirror"
)

func TestRegister_StoresHashAndMirrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.users.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	stored, err := env.store.Repos.Users(nil).GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.True(t, env.creds.Verify("pw1", stored.PasswordHash))

	rows := env.mirrorRows(t, mirror.Users)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0][mirror.IDColumn])
	assert.Equal(t, "1", rows[0]["user_id"])
	assert.Equal(t, "alice", rows[0]["username"])
	assert.Equal(t, "a@x.com", rows[0]["email"])
	for _, v := range rows[0] {
		assert.NotContains(t, v, "pw1")
	}
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name, user, email, password string
	}{
		{"empty username", "", "a@x.io", "pass"},
		{"blank username", "   ", "a@x.io", "pass"},
		{"long username", strings.Repeat("u", 51), "a@x.io", "pass"},
		{"bad email", "alice", "not-an-email", "pass"},
		{"empty email", "alice", "", "pass"},
		{"empty password", "alice", "a@x.io", ""},
		{"password over 72 bytes", "alice", "a@x.io", strings.Repeat("p", 73)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Register(context.Background(), tt.user, tt.email, tt.password)
			assert.ErrorIs(t, err, common.ErrValidationFailed)
		})
	}

	assert.Empty(t, env.mirrorRows(t, mirror.Users))
}

func TestRegister_DuplicatesAreGeneric(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "a@x.io", "pass")

	_, errName := env.users.Register(context.Background(), "alice", "other@x.io", "pass")
	_, errMail := env.users.Register(context.Background(), "other", "a@x.io", "pass")

	require.ErrorIs(t, errName, common.ErrAlreadyExists)
	require.ErrorIs(t, errMail, common.ErrAlreadyExists)
	assert.Equal(t, errName.Error(), errMail.Error(), "the message must not reveal which field collided")
	assert.Len(t, env.mirrorRows(t, mirror.Users), 1)
}

func TestRegister_MirrorFailureIsSwallowed(t *testing.T) {
	fm := newFakeMirror(fmt.Errorf("%w: disk full", common.ErrMirrorWriteFailed))
	env := newTestEnvWith(t, NewMemoryStore(), fm)

	u, err := env.users.Register(context.Background(), "alice", "a@x.io", "pass")
	require.NoError(t, err)
	assert.Equal(t, 1, fm.count("user"))

	_, err = env.store.Repos.Users(nil).GetByID(context.Background(), u.ID)
	assert.NoError(t, err, "the primary write stays")
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "alice", "a@x.io", "pass")

	res, err := env.users.Login(context.Background(), "a@x.io", "pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	id, err := env.creds.VerifyToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	events, err := env.store.Repos.LoginHistory(nil).ListByUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	rows := env.mirrorRows(t, mirror.LoginHistory)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["user_id"])
	assert.NotEmpty(t, rows[0]["login_time"])
}

func TestLogin_Rejections(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "a@x.io", "pass")

	_, errPw := env.users.Login(context.Background(), "a@x.io", "wrong")
	_, errMail := env.users.Login(context.Background(), "nobody@x.io", "pass")

	assert.ErrorIs(t, errPw, common.ErrInvalidCredentials)
	assert.ErrorIs(t, errMail, common.ErrInvalidCredentials)
	assert.Equal(t, errPw.Error(), errMail.Error())
	assert.Empty(t, env.mirrorRows(t, mirror.LoginHistory))
}

func TestLogin_MirrorFailureStillIssuesToken(t *testing.T) {
	fm := newFakeMirror(common.ErrMirrorWriteFailed)
	env := newTestEnvWith(t, NewMemoryStore(), fm)
	env.register(t, "alice", "a@x.io", "pass")

	res, err := env.users.Login(context.Background(), "a@x.io", "pass")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, 1, fm.count("login"))
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "alice", "a@x.io", "pass")

	res, err := env.users.Login(ctx, "a@x.io", "pass")
	require.NoError(t, err)

	got, err := env.users.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName)

	_, err = env.users.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	require.NoError(t, env.store.Repos.Users(nil).Delete(ctx, u.ID))
	_, err = env.users.Authenticate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, common.ErrInvalidCredentials, "tokens of removed users stop working")
}

func TestFindID(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "a@x.io", "pass")

	u, err := env.users.FindID(context.Background(), "alice", "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.UserName)

	_, err = env.users.FindID(context.Background(), "alice", "b@x.io")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice", "a@x.io", "pass")

	temp, err := env.users.ResetPassword(ctx, "alice", "a@x.io")
	require.NoError(t, err)
	assert.NotEmpty(t, temp)

	_, err = env.users.Login(ctx, "a@x.io", "pass")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = env.users.Login(ctx, "a@x.io", temp)
	assert.NoError(t, err)

	_, err = env.users.ResetPassword(ctx, "alice", "wrong@x.io")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice", "a@x.io", "pass")

	assert.ErrorIs(t, env.users.ChangePassword(ctx, "alice", "wrong", "newpass"), common.ErrInvalidCredentials)
	assert.ErrorIs(t, env.users.ChangePassword(ctx, "alice", "pass", ""), common.ErrValidationFailed)
	assert.ErrorIs(t, env.users.ChangePassword(ctx, "bob", "pass", "newpass"), common.ErrNotFound)

	require.NoError(t, env.users.ChangePassword(ctx, "alice", "pass", "newpass"))

	_, err := env.users.Login(ctx, "a@x.io", "pass")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = env.users.Login(ctx, "a@x.io", "newpass")
	assert.NoError(t, err)
}
