package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/blogmirror/internal/logging"
	"github.com/dmitrijs2005/blogmirror/internal/mirror"
	"github.com/dmitrijs2005/blogmirror/internal/server/auth"
	"github.com/dmitrijs2005/blogmirror/internal/server/config"
	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

type testEnv struct {
	store    Store
	creds    *auth.Manager
	recorder *mirror.Recorder
	users    *UserService
	posts    *PostService
	comments *CommentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, NewMemoryStore(), nil)
}

// newTestEnvWith wires services over store. A nil m means a real recorder
// over a memory sink.
func newTestEnvWith(t *testing.T, store Store, m Mirror) *testEnv {
	t.Helper()

	creds := auth.NewManager(&config.Config{
		SecretKey:                   "test-secret",
		BcryptCost:                  bcrypt.MinCost,
		AccessTokenValidityDuration: time.Hour,
	})
	log := logging.Nop()

	env := &testEnv{store: store, creds: creds}
	if m == nil {
		env.recorder = mirror.NewRecorder(mirror.NewMemorySink(), log)
		m = env.recorder
	}

	env.users = NewUserService(store, creds, m, log)
	env.posts = NewPostService(store, log)
	env.comments = NewCommentService(store, m, log)
	return env
}

func (e *testEnv) register(t *testing.T, name, email, password string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), name, email, password)
	require.NoError(t, err)
	return u
}

func (e *testEnv) mirrorRows(t *testing.T, table mirror.Table) []mirror.Row {
	t.Helper()
	require.NotNil(t, e.recorder, "env built with a fake mirror")
	rows, err := e.recorder.Rows(context.Background(), table)
	require.NoError(t, err)
	return rows
}

// fakeMirror counts calls and fails every one of them with err.
type fakeMirror struct {
	mu    sync.Mutex
	err   error
	calls map[string]int
}

func newFakeMirror(err error) *fakeMirror {
	return &fakeMirror{err: err, calls: make(map[string]int)}
}

func (f *fakeMirror) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeMirror) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeMirror) RecordUser(ctx context.Context, u *models.User) (int64, error) {
	return 0, f.record("user")
}

func (f *fakeMirror) RecordLogin(ctx context.Context, e *models.LoginEvent) (int64, error) {
	return 0, f.record("login")
}

func (f *fakeMirror) RecordComment(ctx context.Context, c *models.Comment) (int64, error) {
	return 0, f.record("comment")
}

func (f *fakeMirror) RecordDeleteByOwner(ctx context.Context, userID int64, postIDs ...int64) (int, error) {
	return 0, f.record("delete")
}
