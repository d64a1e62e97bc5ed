package server

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogmirror/internal/logging"
	"github.com/dmitrijs2005/blogmirror/internal/mirror"
	"github.com/dmitrijs2005/blogmirror/internal/server/config"
	gs "github.com/dmitrijs2005/blogmirror/internal/server/grpc"
	"github.com/dmitrijs2005/blogmirror/internal/server/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = ""
	cfg.BcryptCost = 4
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.EndpointAddrGRPC = "127.0.0.1:0"
	cfg.MirrorPath = filepath.Join(t.TempDir(), "data_log.xlsx")
	return cfg
}

func TestNewApp_MemoryStoreEndToEnd(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, testConfig(t), logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	u, err := app.Users().Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = app.Users().Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	rows, err := app.Recorder().Rows(ctx, mirror.LoginHistory)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	state, err := app.Users().DeleteAccount(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, services.DeletionDeleted, state)

	rows, err = app.Recorder().Rows(ctx, mirror.Users)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotZero(t, u.ID)

	assert.True(t, app.Health().Statuses()[gs.ComponentMirror])
}

func TestNewApp_DatabaseOpenError(t *testing.T) {
	orig := openPostgres
	t.Cleanup(func() { openPostgres = orig })

	openPostgres = func(context.Context, string) (*sql.DB, error) {
		return nil, errors.New("connection refused")
	}

	cfg := testConfig(t)
	cfg.DatabaseDSN = "postgres://nowhere"

	_, err := NewApp(context.Background(), cfg, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}

func TestNewApp_MirrorOpenError(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	cfg.MirrorPath = filepath.Join(blocker, "data_log.xlsx")

	_, err := NewApp(context.Background(), cfg, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mirror init error")
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t), logging.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRun_ReturnsServerError(t *testing.T) {
	cfg := testConfig(t)
	cfg.EndpointAddrGRPC = "127.0.0.1:99999"

	app, err := NewApp(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestWatchStore_ReportsPingOutcome(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("down"))

	app := &App{db: db, logger: logging.Nop(), health: gs.NewHealth(gs.ComponentStore)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		app.watchStore(ctx, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		return !app.Health().Statuses()[gs.ComponentStore]
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
