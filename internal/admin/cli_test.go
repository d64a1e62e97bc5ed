package admin

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogmirror/internal/common"
	"github.com/dmitrijs2005/blogmirror/internal/server/export"
	"github.com/dmitrijs2005/blogmirror/internal/server/services"
)

type fakeDeleter struct {
	user, email, password string
	state                 services.DeletionState
	err                   error
}

func (f *fakeDeleter) DeleteAccount(_ context.Context, userName, email, password string) (services.DeletionState, error) {
	f.user, f.email, f.password = userName, email, password
	return f.state, f.err
}

type fakeExporter struct {
	res *export.Result
	err error
}

func (f fakeExporter) Export(context.Context) (*export.Result, error) { return f.res, f.err }

func stubPassword(t *testing.T, pw string, err error) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(int) ([]byte, error) {
		if err != nil {
			return nil, err
		}
		return []byte(pw), nil
	}
}

func TestRun_Usage(t *testing.T) {
	c := NewCLI(&fakeDeleter{}, fakeExporter{}, &bytes.Buffer{})

	err := c.Run(context.Background(), nil)
	require.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, err.Error(), "stop the blog server first")
	require.ErrorIs(t, c.Run(context.Background(), []string{"frobnicate"}), ErrUsage)
	require.ErrorIs(t, c.Run(context.Background(), []string{"delete-account", "-u", "alice"}), ErrUsage)
}

func TestRun_DeleteAccount(t *testing.T) {
	stubPassword(t, "secret1", nil)

	d := &fakeDeleter{state: services.DeletionDeleted}
	out := &bytes.Buffer{}
	c := NewCLI(d, fakeExporter{}, out)

	err := c.Run(context.Background(), []string{"delete-account", "-u", "alice", "-e", "alice@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "alice", d.user)
	assert.Equal(t, "alice@example.com", d.email)
	assert.Equal(t, "secret1", d.password)
	assert.Contains(t, out.String(), SingleWriterNote)
	assert.Contains(t, out.String(), "Enter password: ")
	assert.Contains(t, out.String(), "account alice: deleted")
}

func TestRun_DeleteAccountRejected(t *testing.T) {
	stubPassword(t, "wrong", nil)

	d := &fakeDeleter{state: services.DeletionRejected, err: common.ErrInvalidCredentials}
	out := &bytes.Buffer{}
	c := NewCLI(d, fakeExporter{}, out)

	err := c.Run(context.Background(), []string{"delete-account", "-u", "alice", "-e", "alice@example.com"})
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Contains(t, out.String(), "account alice: rejected")
}

func TestRun_DeleteAccountPasswordReadError(t *testing.T) {
	stubPassword(t, "", errors.New("not a terminal"))

	d := &fakeDeleter{}
	c := NewCLI(d, fakeExporter{}, &bytes.Buffer{})

	err := c.Run(context.Background(), []string{"delete-account", "-u", "alice", "-e", "alice@example.com"})
	require.Error(t, err)
	assert.Empty(t, d.user, "deletion must not start without a password")
}

func TestRun_Export(t *testing.T) {
	out := &bytes.Buffer{}
	c := NewCLI(&fakeDeleter{}, fakeExporter{res: &export.Result{
		Bucket:      "blog",
		Key:         "mirror/2024/03/07/x.xlsx",
		Size:        42,
		DownloadURL: "http://minio/blog/x",
	}}, out)

	require.NoError(t, c.Run(context.Background(), []string{"export"}))
	assert.Contains(t, out.String(), "uploaded 42 bytes to s3://blog/mirror/2024/03/07/x.xlsx")
	assert.Contains(t, out.String(), "http://minio/blog/x")
}

func TestRun_ExportError(t *testing.T) {
	boom := errors.New("boom")
	c := NewCLI(&fakeDeleter{}, fakeExporter{err: boom}, &bytes.Buffer{})

	require.ErrorIs(t, c.Run(context.Background(), []string{"export"}), boom)
}
