// Package admin implements the operator commands of cmd/admin.
package admin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/blogmirror/internal/common"
	"github.com/dmitrijs2005/blogmirror/internal/server/export"
	"github.com/dmitrijs2005/blogmirror/internal/server/services"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// SingleWriterNote is shown before commands that write the mirror workbook.
// The server's lock is per process, so the server must not run meanwhile.
const SingleWriterNote = "stop the blog server first: the mirror workbook allows a single writing process"

var ErrUsage = errors.New("usage: admin <export | delete-account -u <username> -e <email>>; " + SingleWriterNote)

type AccountDeleter interface {
	DeleteAccount(ctx context.Context, userName, email, password string) (services.DeletionState, error)
}

type SnapshotExporter interface {
	Export(ctx context.Context) (*export.Result, error)
}

type CLI struct {
	users    AccountDeleter
	exporter SnapshotExporter
	out      io.Writer
}

func NewCLI(users AccountDeleter, exporter SnapshotExporter, out io.Writer) *CLI {
	return &CLI{users: users, exporter: exporter, out: out}
}

// Run executes the command named by args[0].
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "export":
		return c.export(ctx)
	case "delete-account":
		return c.deleteAccount(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], ErrUsage)
	}
}

func (c *CLI) export(ctx context.Context) error {
	res, err := c.exporter.Export(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "uploaded %d bytes to s3://%s/%s\n", res.Size, res.Bucket, res.Key)
	if res.DownloadURL != "" {
		fmt.Fprintf(c.out, "download (valid 15m): %s\n", res.DownloadURL)
	}
	return nil
}

func (c *CLI) deleteAccount(ctx context.Context, args []string) error {
	var userName, email string

	fs := flag.NewFlagSet("delete-account", flag.ContinueOnError)
	fs.SetOutput(c.out)
	fs.StringVar(&userName, "u", "", "username")
	fs.StringVar(&email, "e", "", "email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if userName == "" || email == "" {
		return ErrUsage
	}

	fmt.Fprintln(c.out, SingleWriterNote)

	password, err := c.password()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	state, err := c.users.DeleteAccount(ctx, userName, email, string(password))
	fmt.Fprintf(c.out, "account %s: %s\n", userName, state)
	return err
}

// password prompts on c.out and reads from the terminal without echo.
func (c *CLI) password() ([]byte, error) {
	if _, err := fmt.Fprint(c.out, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
