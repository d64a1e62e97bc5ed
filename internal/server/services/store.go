// Package services holds the blog use cases. Services talk to the primary
// store through repomanager, to the credential manager for passwords and
// tokens, and to the mirror after a primary write succeeded.
package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/blogmirror/internal/dbx"
	"github.com/dmitrijs2005/blogmirror/internal/server/models"
	"github.com/dmitrijs2005/blogmirror/internal/server/repositories/repomanager"
)

// Store bundles the primary store handle, its transaction runner and the
// repository factory.
type Store struct {
	DB    dbx.DBTX
	Tx    dbx.TxRunner
	Repos repomanager.RepositoryManager
}

func NewSQLStore(db *sql.DB, repos repomanager.RepositoryManager) Store {
	return Store{DB: db, Tx: dbx.SQLTxRunner{DB: db}, Repos: repos}
}

// NewMemoryStore is a process-local store without real transactions.
func NewMemoryStore() Store {
	return Store{Tx: dbx.NopTxRunner{}, Repos: repomanager.NewMemoryRepositoryManager()}
}

// Mirror is the secondary sink the services report to. *mirror.Recorder
// implements it. Errors are logged by the caller and never returned.
type Mirror interface {
	RecordUser(ctx context.Context, u *models.User) (int64, error)
	RecordLogin(ctx context.Context, e *models.LoginEvent) (int64, error)
	RecordComment(ctx context.Context, c *models.Comment) (int64, error)
	RecordDeleteByOwner(ctx context.Context, userID int64, postIDs ...int64) (int, error)
}
