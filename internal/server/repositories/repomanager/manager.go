// Package repomanager vends repository implementations for one backend and
// knows how to prepare that backend's schema.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/blogmirror/internal/dbx"
	"github.com/dmitrijs2005/blogmirror/internal/server/repositories/comments"
	"github.com/dmitrijs2005/blogmirror/internal/server/repositories/loginhistory"
	"github.com/dmitrijs2005/blogmirror/internal/server/repositories/posts"
	"github.com/dmitrijs2005/blogmirror/internal/server/repositories/users"
)

// RepositoryManager binds repositories to a DBTX, which is either the pool or
// an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Posts(db dbx.DBTX) posts.Repository
	Comments(db dbx.DBTX) comments.Repository
	LoginHistory(db dbx.DBTX) loginhistory.Repository
}
