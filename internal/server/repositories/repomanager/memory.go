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

// MemoryRepositoryManager hands out the same process-local repositories for
// every DBTX. Pair it with dbx.NopTxRunner.
type MemoryRepositoryManager struct {
	users        *users.MemoryRepository
	posts        *posts.MemoryRepository
	comments     *comments.MemoryRepository
	loginHistory *loginhistory.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:        users.NewMemoryRepository(),
		posts:        posts.NewMemoryRepository(),
		comments:     comments.NewMemoryRepository(),
		loginHistory: loginhistory.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) Posts(dbx.DBTX) posts.Repository { return m.posts }

func (m *MemoryRepositoryManager) Comments(dbx.DBTX) comments.Repository { return m.comments }

func (m *MemoryRepositoryManager) LoginHistory(dbx.DBTX) loginhistory.Repository {
	return m.loginHistory
}
