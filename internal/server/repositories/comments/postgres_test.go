package comments

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogmirror/internal/common"
	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

var commentCols = []string{"id", "post_id", "user_id", "content", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	q := `(?s)^INSERT\s+INTO\s+comments\s*\(post_id,\s*user_id,\s*content\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`
	mock.ExpectQuery(q).WithArgs(int64(4), int64(1), "nice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), now))
	mock.ExpectQuery(q).WithArgs(int64(4), int64(1), "nice").
		WillReturnError(errors.New("fk violation"))

	c, err := repo.Create(context.Background(), &models.Comment{PostID: 4, UserID: 1, Content: "nice"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), c.ID)

	_, err = repo.Create(context.Background(), &models.Comment{PostID: 4, UserID: 1, Content: "nice"})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*fk violation`, err.Error())
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	q := `(?s)^SELECT\s+id,\s*post_id,\s*user_id,\s*content,\s*created_at\s+FROM\s+comments\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectQuery(q).WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(commentCols).AddRow(int64(10), int64(4), int64(1), "nice", now))
	mock.ExpectQuery(q).WithArgs(int64(11)).WillReturnError(sql.ErrNoRows)

	c, err := repo.GetByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, models.Comment{ID: 10, PostID: 4, UserID: 1, Content: "nice", CreatedAt: now}, *c)

	_, err = repo.GetByID(context.Background(), 11)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListByPost(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	q := `(?s)^SELECT\s+.+\s+FROM\s+comments\s+WHERE\s+post_id\s*=\s*\$1\s+ORDER\s+BY\s+id$`
	mock.ExpectQuery(q).WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(commentCols).
			AddRow(int64(1), int64(4), int64(1), "first", now).
			AddRow(int64(2), int64(4), int64(2), "second", now))
	mock.ExpectQuery(q).WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows(commentCols))

	list, err := repo.ListByPost(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[1].Content)

	list, err = repo.ListByPost(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdate_RefreshesTimestamp(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	later := time.Now().UTC().Add(time.Hour)

	q := `(?s)^UPDATE\s+comments\s+SET\s+content\s*=\s*\$1,\s*created_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$2\s+RETURNING\s+created_at\s*$`
	mock.ExpectQuery(q).WithArgs("edited", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(later))
	mock.ExpectQuery(q).WithArgs("edited", int64(2)).WillReturnError(sql.ErrNoRows)

	c := &models.Comment{ID: 1, Content: "edited"}
	require.NoError(t, repo.Update(context.Background(), c))
	assert.Equal(t, later, c.CreatedAt)

	assert.ErrorIs(t, repo.Update(context.Background(), &models.Comment{ID: 2, Content: "edited"}), common.ErrNotFound)
}

func TestDeletes(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+comments\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+comments\s+WHERE\s+post_id\s*=\s*\$1$`).
		WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+comments\s+WHERE\s+user_id\s*=\s*\$1$`).
		WithArgs(int64(9)).WillReturnError(errors.New("locked"))

	assert.ErrorIs(t, repo.Delete(context.Background(), 1), common.ErrNotFound)

	n, err := repo.DeleteByPost(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.DeleteByUser(context.Background(), 9)
	require.Error(t, err)
	assert.Regexp(t, `db error: .*locked`, err.Error())
}
