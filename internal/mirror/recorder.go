package mirror

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/blogmirror/internal/common"
	"github.com/dmitrijs2005/blogmirror/internal/logging"
	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

// HealthComponent is the name the recorder reports its state under.
const HealthComponent = "mirror"

// StatusReporter receives the outcome of every mirror write.
type StatusReporter interface {
	Report(component string, healthy bool)
}

// Recorder applies create and delete events to a Sink. Each event is a full
// load, modify and store cycle run under one mutex, so concurrent writers in
// this process never lose rows.
type Recorder struct {
	mu     sync.Mutex
	sink   Sink
	logger logging.Logger
	status StatusReporter
}

type Option func(*Recorder)

func WithStatusReporter(s StatusReporter) Option {
	return func(r *Recorder) { r.status = s }
}

func NewRecorder(sink Sink, logger logging.Logger, opts ...Option) *Recorder {
	r := &Recorder{
		sink:   sink,
		logger: logger.With("module", "mirror"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordCreate appends fields to table under the next mirror id and returns
// that id. Errors wrap common.ErrMirrorWriteFailed.
func (r *Recorder) RecordCreate(ctx context.Context, table Table, fields Row) (int64, error) {
	if columns[table] == nil {
		return 0, fmt.Errorf("%w: unknown table %q", common.ErrMirrorWriteFailed, table)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.sink.Load(ctx)
	if err != nil {
		return 0, r.fail(ctx, "load", err, "table", table)
	}

	id := t.Append(table, fields)

	if err := r.sink.Store(ctx, t); err != nil {
		return 0, r.fail(ctx, "store", err, "table", table)
	}

	r.succeed()
	r.logger.Debug(ctx, "mirror row added", "table", table, "id", id)
	return id, nil
}

// RecordDeleteByOwner removes every row owned by userID from all tables in a
// single store and returns the number of rows removed. Comments rows whose
// post_id is one of postIDs go too, whoever wrote them.
func (r *Recorder) RecordDeleteByOwner(ctx context.Context, userID int64, postIDs ...int64) (int, error) {
	owner := strconv.FormatInt(userID, 10)
	posts := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		posts[strconv.FormatInt(id, 10)] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.sink.Load(ctx)
	if err != nil {
		return 0, r.fail(ctx, "load", err, "user_id", userID)
	}

	removed := 0
	for _, table := range AllTables {
		removed += t.RemoveWhere(table, func(row Row) bool { return row[OwnerColumn] == owner })
	}
	if len(posts) > 0 {
		removed += t.RemoveWhere(Comments, func(row Row) bool { return posts[row["post_id"]] })
	}

	if err := r.sink.Store(ctx, t); err != nil {
		return 0, r.fail(ctx, "store", err, "user_id", userID)
	}

	r.succeed()
	r.logger.Info(ctx, "mirror rows removed", "user_id", userID, "rows", removed)
	return removed, nil
}

func (r *Recorder) RecordUser(ctx context.Context, u *models.User) (int64, error) {
	return r.RecordCreate(ctx, Users, Row{
		OwnerColumn:  strconv.FormatInt(u.ID, 10),
		"username":   u.UserName,
		"email":      u.Email,
		"created_at": formatTime(u.CreatedAt),
	})
}

func (r *Recorder) RecordLogin(ctx context.Context, e *models.LoginEvent) (int64, error) {
	return r.RecordCreate(ctx, LoginHistory, Row{
		OwnerColumn:  strconv.FormatInt(e.UserID, 10),
		"login_time": formatTime(e.LoginTime),
	})
}

func (r *Recorder) RecordComment(ctx context.Context, c *models.Comment) (int64, error) {
	return r.RecordCreate(ctx, Comments, Row{
		"comment_id":  strconv.FormatInt(c.ID, 10),
		"post_id":     strconv.FormatInt(c.PostID, 10),
		OwnerColumn:   strconv.FormatInt(c.UserID, 10),
		"content":     c.Content,
		"create_date": formatTime(c.CreatedAt),
	})
}

// Rows loads the current rows of table.
func (r *Recorder) Rows(ctx context.Context, table Table) ([]Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.sink.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("mirror load: %w", err)
	}
	return t.Rows(table), nil
}

// Snapshot returns the workbook bytes. It holds the mirror lock so the copy
// never contains half of a write.
func (r *Recorder) Snapshot(ctx context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sink.Snapshot(ctx)
}

func (r *Recorder) fail(ctx context.Context, op string, err error, args ...any) error {
	if r.status != nil {
		r.status.Report(HealthComponent, false)
	}
	r.logger.Error(ctx, "mirror write failed", append([]any{"op", op, "error", err}, args...)...)
	return fmt.Errorf("%w: %s: %w", common.ErrMirrorWriteFailed, op, err)
}

func (r *Recorder) succeed() {
	if r.status != nil {
		r.status.Report(HealthComponent, true)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateTime)
}
