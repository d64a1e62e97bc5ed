package loginhistory

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blogmirror/internal/dbx"
	"github.com/dmitrijs2005/blogmirror/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores e. A zero LoginTime means now on the database clock.
func (r *PostgresRepository) Create(ctx context.Context, e *models.LoginEvent) (*models.LoginEvent, error) {

	query :=
		`INSERT INTO login_history (user_id, login_time)
		 VALUES ($1, COALESCE($2, now()))
		 RETURNING id, login_time
		 `

	var at any
	if !e.LoginTime.IsZero() {
		at = e.LoginTime
	}

	if err := r.db.QueryRowContext(ctx, query, e.UserID, at).Scan(&e.ID, &e.LoginTime); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.LoginEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, login_time FROM login_history WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.LoginEvent
	for rows.Next() {
		var e models.LoginEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.LoginTime); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM login_history WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
