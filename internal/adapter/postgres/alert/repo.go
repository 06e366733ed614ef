// Package alert implements the safety alert repository using PostgreSQL.
// Alerts are never deleted; only the read flag changes.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/qamqor/screening-bot/internal/adapter/postgres"
	"github.com/qamqor/screening-bot/internal/domain"
)

const table = "alerts"

var columns = []string{"id", "telegram_id", "patient_code", "alert_type", "question_answer", "created_at", "is_read"}

// Repo provides alert persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new alert repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts an unread alert.
func (r *Repo) Create(ctx context.Context, a *domain.Alert) (*domain.Alert, error) {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns(columns...).
		Values(a.ID, a.UserID, a.PatientCode, string(a.Category), a.Answer, a.CreatedAt, false).
		Suffix("RETURNING id, telegram_id, patient_code, alert_type, question_answer, created_at, is_read").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	saved, err := scanAlert(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "alert", a.ID)
	}
	return &saved, nil
}

// ListUnread returns unread alerts, newest first.
func (r *Repo) ListUnread(ctx context.Context) ([]domain.Alert, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"is_read": false}).
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// MarkAllRead flags every unread alert as read. Idempotent.
func (r *Repo) MarkAllRead(ctx context.Context) (int64, error) {
	return r.markRead(ctx, squirrel.Eq{"is_read": false})
}

// MarkReadUpTo flags unread alerts created at or before t as read.
func (r *Repo) MarkReadUpTo(ctx context.Context, t time.Time) (int64, error) {
	return r.markRead(ctx, squirrel.And{
		squirrel.Eq{"is_read": false},
		squirrel.LtOrEq{"created_at": t},
	})
}

func (r *Repo) markRead(ctx context.Context, where squirrel.Sqlizer) (int64, error) {
	query, args, err := postgres.Builder.
		Update(table).
		Set("is_read", true).
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark alerts read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanAlert(row pgx.Row) (domain.Alert, error) {
	var (
		a        domain.Alert
		category string
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.PatientCode, &category, &a.Answer, &a.CreatedAt, &a.Read); err != nil {
		return domain.Alert{}, err
	}
	a.Category = domain.AlertCategory(category)
	return a, nil
}
