// Package stats computes the admin dashboard counters.
package stats

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/qamqor/screening-bot/internal/adapter/postgres"
	"github.com/qamqor/screening-bot/internal/domain"
)

// Repo runs aggregate queries over patients, results and alerts.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new stats repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Aggregate returns all dashboard counters from a single snapshot.
func (r *Repo) Aggregate(ctx context.Context) (domain.Stats, error) {
	query, args, err := postgres.Builder.
		Select(
			"(SELECT count(*) FROM patients)",
			"(SELECT count(*) FROM survey_results)",
			"(SELECT count(*) FROM survey_results WHERE survey_type = 'GAD7')",
			"(SELECT count(*) FROM survey_results WHERE survey_type = 'PHQ9')",
			"(SELECT count(*) FROM alerts WHERE NOT is_read)",
		).
		ToSql()
	if err != nil {
		return domain.Stats{}, fmt.Errorf("build query: %w", err)
	}

	var s domain.Stats
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&s.TotalPatients, &s.TotalSurveys, &s.GAD7Count, &s.PHQ9Count, &s.UnreadAlerts,
	)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("aggregate stats: %w", err)
	}
	return s, nil
}
