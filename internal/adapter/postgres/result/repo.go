// Package result implements the survey result repository using PostgreSQL.
// Results are append-only.
package result

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/qamqor/screening-bot/internal/adapter/postgres"
	"github.com/qamqor/screening-bot/internal/domain"
)

const table = "survey_results"

var columns = []string{"id", "telegram_id", "survey_type", "answers", "total_score", "level", "completed_at"}

// Repo provides survey result persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new survey result repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a completed survey and returns the stored row.
func (r *Repo) Create(ctx context.Context, res *domain.SurveyResult) (*domain.SurveyResult, error) {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns(columns...).
		Values(res.ID, res.UserID, string(res.Instrument), toInt32(res.Answers), res.TotalScore, string(res.Band), res.CompletedAt).
		Suffix("RETURNING id, telegram_id, survey_type, answers, total_score, level, completed_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	saved, err := scanResult(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "survey_result", res.ID)
	}
	return &saved, nil
}

// ListByPatientCode returns up to limit results of the patient, newest first.
// An unknown code yields an empty slice.
func (r *Repo) ListByPatientCode(ctx context.Context, code string, limit int) ([]domain.SurveyResult, error) {
	query, args, err := postgres.Builder.
		Select("r.id", "r.telegram_id", "r.survey_type", "r.answers", "r.total_score", "r.level", "r.completed_at").
		From(table + " r").
		Join("patients p ON p.telegram_id = r.telegram_id").
		Where(squirrel.Eq{"p.patient_code": code}).
		OrderBy("r.completed_at DESC", "r.id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list survey_results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.SurveyResult, 0, limit)
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan survey_result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list survey_results: %w", err)
	}
	return results, nil
}

func scanResult(row pgx.Row) (domain.SurveyResult, error) {
	var (
		res     domain.SurveyResult
		inst    string
		band    string
		answers []int32
	)
	if err := row.Scan(&res.ID, &res.UserID, &inst, &answers, &res.TotalScore, &band, &res.CompletedAt); err != nil {
		return domain.SurveyResult{}, err
	}
	res.Instrument = domain.Instrument(inst)
	res.Band = domain.Band(band)
	res.Answers = make([]int, len(answers))
	for i, a := range answers {
		res.Answers[i] = int(a)
	}
	return res, nil
}

func toInt32(in []int) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}
