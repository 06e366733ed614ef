// Package patient implements the patient repository using PostgreSQL.
package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/qamqor/screening-bot/internal/adapter/postgres"
	"github.com/qamqor/screening-bot/internal/domain"
)

const table = "patients"

var columns = []string{"telegram_id", "patient_code", "language", "consent_given", "registered_at"}

// Repo provides patient persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new patient repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByUserID returns the patient registered for a Telegram user.
// Returns domain.ErrNotFound if the user never consented.
func (r *Repo) GetByUserID(ctx context.Context, userID int64) (*domain.Patient, error) {
	return r.getOne(ctx, squirrel.Eq{"telegram_id": userID}, userID)
}

// GetByCode returns the patient with the given anonymized code.
func (r *Repo) GetByCode(ctx context.Context, code string) (*domain.Patient, error) {
	return r.getOne(ctx, squirrel.Eq{"patient_code": code}, code)
}

// GetLanguage returns the stored language preference of a patient.
func (r *Repo) GetLanguage(ctx context.Context, userID int64) (domain.Language, error) {
	query, args, err := postgres.Builder.
		Select("language").
		From(table).
		Where(squirrel.Eq{"telegram_id": userID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var lang string
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&lang); err != nil {
		return "", postgres.MapError(err, "patient", userID)
	}
	return domain.Language(lang), nil
}

// List returns patients ordered by registered_at DESC with pagination,
// together with the total number of patients.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.Patient, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := postgres.Builder.Select("count(*)").From(table).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		OrderBy("registered_at DESC", "telegram_id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	patients := make([]domain.Patient, 0, limit)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}

	return patients, total, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// NextCodeSeq draws the next value of patient_code_seq. Values consumed by a
// rolled-back registration are not reused.
func (r *Repo) NextCodeSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, `SELECT nextval('patient_code_seq')`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("nextval patient_code_seq: %w", err)
	}
	return seq, nil
}

// Create inserts a patient. If the Telegram user is already registered nothing
// is written and (nil, false, nil) is returned.
func (r *Repo) Create(ctx context.Context, p *domain.Patient) (*domain.Patient, bool, error) {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns(columns...).
		Values(p.UserID, p.Code, string(p.Language), p.ConsentGiven, p.RegisteredAt).
		Suffix("ON CONFLICT (telegram_id) DO NOTHING RETURNING telegram_id, patient_code, language, consent_given, registered_at").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build query: %w", err)
	}

	created, err := scanPatient(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, postgres.MapError(err, "patient", p.UserID)
	}
	return &created, true, nil
}

// SetLanguage updates the language preference.
// Returns domain.ErrNotFound if the patient does not exist.
func (r *Repo) SetLanguage(ctx context.Context, userID int64, lang domain.Language) error {
	query, args, err := postgres.Builder.
		Update(table).
		Set("language", string(lang)).
		Where(squirrel.Eq{"telegram_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "patient", userID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("patient %d: %w", userID, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) getOne(ctx context.Context, where squirrel.Sqlizer, key any) (*domain.Patient, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	p, err := scanPatient(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "patient", key)
	}
	return &p, nil
}

func scanPatient(row pgx.Row) (domain.Patient, error) {
	var (
		p    domain.Patient
		lang string
	)
	if err := row.Scan(&p.UserID, &p.Code, &lang, &p.ConsentGiven, &p.RegisteredAt); err != nil {
		return domain.Patient{}, err
	}
	p.Language = domain.Language(lang)
	return p, nil
}
