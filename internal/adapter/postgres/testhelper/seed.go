package testhelper

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qamqor/screening-bot/internal/domain"
)

var userSeq atomic.Int64

func init() {
	userSeq.Store(time.Now().UnixNano() / 1000)
}

// NextUserID returns a Telegram id not used by any other test in this run.
func NextUserID() int64 {
	return userSeq.Add(1)
}

// UniqueCode returns a digit-only patient code outside the sequence range.
func UniqueCode() string {
	return "9" + strconv.FormatInt(NextUserID(), 10)
}

// SeedPatient inserts a consented patient with a unique id and code.
func SeedPatient(t *testing.T, pool *pgxpool.Pool, lang domain.Language) domain.Patient {
	t.Helper()

	p := domain.Patient{
		UserID:       NextUserID(),
		Code:         UniqueCode(),
		Language:     lang,
		ConsentGiven: true,
		RegisteredAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO patients (telegram_id, patient_code, language, consent_given, registered_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.UserID, p.Code, string(p.Language), p.ConsentGiven, p.RegisteredAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPatient: %v", err)
	}
	return p
}

// SeedResult inserts a survey result for the patient completed at completedAt.
func SeedResult(t *testing.T, pool *pgxpool.Pool, p domain.Patient, inst domain.Instrument, answers []int, completedAt time.Time) domain.SurveyResult {
	t.Helper()

	total := 0
	ans := make([]int32, len(answers))
	for i, a := range answers {
		total += a
		ans[i] = int32(a)
	}

	r := domain.SurveyResult{
		ID:          uuid.New(),
		UserID:      p.UserID,
		Instrument:  inst,
		Answers:     answers,
		TotalScore:  total,
		Band:        domain.BandMinimal,
		CompletedAt: completedAt.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO survey_results (id, telegram_id, survey_type, answers, total_score, level, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.UserID, string(r.Instrument), ans, r.TotalScore, string(r.Band), r.CompletedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedResult: %v", err)
	}
	return r
}
