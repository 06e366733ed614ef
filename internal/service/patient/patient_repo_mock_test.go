package patient

import (
	"context"
	"github.com/qamqor/screening-bot/internal/domain"
	"sync"
)

var _ patientRepo = &patientRepoMock{}

type patientRepoMock struct {
	GetByUserIDFunc func(ctx context.Context, userID int64) (*domain.Patient, error)
	GetLanguageFunc func(ctx context.Context, userID int64) (domain.Language, error)
	NextCodeSeqFunc func(ctx context.Context) (int64, error)
	CreateFunc      func(ctx context.Context, p *domain.Patient) (*domain.Patient, bool, error)
	SetLanguageFunc func(ctx context.Context, userID int64, lang domain.Language) error

	calls struct {
		GetByUserID []struct {
			Ctx    context.Context
			UserID int64
		}
		GetLanguage []struct {
			Ctx    context.Context
			UserID int64
		}
		NextCodeSeq []struct {
			Ctx context.Context
		}
		Create []struct {
			Ctx context.Context
			P   *domain.Patient
		}
		SetLanguage []struct {
			Ctx    context.Context
			UserID int64
			Lang   domain.Language
		}
	}
	lockGetByUserID sync.RWMutex
	lockGetLanguage sync.RWMutex
	lockNextCodeSeq sync.RWMutex
	lockCreate      sync.RWMutex
	lockSetLanguage sync.RWMutex
}

func (mock *patientRepoMock) GetByUserID(ctx context.Context, userID int64) (*domain.Patient, error) {
	if mock.GetByUserIDFunc == nil {
		panic("patientRepoMock.GetByUserIDFunc: method is nil but patientRepo.GetByUserID was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID int64
	}{Ctx: ctx, UserID: userID}
	mock.lockGetByUserID.Lock()
	mock.calls.GetByUserID = append(mock.calls.GetByUserID, callInfo)
	mock.lockGetByUserID.Unlock()
	return mock.GetByUserIDFunc(ctx, userID)
}

func (mock *patientRepoMock) GetByUserIDCalls() []struct {
	Ctx    context.Context
	UserID int64
} {
	mock.lockGetByUserID.RLock()
	calls := mock.calls.GetByUserID
	mock.lockGetByUserID.RUnlock()
	return calls
}

func (mock *patientRepoMock) GetLanguage(ctx context.Context, userID int64) (domain.Language, error) {
	if mock.GetLanguageFunc == nil {
		panic("patientRepoMock.GetLanguageFunc: method is nil but patientRepo.GetLanguage was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID int64
	}{Ctx: ctx, UserID: userID}
	mock.lockGetLanguage.Lock()
	mock.calls.GetLanguage = append(mock.calls.GetLanguage, callInfo)
	mock.lockGetLanguage.Unlock()
	return mock.GetLanguageFunc(ctx, userID)
}

func (mock *patientRepoMock) GetLanguageCalls() []struct {
	Ctx    context.Context
	UserID int64
} {
	mock.lockGetLanguage.RLock()
	calls := mock.calls.GetLanguage
	mock.lockGetLanguage.RUnlock()
	return calls
}

func (mock *patientRepoMock) NextCodeSeq(ctx context.Context) (int64, error) {
	if mock.NextCodeSeqFunc == nil {
		panic("patientRepoMock.NextCodeSeqFunc: method is nil but patientRepo.NextCodeSeq was just called")
	}
	callInfo := struct{ Ctx context.Context }{Ctx: ctx}
	mock.lockNextCodeSeq.Lock()
	mock.calls.NextCodeSeq = append(mock.calls.NextCodeSeq, callInfo)
	mock.lockNextCodeSeq.Unlock()
	return mock.NextCodeSeqFunc(ctx)
}

func (mock *patientRepoMock) NextCodeSeqCalls() []struct {
	Ctx context.Context
} {
	mock.lockNextCodeSeq.RLock()
	calls := mock.calls.NextCodeSeq
	mock.lockNextCodeSeq.RUnlock()
	return calls
}

func (mock *patientRepoMock) Create(ctx context.Context, p *domain.Patient) (*domain.Patient, bool, error) {
	if mock.CreateFunc == nil {
		panic("patientRepoMock.CreateFunc: method is nil but patientRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		P   *domain.Patient
	}{Ctx: ctx, P: p}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, p)
}

func (mock *patientRepoMock) CreateCalls() []struct {
	Ctx context.Context
	P   *domain.Patient
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *patientRepoMock) SetLanguage(ctx context.Context, userID int64, lang domain.Language) error {
	if mock.SetLanguageFunc == nil {
		panic("patientRepoMock.SetLanguageFunc: method is nil but patientRepo.SetLanguage was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID int64
		Lang   domain.Language
	}{Ctx: ctx, UserID: userID, Lang: lang}
	mock.lockSetLanguage.Lock()
	mock.calls.SetLanguage = append(mock.calls.SetLanguage, callInfo)
	mock.lockSetLanguage.Unlock()
	return mock.SetLanguageFunc(ctx, userID, lang)
}

func (mock *patientRepoMock) SetLanguageCalls() []struct {
	Ctx    context.Context
	UserID int64
	Lang   domain.Language
} {
	mock.lockSetLanguage.RLock()
	calls := mock.calls.SetLanguage
	mock.lockSetLanguage.RUnlock()
	return calls
}
