package survey

import (
	"context"
	"github.com/qamqor/screening-bot/internal/domain"
	"sync"
)

var _ resultRepo = &resultRepoMock{}

type resultRepoMock struct {
	CreateFunc            func(ctx context.Context, result *domain.SurveyResult) (*domain.SurveyResult, error)
	ListByPatientCodeFunc func(ctx context.Context, code string, limit int) ([]domain.SurveyResult, error)

	calls struct {
		Create []struct {
			Ctx    context.Context
			Result *domain.SurveyResult
		}
		ListByPatientCode []struct {
			Ctx   context.Context
			Code  string
			Limit int
		}
	}
	lockCreate            sync.RWMutex
	lockListByPatientCode sync.RWMutex
}

func (mock *resultRepoMock) Create(ctx context.Context, result *domain.SurveyResult) (*domain.SurveyResult, error) {
	if mock.CreateFunc == nil {
		panic("resultRepoMock.CreateFunc: method is nil but resultRepo.Create was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Result *domain.SurveyResult
	}{Ctx: ctx, Result: result}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, result)
}

func (mock *resultRepoMock) CreateCalls() []struct {
	Ctx    context.Context
	Result *domain.SurveyResult
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *resultRepoMock) ListByPatientCode(ctx context.Context, code string, limit int) ([]domain.SurveyResult, error) {
	if mock.ListByPatientCodeFunc == nil {
		panic("resultRepoMock.ListByPatientCodeFunc: method is nil but resultRepo.ListByPatientCode was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Code  string
		Limit int
	}{Ctx: ctx, Code: code, Limit: limit}
	mock.lockListByPatientCode.Lock()
	mock.calls.ListByPatientCode = append(mock.calls.ListByPatientCode, callInfo)
	mock.lockListByPatientCode.Unlock()
	return mock.ListByPatientCodeFunc(ctx, code, limit)
}

func (mock *resultRepoMock) ListByPatientCodeCalls() []struct {
	Ctx   context.Context
	Code  string
	Limit int
} {
	mock.lockListByPatientCode.RLock()
	calls := mock.calls.ListByPatientCode
	mock.lockListByPatientCode.RUnlock()
	return calls
}
