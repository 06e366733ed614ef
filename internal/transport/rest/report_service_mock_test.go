package rest

import (
	"context"
	"github.com/qamqor/screening-bot/internal/domain"
	"github.com/qamqor/screening-bot/internal/service/report"
	"sync"
)

var _ reportService = &reportServiceMock{}

type reportServiceMock struct {
	StatsFunc         func(ctx context.Context) (domain.Stats, error)
	ListPatientsFunc  func(ctx context.Context, limit int, offset int) (report.PatientPage, error)
	ResultsByCodeFunc func(ctx context.Context, code string, limit int) (report.PatientResults, error)

	calls struct {
		Stats []struct {
			Ctx context.Context
		}
		ListPatients []struct {
			Ctx    context.Context
			Limit  int
			Offset int
		}
		ResultsByCode []struct {
			Ctx   context.Context
			Code  string
			Limit int
		}
	}
	lockStats         sync.RWMutex
	lockListPatients  sync.RWMutex
	lockResultsByCode sync.RWMutex
}

func (mock *reportServiceMock) Stats(ctx context.Context) (domain.Stats, error) {
	if mock.StatsFunc == nil {
		panic("reportServiceMock.StatsFunc: method is nil but reportService.Stats was just called")
	}
	callInfo := struct{ Ctx context.Context }{Ctx: ctx}
	mock.lockStats.Lock()
	mock.calls.Stats = append(mock.calls.Stats, callInfo)
	mock.lockStats.Unlock()
	return mock.StatsFunc(ctx)
}

func (mock *reportServiceMock) StatsCalls() []struct {
	Ctx context.Context
} {
	mock.lockStats.RLock()
	calls := mock.calls.Stats
	mock.lockStats.RUnlock()
	return calls
}

func (mock *reportServiceMock) ListPatients(ctx context.Context, limit int, offset int) (report.PatientPage, error) {
	if mock.ListPatientsFunc == nil {
		panic("reportServiceMock.ListPatientsFunc: method is nil but reportService.ListPatients was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Limit  int
		Offset int
	}{Ctx: ctx, Limit: limit, Offset: offset}
	mock.lockListPatients.Lock()
	mock.calls.ListPatients = append(mock.calls.ListPatients, callInfo)
	mock.lockListPatients.Unlock()
	return mock.ListPatientsFunc(ctx, limit, offset)
}

func (mock *reportServiceMock) ListPatientsCalls() []struct {
	Ctx    context.Context
	Limit  int
	Offset int
} {
	mock.lockListPatients.RLock()
	calls := mock.calls.ListPatients
	mock.lockListPatients.RUnlock()
	return calls
}

func (mock *reportServiceMock) ResultsByCode(ctx context.Context, code string, limit int) (report.PatientResults, error) {
	if mock.ResultsByCodeFunc == nil {
		panic("reportServiceMock.ResultsByCodeFunc: method is nil but reportService.ResultsByCode was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Code  string
		Limit int
	}{Ctx: ctx, Code: code, Limit: limit}
	mock.lockResultsByCode.Lock()
	mock.calls.ResultsByCode = append(mock.calls.ResultsByCode, callInfo)
	mock.lockResultsByCode.Unlock()
	return mock.ResultsByCodeFunc(ctx, code, limit)
}

func (mock *reportServiceMock) ResultsByCodeCalls() []struct {
	Ctx   context.Context
	Code  string
	Limit int
} {
	mock.lockResultsByCode.RLock()
	calls := mock.calls.ResultsByCode
	mock.lockResultsByCode.RUnlock()
	return calls
}
