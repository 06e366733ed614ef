package survey

import (
	"context"
	"github.com/qamqor/screening-bot/internal/domain"
	"sync"
)

var _ patientRepo = &patientRepoMock{}

type patientRepoMock struct {
	GetByUserIDFunc func(ctx context.Context, userID int64) (*domain.Patient, error)

	calls struct {
		GetByUserID []struct {
			Ctx    context.Context
			UserID int64
		}
	}
	lockGetByUserID sync.RWMutex
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
