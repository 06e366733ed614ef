package telegram

import (
	"context"
	"github.com/qamqor/screening-bot/internal/domain"
	"github.com/qamqor/screening-bot/internal/service/survey"
	"sync"
)

var _ surveyService = &surveyServiceMock{}

type surveyServiceMock struct {
	StartSurveyFunc  func(ctx context.Context, userID int64, inst domain.Instrument) (survey.Step, error)
	SubmitAnswerFunc func(ctx context.Context, in survey.AnswerInput) (survey.Step, error)
	HistoryFunc      func(ctx context.Context, userID int64) ([]domain.SurveyResult, domain.Language, error)

	calls struct {
		StartSurvey []struct {
			Ctx    context.Context
			UserID int64
			Inst   domain.Instrument
		}
		SubmitAnswer []struct {
			Ctx context.Context
			In  survey.AnswerInput
		}
		History []struct {
			Ctx    context.Context
			UserID int64
		}
	}
	lockStartSurvey  sync.RWMutex
	lockSubmitAnswer sync.RWMutex
	lockHistory      sync.RWMutex
}

func (mock *surveyServiceMock) StartSurvey(ctx context.Context, userID int64, inst domain.Instrument) (survey.Step, error) {
	if mock.StartSurveyFunc == nil {
		panic("surveyServiceMock.StartSurveyFunc: method is nil but surveyService.StartSurvey was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID int64
		Inst   domain.Instrument
	}{Ctx: ctx, UserID: userID, Inst: inst}
	mock.lockStartSurvey.Lock()
	mock.calls.StartSurvey = append(mock.calls.StartSurvey, callInfo)
	mock.lockStartSurvey.Unlock()
	return mock.StartSurveyFunc(ctx, userID, inst)
}

func (mock *surveyServiceMock) StartSurveyCalls() []struct {
	Ctx    context.Context
	UserID int64
	Inst   domain.Instrument
} {
	mock.lockStartSurvey.RLock()
	calls := mock.calls.StartSurvey
	mock.lockStartSurvey.RUnlock()
	return calls
}

func (mock *surveyServiceMock) SubmitAnswer(ctx context.Context, in survey.AnswerInput) (survey.Step, error) {
	if mock.SubmitAnswerFunc == nil {
		panic("surveyServiceMock.SubmitAnswerFunc: method is nil but surveyService.SubmitAnswer was just called")
	}
	callInfo := struct {
		Ctx context.Context
		In  survey.AnswerInput
	}{Ctx: ctx, In: in}
	mock.lockSubmitAnswer.Lock()
	mock.calls.SubmitAnswer = append(mock.calls.SubmitAnswer, callInfo)
	mock.lockSubmitAnswer.Unlock()
	return mock.SubmitAnswerFunc(ctx, in)
}

func (mock *surveyServiceMock) SubmitAnswerCalls() []struct {
	Ctx context.Context
	In  survey.AnswerInput
} {
	mock.lockSubmitAnswer.RLock()
	calls := mock.calls.SubmitAnswer
	mock.lockSubmitAnswer.RUnlock()
	return calls
}

func (mock *surveyServiceMock) History(ctx context.Context, userID int64) ([]domain.SurveyResult, domain.Language, error) {
	if mock.HistoryFunc == nil {
		panic("surveyServiceMock.HistoryFunc: method is nil but surveyService.History was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID int64
	}{Ctx: ctx, UserID: userID}
	mock.lockHistory.Lock()
	mock.calls.History = append(mock.calls.History, callInfo)
	mock.lockHistory.Unlock()
	return mock.HistoryFunc(ctx, userID)
}

func (mock *surveyServiceMock) HistoryCalls() []struct {
	Ctx    context.Context
	UserID int64
} {
	mock.lockHistory.RLock()
	calls := mock.calls.History
	mock.lockHistory.RUnlock()
	return calls
}
