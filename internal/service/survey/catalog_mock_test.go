package survey

import (
	"github.com/qamqor/screening-bot/internal/domain"
	"sync"
)

var _ catalog = &catalogMock{}

type catalogMock struct {
	ResultSummaryFunc func(lang domain.Language, inst domain.Instrument, total int, band domain.Band, critical bool) string

	calls struct {
		ResultSummary []struct {
			Lang     domain.Language
			Inst     domain.Instrument
			Total    int
			Band     domain.Band
			Critical bool
		}
	}
	lockResultSummary sync.RWMutex
}

func (mock *catalogMock) ResultSummary(lang domain.Language, inst domain.Instrument, total int, band domain.Band, critical bool) string {
	if mock.ResultSummaryFunc == nil {
		panic("catalogMock.ResultSummaryFunc: method is nil but catalog.ResultSummary was just called")
	}
	callInfo := struct {
		Lang     domain.Language
		Inst     domain.Instrument
		Total    int
		Band     domain.Band
		Critical bool
	}{Lang: lang, Inst: inst, Total: total, Band: band, Critical: critical}
	mock.lockResultSummary.Lock()
	mock.calls.ResultSummary = append(mock.calls.ResultSummary, callInfo)
	mock.lockResultSummary.Unlock()
	return mock.ResultSummaryFunc(lang, inst, total, band, critical)
}

func (mock *catalogMock) ResultSummaryCalls() []struct {
	Lang     domain.Language
	Inst     domain.Instrument
	Total    int
	Band     domain.Band
	Critical bool
} {
	mock.lockResultSummary.RLock()
	calls := mock.calls.ResultSummary
	mock.lockResultSummary.RUnlock()
	return calls
}
