package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Instrument identifies one of the two standardized questionnaires.
type Instrument string

const (
	InstrumentGAD7 Instrument = "GAD7"
	InstrumentPHQ9 Instrument = "PHQ9"
)

// Answer scale shared by both instruments.
const (
	MinAnswer = 0
	MaxAnswer = 3
)

// Critical item of PHQ-9: item 9, self-harm ideation.
const (
	CriticalItemIndex     = 8
	CriticalAnswerMinimum = 2
)

func (i Instrument) String() string { return string(i) }

func (i Instrument) IsValid() bool {
	switch i {
	case InstrumentGAD7, InstrumentPHQ9:
		return true
	}
	return false
}

// ItemCount returns the number of questions, or 0 for an unknown instrument.
func (i Instrument) ItemCount() int {
	switch i {
	case InstrumentGAD7:
		return 7
	case InstrumentPHQ9:
		return 9
	}
	return 0
}

// MaxScore is the highest reachable total.
func (i Instrument) MaxScore() int {
	return i.ItemCount() * MaxAnswer
}

// Key is the lower-case form used in callback payloads ("gad7", "phq9").
func (i Instrument) Key() string {
	return strings.ToLower(string(i))
}

// ParseInstrumentKey is the inverse of Key.
func ParseInstrumentKey(key string) (Instrument, bool) {
	inst := Instrument(strings.ToUpper(strings.TrimSpace(key)))
	if !inst.IsValid() {
		return "", false
	}
	return inst, true
}

// ValidAnswer reports whether v is on the 0..3 answer scale.
func ValidAnswer(v int) bool {
	return v >= MinAnswer && v <= MaxAnswer
}

// IsCriticalAnswer reports whether an answer event must raise a safety alert.
func IsCriticalAnswer(inst Instrument, questionIdx, value int) bool {
	return inst == InstrumentPHQ9 && questionIdx == CriticalItemIndex && value >= CriticalAnswerMinimum
}

// Band is the clinical severity category derived from a total score.
type Band string

const (
	BandMinimal          Band = "minimal"
	BandMild             Band = "mild"
	BandModerate         Band = "moderate"
	BandModeratelySevere Band = "moderately_severe"
	BandSevere           Band = "severe"
)

func (b Band) String() string { return string(b) }

func (b Band) IsValid() bool {
	switch b {
	case BandMinimal, BandMild, BandModerate, BandModeratelySevere, BandSevere:
		return true
	}
	return false
}

// SurveySession is the in-memory record of one survey in progress.
// Invariant: len(Answers) is the index of the next expected question.
type SurveySession struct {
	Instrument      Instrument
	Answers         []int
	PatientCode     string
	Language        Language
	StartedAt       time.Time
	UpdatedAt       time.Time
	CriticalAlerted bool
}

// NextIndex returns the index of the question awaiting an answer.
func (s SurveySession) NextIndex() int {
	return len(s.Answers)
}

// Clone returns a copy that shares no memory with s.
func (s SurveySession) Clone() SurveySession {
	s.Answers = slices.Clone(s.Answers)
	return s
}

// SurveyResult is a completed, scored questionnaire. Immutable once stored.
type SurveyResult struct {
	ID          uuid.UUID
	UserID      int64
	Instrument  Instrument
	Answers     []int
	TotalScore  int
	Band        Band
	CompletedAt time.Time
}
