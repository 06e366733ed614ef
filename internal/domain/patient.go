package domain

import (
	"fmt"
	"time"
)

// Language is a supported interface language.
type Language string

const (
	LanguageRussian Language = "ru"
	LanguageKazakh  Language = "kz"
	LanguageEnglish Language = "en"
)

func (l Language) String() string { return string(l) }

func (l Language) IsValid() bool {
	switch l {
	case LanguageRussian, LanguageKazakh, LanguageEnglish:
		return true
	}
	return false
}

// SupportedLanguages lists languages in menu order.
func SupportedLanguages() []Language {
	return []Language{LanguageRussian, LanguageKazakh, LanguageEnglish}
}

// Patient is a registered, consented user. Code never changes after registration.
type Patient struct {
	UserID       int64
	Code         string
	Language     Language
	ConsentGiven bool
	RegisteredAt time.Time
}

// Stats holds aggregate counters for the admin dashboard.
type Stats struct {
	TotalPatients int
	TotalSurveys  int
	GAD7Count     int
	PHQ9Count     int
	UnreadAlerts  int
}

// FormatPatientCode renders a sequence number as a zero-padded patient code.
// Codes past 9999 simply grow wider.
func FormatPatientCode(seq int64) string {
	return fmt.Sprintf("%04d", seq)
}
