package domain

import (
	"time"

	"github.com/google/uuid"
)

// AlertCategory classifies a safety alert.
type AlertCategory string

// AlertCategoryPHQ9Q9High is raised when PHQ-9 item 9 is answered 2 or higher.
const AlertCategoryPHQ9Q9High AlertCategory = "PHQ9_Q9_HIGH"

func (c AlertCategory) String() string { return string(c) }

// Alert is a durable safety notification for the clinical team.
// Only the bulk mark-read operation mutates it; alerts are never deleted.
type Alert struct {
	ID          uuid.UUID
	UserID      int64
	PatientCode string
	Category    AlertCategory
	Answer      int
	CreatedAt   time.Time
	Read        bool
}

// AlertTrigger carries what the dispatcher needs to raise an alert.
type AlertTrigger struct {
	UserID      int64
	PatientCode string
	Answer      int
}
