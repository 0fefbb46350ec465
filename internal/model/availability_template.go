package model

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityTemplate представляет шаблон регулярной доступности репетитора
type AvailabilityTemplate struct {
	ID              int64     `json:"id"`
	GroupID         uuid.UUID `json:"group_id"` // идентификатор группы связанных шаблонов
	TutorID         int64     `json:"tutor_id"`
	Weekday         int       `json:"weekday"`          // 0 = Sunday, 6 = Saturday
	StartHour       int       `json:"start_hour"`       // 0-23
	StartMinute     int       `json:"start_minute"`     // 0-59
	DurationMinutes int       `json:"duration_minutes"` // длительность в минутах
	IsActive        bool      `json:"is_active"`        // активен ли шаблон
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NextOccurrence returns the first slot start strictly after the given time.
func (t *AvailabilityTemplate) NextOccurrence(after time.Time) time.Time {
	daysAhead := (t.Weekday - int(after.Weekday()) + 7) % 7
	candidate := time.Date(after.Year(), after.Month(), after.Day(), t.StartHour, t.StartMinute, 0, 0, after.Location()).
		AddDate(0, 0, daysAhead)
	if !candidate.After(after) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
