package model

import "time"

type Subject struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SubjectTier задаёт цену в кредитах за 60 минут для набора предметов
// одного репетитора. Предмет принадлежит ровно одному тиру репетитора.
type SubjectTier struct {
	ID        int64     `json:"id"`
	TutorID   int64     `json:"tutor_id"`
	Credits   int64     `json:"credits"` // целых кредитов за 60 минут
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`

	// Дополнительные поля для удобства (не из БД)
	Subjects []*Subject `json:"subjects,omitempty"`
}
