package model

import "time"

type PackageStatus string

const (
	PackageStatusPending  PackageStatus = "pending"  // Ожидает решения репетитора
	PackageStatusAccepted PackageStatus = "accepted" // Решение принято (возможно частичное)
	PackageStatusRejected PackageStatus = "rejected" // Отклонён целиком
)

// SessionPackage — агрегат одной транзакции бронирования:
// создаётся атомарно вместе со своими ClassSession.
type SessionPackage struct {
	ID            int64         `json:"id"`
	StudentID     int64         `json:"student_id"`
	TutorID       int64         `json:"tutor_id"`
	PackageTypeID int64         `json:"package_type_id"`
	Status        PackageStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Sessions []*ClassSession `json:"sessions,omitempty"`
	Student  *User           `json:"student,omitempty"`
	Tutor    *User           `json:"tutor,omitempty"`
}

// IsPending reports whether the package still awaits the tutor's decision.
func (p *SessionPackage) IsPending() bool {
	return p.Status == PackageStatusPending
}
