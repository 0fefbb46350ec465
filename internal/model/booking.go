package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Ожидает одобрения репетитора
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено
	BookingStatusCompleted BookingStatus = "completed" // Завершено
	BookingStatusCanceled  BookingStatus = "canceled"  // Отменено
	BookingStatusRejected  BookingStatus = "rejected"  // Отклонено репетитором
)

// Booking — разовое бронирование одного слота, без пакета.
type Booking struct {
	ID          int64         `json:"id"`
	StudentID   int64         `json:"student_id"`
	TutorID     int64         `json:"tutor_id"`
	SubjectID   int64         `json:"subject_id"`
	SlotID      int64         `json:"slot_id"`
	Status      BookingStatus `json:"status"`
	CreditsUsed CreditAmount  `json:"credits_used"`
	RefundedAt  *time.Time    `json:"refunded_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Subject *Subject  `json:"subject,omitempty"`
	Slot    *TimeSlot `json:"slot,omitempty"`
	Student *User     `json:"student,omitempty"`
	Tutor   *User     `json:"tutor,omitempty"`
}

// IsActive reports whether the booking still holds its slot.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}
