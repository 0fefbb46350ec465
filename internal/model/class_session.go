package model

import "time"

type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCanceled  SessionStatus = "canceled"
)

type AcceptanceStatus string

const (
	AcceptancePending  AcceptanceStatus = "pending"
	AcceptanceAccepted AcceptanceStatus = "accepted"
	AcceptanceRejected AcceptanceStatus = "rejected"
)

// TimelineEvent — событие в истории сессии. Лента только дописывается.
type TimelineEvent string

const (
	TimelineRequestSubmitted TimelineEvent = "REQUEST_SUBMITTED"
	TimelinePaymentProcessed TimelineEvent = "PAYMENT_PROCESSED"
	TimelineSessionAccepted  TimelineEvent = "SESSION_ACCEPTED"
	TimelineSessionRejected  TimelineEvent = "SESSION_REJECTED"
	TimelineSessionCanceled  TimelineEvent = "SESSION_CANCELED"
	TimelineRefundIssued     TimelineEvent = "REFUND_ISSUED"
)

type SessionTimeline struct {
	ID             int64         `json:"id"`
	ClassSessionID int64         `json:"class_session_id"`
	Event          TimelineEvent `json:"event"`
	Note           string        `json:"note,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

type ClassSession struct {
	ID               int64            `json:"id"`
	SessionPackageID int64            `json:"session_package_id"`
	SubjectID        int64            `json:"subject_id"`
	TimeSlotID       int64            `json:"time_slot_id"`
	SessionDate      time.Time        `json:"session_date"`
	Price            CreditAmount     `json:"price"` // фиксируется при создании, дальше не меняется
	Status           SessionStatus    `json:"status"`
	AcceptanceStatus AcceptanceStatus `json:"acceptance_status"`
	MeetLink         string           `json:"meet_link"`
	RefundedAt       *time.Time       `json:"refunded_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Subject   *Subject           `json:"subject,omitempty"`
	Slot      *TimeSlot          `json:"slot,omitempty"`
	Timelines []*SessionTimeline `json:"timelines,omitempty"`
}

// IsRefunded reports whether this session's price has already been returned.
func (s *ClassSession) IsRefunded() bool {
	return s.RefundedAt != nil
}
