package http

import (
	"time"

	"github.com/tutorhub/tutorhub-backend/internal/model"
	"github.com/tutorhub/tutorhub-backend/internal/service"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,min=7,max=20"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"max=100"`
	IsTutor     bool   `json:"is_tutor"`
	EmailPublic bool   `json:"email_public"`
	PhonePublic bool   `json:"phone_public"`
}

type topUpRequest struct {
	// Кредиты в сотых долях: 1000 = 10.00 кредитов
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type visibilityRequest struct {
	EmailPublic bool `json:"email_public"`
	PhonePublic bool `json:"phone_public"`
}

type publishSlotRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

type createSubjectRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type createTierRequest struct {
	Credits    int64   `json:"credits" validate:"required,gt=0"`
	Category   string  `json:"category" validate:"required,max=100"`
	SubjectIDs []int64 `json:"subject_ids" validate:"required,min=1,dive,gt=0"`
}

type createPackageTypeRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	MaximumSessions int    `json:"maximum_sessions" validate:"required,gt=0,lte=100"`
	Description     string `json:"description" validate:"max=500"`
}

type createOfferingRequest struct {
	PackageTypeID   int64 `json:"package_type_id" validate:"required,gt=0"`
	DiscountPercent int   `json:"discount_percent" validate:"required,gt=0,lte=100"`
}

type availabilityTemplateRequest struct {
	Weekday         int `json:"weekday" validate:"gte=0,lte=6"`
	StartHour       int `json:"start_hour" validate:"gte=0,lte=23"`
	StartMinute     int `json:"start_minute" validate:"gte=0,lte=59"`
	DurationMinutes int `json:"duration_minutes" validate:"required,gt=0,lte=480"`
}

type createTemplatesRequest struct {
	Templates []availabilityTemplateRequest `json:"templates" validate:"required,min=1,dive"`
}

type slotSessionRequest struct {
	TimeSlotID  int64     `json:"time_slot_id" validate:"required,gt=0"`
	SessionDate time.Time `json:"session_date" validate:"required"`
}

type createPackageRequest struct {
	PackageOfferingID int64                `json:"package_offering_id" validate:"required,gt=0"`
	SubjectID         int64                `json:"subject_id" validate:"required,gt=0"`
	SessionMinutes    int                  `json:"session_minutes" validate:"required,gt=0,lte=480"`
	Slots             []slotSessionRequest `json:"slots" validate:"required,min=1,dive"`
}

type acceptPackageRequest struct {
	AcceptedSessionIDs []int64 `json:"accepted_session_ids" validate:"dive,gt=0"`
}

type bookSlotRequest struct {
	SlotID    int64 `json:"slot_id" validate:"required,gt=0"`
	SubjectID int64 `json:"subject_id" validate:"required,gt=0"`
}

func (r createPackageRequest) toInput(studentID int64) service.CreatePackageInput {
	slots := make([]service.TimeSlotSession, 0, len(r.Slots))
	for _, s := range r.Slots {
		slots = append(slots, service.TimeSlotSession{
			TimeSlotID:  s.TimeSlotID,
			SessionDate: s.SessionDate,
		})
	}
	return service.CreatePackageInput{
		StudentID:         studentID,
		PackageOfferingID: r.PackageOfferingID,
		SubjectID:         r.SubjectID,
		SessionMinutes:    r.SessionMinutes,
		Slots:             slots,
	}
}

func (r createTemplatesRequest) toModels() []*model.AvailabilityTemplate {
	templates := make([]*model.AvailabilityTemplate, 0, len(r.Templates))
	for _, t := range r.Templates {
		templates = append(templates, &model.AvailabilityTemplate{
			Weekday:         t.Weekday,
			StartHour:       t.StartHour,
			StartMinute:     t.StartMinute,
			DurationMinutes: t.DurationMinutes,
		})
	}
	return templates
}
