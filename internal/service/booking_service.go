package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub-backend/internal/apperr"
	"github.com/tutorhub/tutorhub-backend/internal/model"
)

// BookingService — разовое бронирование одного слота без пакета.
// Скидка не применяется: цена считается с множителем 100%.
type BookingService struct {
	tx       TxManager
	users    UserStore
	subjects SubjectStore
	slots    SlotStore
	bookings BookingStore
	pricing  *PricingService
	notifier Notifier
	logger   *zap.Logger
}

func NewBookingService(
	tx TxManager,
	users UserStore,
	subjects SubjectStore,
	slots SlotStore,
	bookings BookingStore,
	pricing *PricingService,
	notifier Notifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tx:       tx,
		users:    users,
		subjects: subjects,
		slots:    slots,
		bookings: bookings,
		pricing:  pricing,
		notifier: notifier,
		logger:   logger,
	}
}

// BookSlot бронирует слот для студента
func (s *BookingService) BookSlot(ctx context.Context, studentID, slotID, subjectID int64) (*model.Booking, error) {
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("get subject: %w", err)
	}
	if subject == nil {
		return nil, apperr.ErrSubjectNotFound
	}

	var booking *model.Booking

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		slot, err := s.slots.GetByID(ctx, slotID)
		if err != nil {
			return fmt.Errorf("get slot: %w", err)
		}
		if slot == nil {
			return apperr.ErrTimeSlotNotFound
		}

		// Проверяем что слот в будущем
		if slot.StartTime.Before(time.Now()) {
			return apperr.ErrSlotInPast
		}

		// Резерв раньше списания: гонку решает условный UPDATE
		if err := s.slots.Reserve(ctx, slotID); err != nil {
			return err
		}

		minutes := int(slot.EndTime.Sub(slot.StartTime) / time.Minute)
		price, err := s.pricing.ResolvePrice(ctx, slot.TutorID, subjectID, minutes, 100)
		if err != nil {
			return err
		}

		if err := s.users.DebitCredits(ctx, studentID, price); err != nil {
			return err
		}

		booking = &model.Booking{
			StudentID:   studentID,
			TutorID:     slot.TutorID,
			SubjectID:   subjectID,
			SlotID:      slotID,
			Status:      model.BookingStatusPending,
			CreditsUsed: price,
		}
		if err := s.bookings.Create(ctx, booking); err != nil {
			return err
		}

		booking.Subject = subject
		booking.Slot = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", studentID),
		zap.Int64("slot_id", slotID),
		zap.String("subject", subject.Name),
		zap.String("credits_used", booking.CreditsUsed.String()),
	)

	s.notifier.BookingCreated(ctx, booking)

	return booking, nil
}

// GetPendingBookings получает все pending бронирования репетитора
func (s *BookingService) GetPendingBookings(ctx context.Context, tutorID int64) ([]*model.Booking, error) {
	return s.bookings.GetPendingByTutorID(ctx, tutorID)
}

// ApproveBooking одобряет бронирование
func (s *BookingService) ApproveBooking(ctx context.Context, bookingID, tutorID int64) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return apperr.ErrBookingNotFound
	}
	if booking.TutorID != tutorID {
		return apperr.ErrNoPermission
	}
	if booking.Status != model.BookingStatusPending {
		return apperr.ErrBookingNotActive
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, model.BookingStatusConfirmed); err != nil {
		return err
	}

	s.logger.Info("Booking approved",
		zap.Int64("booking_id", bookingID),
		zap.Int64("tutor_id", tutorID),
	)

	booking.Status = model.BookingStatusConfirmed
	s.notifier.BookingDecided(ctx, booking)

	return nil
}

// RejectBooking отклоняет бронирование и возвращает кредиты
func (s *BookingService) RejectBooking(ctx context.Context, bookingID, tutorID int64) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return apperr.ErrBookingNotFound
	}
	if booking.TutorID != tutorID {
		return apperr.ErrNoPermission
	}
	if booking.Status != model.BookingStatusPending {
		return apperr.ErrBookingNotActive
	}

	if err := s.finishBooking(ctx, booking, model.BookingStatusRejected); err != nil {
		return err
	}

	s.logger.Info("Booking rejected",
		zap.Int64("booking_id", bookingID),
		zap.Int64("tutor_id", tutorID),
	)

	booking.Status = model.BookingStatusRejected
	s.notifier.BookingDecided(ctx, booking)

	return nil
}

// CancelBooking отменяет бронирование (студент или репетитор)
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID int64) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return apperr.ErrBookingNotFound
	}
	if booking.StudentID != userID && booking.TutorID != userID {
		return apperr.ErrNoPermission
	}
	if !booking.IsActive() {
		return apperr.ErrBookingNotActive
	}

	if err := s.finishBooking(ctx, booking, model.BookingStatusCanceled); err != nil {
		return err
	}

	s.logger.Info("Booking canceled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("user_id", userID),
	)

	booking.Status = model.BookingStatusCanceled
	s.notifier.BookingDecided(ctx, booking)

	return nil
}

// finishBooking переводит бронирование в терминальный статус,
// возвращает кредиты и освобождает слот — всё в одной транзакции.
// Возврат идемпотентен за счёт guard-колонки refunded_at.
func (s *BookingService) finishBooking(ctx context.Context, booking *model.Booking, status model.BookingStatus) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.bookings.UpdateStatus(ctx, booking.ID, status); err != nil {
			return err
		}

		first, err := s.bookings.MarkRefunded(ctx, booking.ID)
		if err != nil {
			return err
		}
		if !first {
			return nil
		}

		if err := s.users.AddCredits(ctx, booking.StudentID, booking.CreditsUsed); err != nil {
			return err
		}

		return s.slots.Release(ctx, booking.SlotID)
	})
}

// GetByID получает бронирование по ID
func (s *BookingService) GetByID(ctx context.Context, bookingID int64) (*model.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

// GetStudentBookings получает все бронирования студента
func (s *BookingService) GetStudentBookings(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	return s.bookings.GetByStudentID(ctx, studentID)
}

// GetAvailableSlots получает свободные слоты репетитора
func (s *BookingService) GetAvailableSlots(ctx context.Context, tutorID int64, from, to time.Time) ([]*model.TimeSlot, error) {
	return s.slots.GetFreeByTutorID(ctx, tutorID, from, to)
}
