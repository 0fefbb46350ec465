package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub-backend/internal/apperr"
	"github.com/tutorhub/tutorhub-backend/internal/model"
	"github.com/tutorhub/tutorhub-backend/internal/repository/base"
)

type BookingRepository struct {
	db base.Querier
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: pool}
}

func (r *BookingRepository) q(ctx context.Context) base.Querier {
	return base.QuerierFrom(ctx, r.db)
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (student_id, tutor_id, subject_id, slot_id, status, credits_used)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q(ctx).QueryRow(
		ctx, query,
		booking.StudentID,
		booking.TutorID,
		booking.SubjectID,
		booking.SlotID,
		booking.Status,
		booking.CreditsUsed,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.ErrBookingAlreadyExists
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `
		SELECT id, student_id, tutor_id, subject_id, slot_id, status, credits_used, refunded_at, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking model.Booking
	err := r.q(ctx).QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.TutorID,
		&booking.SubjectID,
		&booking.SlotID,
		&booking.Status,
		&booking.CreditsUsed,
		&booking.RefundedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// GetByStudentID получает все бронирования студента
func (r *BookingRepository) GetByStudentID(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	query := `
		SELECT id, student_id, tutor_id, subject_id, slot_id, status, credits_used, refunded_at, created_at, updated_at
		FROM bookings
		WHERE student_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q(ctx).Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by student: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetPendingByTutorID получает все pending бронирования репетитора
func (r *BookingRepository) GetPendingByTutorID(ctx context.Context, tutorID int64) ([]*model.Booking, error) {
	query := `
		SELECT id, student_id, tutor_id, subject_id, slot_id, status, credits_used, refunded_at, created_at, updated_at
		FROM bookings
		WHERE tutor_id = $1 AND status = 'pending'
		ORDER BY created_at ASC
	`

	rows, err := r.q(ctx).Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get pending bookings by tutor: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetActiveBySlotID получает активное бронирование для слота
func (r *BookingRepository) GetActiveBySlotID(ctx context.Context, slotID int64) (*model.Booking, error) {
	query := `
		SELECT id, student_id, tutor_id, subject_id, slot_id, status, credits_used, refunded_at, created_at, updated_at
		FROM bookings
		WHERE slot_id = $1 AND (status = 'confirmed' OR status = 'pending')
		LIMIT 1
	`

	var booking model.Booking
	err := r.q(ctx).QueryRow(ctx, query, slotID).Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.TutorID,
		&booking.SubjectID,
		&booking.SlotID,
		&booking.Status,
		&booking.CreditsUsed,
		&booking.RefundedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by slot: %w", err)
	}

	return &booking, nil
}

// UpdateStatus обновляет статус бронирования
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := r.q(ctx).Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.ErrBookingNotFound
	}

	return nil
}

// MarkRefunded помечает бронирование как возвращённое.
// Возвращает false если возврат уже был.
func (r *BookingRepository) MarkRefunded(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE bookings
		SET refunded_at = now(), updated_at = now()
		WHERE id = $1 AND refunded_at IS NULL
	`

	result, err := r.q(ctx).Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark booking refunded: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func scanBookings(rows pgx.Rows) ([]*model.Booking, error) {
	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.StudentID,
			&booking.TutorID,
			&booking.SubjectID,
			&booking.SlotID,
			&booking.Status,
			&booking.CreditsUsed,
			&booking.RefundedAt,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}
