package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub-backend/internal/apperr"
	"github.com/tutorhub/tutorhub-backend/internal/model"
	"github.com/tutorhub/tutorhub-backend/internal/repository/base"
)

type SlotRepository struct {
	db base.Querier
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{db: pool}
}

func (r *SlotRepository) q(ctx context.Context) base.Querier {
	return base.QuerierFrom(ctx, r.db)
}

// Create создаёт новый слот
func (r *SlotRepository) Create(ctx context.Context, slot *model.TimeSlot) error {
	query := `
		INSERT INTO time_slots (tutor_id, start_time, end_time, is_booked)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q(ctx).QueryRow(
		ctx, query,
		slot.TutorID,
		slot.StartTime,
		slot.EndTime,
		slot.IsBooked,
	).Scan(&slot.ID, &slot.CreatedAt)

	if err != nil {
		return fmt.Errorf("create time slot: %w", err)
	}

	return nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.TimeSlot, error) {
	query := `
		SELECT id, tutor_id, start_time, end_time, is_booked, created_at
		FROM time_slots
		WHERE id = $1
	`

	var slot model.TimeSlot
	err := r.q(ctx).QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.TutorID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsBooked,
		&slot.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get time slot by id: %w", err)
	}

	return &slot, nil
}

// GetFreeByTutorID получает свободные слоты репетитора в заданном диапазоне времени
func (r *SlotRepository) GetFreeByTutorID(ctx context.Context, tutorID int64, from, to time.Time) ([]*model.TimeSlot, error) {
	query := `
		SELECT id, tutor_id, start_time, end_time, is_booked, created_at
		FROM time_slots
		WHERE tutor_id = $1
		  AND is_booked = FALSE
		  AND start_time >= $2
		  AND start_time < $3
		ORDER BY start_time
	`

	rows, err := r.q(ctx).Query(ctx, query, tutorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get free slots: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetByTutorID получает все слоты репетитора в диапазоне
func (r *SlotRepository) GetByTutorID(ctx context.Context, tutorID int64, from, to time.Time) ([]*model.TimeSlot, error) {
	query := `
		SELECT id, tutor_id, start_time, end_time, is_booked, created_at
		FROM time_slots
		WHERE tutor_id = $1
		  AND start_time >= $2
		  AND start_time < $3
		ORDER BY start_time
	`

	rows, err := r.q(ctx).Query(ctx, query, tutorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get slots by tutor: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// Reserve атомарно резервирует слот. Проверка и установка is_booked
// выполняются одним условным UPDATE — гонка двух бронирований
// разрешается здесь: проигравший получает TIME_SLOT_ALREADY_BOOKED.
func (r *SlotRepository) Reserve(ctx context.Context, slotID int64) error {
	query := `
		UPDATE time_slots
		SET is_booked = TRUE
		WHERE id = $1 AND is_booked = FALSE
	`

	result, err := r.q(ctx).Exec(ctx, query, slotID)
	if err != nil {
		return fmt.Errorf("reserve slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Различаем "слота нет" и "слот уже занят"
		var exists bool
		err := r.q(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM time_slots WHERE id = $1)`, slotID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check slot exists: %w", err)
		}
		if !exists {
			return apperr.ErrTimeSlotNotFound
		}
		return apperr.ErrTimeSlotAlreadyBooked
	}

	return nil
}

// Release освобождает слот. Идемпотентно: повторный вызов
// на свободном слоте — no-op, не ошибка.
func (r *SlotRepository) Release(ctx context.Context, slotID int64) error {
	query := `
		UPDATE time_slots
		SET is_booked = FALSE
		WHERE id = $1
	`

	if _, err := r.q(ctx).Exec(ctx, query, slotID); err != nil {
		return fmt.Errorf("release slot: %w", err)
	}

	return nil
}

// SlotExists проверяет существование слота репетитора в указанное время
func (r *SlotRepository) SlotExists(ctx context.Context, tutorID int64, startTime time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM time_slots
			WHERE tutor_id = $1 AND start_time = $2
		)
	`

	var exists bool
	err := r.q(ctx).QueryRow(ctx, query, tutorID, startTime).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slot exists: %w", err)
	}

	return exists, nil
}

func scanSlots(rows pgx.Rows) ([]*model.TimeSlot, error) {
	var slots []*model.TimeSlot
	for rows.Next() {
		var slot model.TimeSlot
		err := rows.Scan(
			&slot.ID,
			&slot.TutorID,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsBooked,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, rows.Err()
}
