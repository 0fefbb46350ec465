package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/tutorhub-backend/internal/apperr"
	"github.com/tutorhub/tutorhub-backend/internal/model"
)

func bookingFixture(env *testEnv) (*model.User, *model.User, *model.Subject, *model.TimeSlot) {
	student := env.addUser(2000, false)
	tutor := env.addUser(0, true)
	subject := env.addSubject("physics")
	env.addTier(tutor.ID, 10, subject.ID)
	slot := env.addSlot(tutor.ID, futureTime(24))
	return student, tutor, subject, slot
}

func TestBookingService_BookSlot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student, tutor, subject, slot := bookingFixture(env)

	booking, err := env.bookingService.BookSlot(ctx, student.ID, slot.ID, subject.ID)
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusPending, booking.Status)
	assert.Equal(t, tutor.ID, booking.TutorID)
	// без пакета скидки нет: 10 кредитов за час
	assert.Equal(t, model.CreditAmount(1000), booking.CreditsUsed)
	assert.Equal(t, model.CreditAmount(1000), env.db.users[student.ID].Credits)
	assert.True(t, env.db.slots[slot.ID].IsBooked)
}

func TestBookingService_BookSlot_PastSlot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student, tutor, subject, _ := bookingFixture(env)
	past := env.addSlot(tutor.ID, time.Now().Add(-time.Hour))

	_, err := env.bookingService.BookSlot(ctx, student.ID, past.ID, subject.ID)
	assert.True(t, apperr.Is(err, apperr.ErrSlotInPast))
}

func TestBookingService_BookSlot_AlreadyBooked(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student, _, subject, slot := bookingFixture(env)
	other := env.addUser(2000, false)

	_, err := env.bookingService.BookSlot(ctx, student.ID, slot.ID, subject.ID)
	require.NoError(t, err)

	_, err = env.bookingService.BookSlot(ctx, other.ID, slot.ID, subject.ID)
	assert.True(t, apperr.Is(err, apperr.ErrTimeSlotAlreadyBooked))

	// проигравший ничего не платит
	assert.Equal(t, model.CreditAmount(2000), env.db.users[other.ID].Credits)
}

func TestBookingService_BookSlot_UnknownSubject(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student, _, _, slot := bookingFixture(env)

	_, err := env.bookingService.BookSlot(ctx, student.ID, slot.ID, 9999)
	assert.True(t, apperr.Is(err, apperr.ErrSubjectNotFound))
}

func TestBookingService_ApproveBooking(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student, tutor, subject, slot := bookingFixture(env)
	booking, err := env.bookingService.BookSlot(ctx, student.ID, slot.ID, subject.ID)
	require.NoError(t, err)

	require.NoError(t, env.bookingService.ApproveBooking(ctx, booking.ID, tutor.ID))
	assert.Equal(t, model.BookingStatusConfirmed, env.db.bookings[booking.ID].Status)

	// второй раз одобрить нельзя
	err = env.bookingService.ApproveBooking(ctx, booking.ID, tutor.ID)
	assert.True(t, apperr.Is(err, apperr.ErrBookingNotActive))
}

func TestBookingService_ApproveBooking_WrongTutor(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student, _, subject, slot := bookingFixture(env)
	booking, err := env.bookingService.BookSlot(ctx, student.ID, slot.ID, subject.ID)
	require.NoError(t, err)

	err = env.bookingService.ApproveBooking(ctx, booking.ID, student.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNoPermission))
}

func TestBookingService_RejectBooking_Refunds(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student, tutor, subject, slot := bookingFixture(env)
	booking, err := env.bookingService.BookSlot(ctx, student.ID, slot.ID, subject.ID)
	require.NoError(t, err)

	require.NoError(t, env.bookingService.RejectBooking(ctx, booking.ID, tutor.ID))

	assert.Equal(t, model.BookingStatusRejected, env.db.bookings[booking.ID].Status)
	assert.Equal(t, model.CreditAmount(2000), env.db.users[student.ID].Credits)
	assert.False(t, env.db.slots[slot.ID].IsBooked)
}

func TestBookingService_CancelBooking_RefundOnce(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student, tutor, subject, slot := bookingFixture(env)
	booking, err := env.bookingService.BookSlot(ctx, student.ID, slot.ID, subject.ID)
	require.NoError(t, err)

	require.NoError(t, env.bookingService.ApproveBooking(ctx, booking.ID, tutor.ID))
	require.NoError(t, env.bookingService.CancelBooking(ctx, booking.ID, student.ID))

	assert.Equal(t, model.CreditAmount(2000), env.db.users[student.ID].Credits)

	// отменённое бронирование больше не активно
	err = env.bookingService.CancelBooking(ctx, booking.ID, student.ID)
	assert.True(t, apperr.Is(err, apperr.ErrBookingNotActive))
	assert.Equal(t, model.CreditAmount(2000), env.db.users[student.ID].Credits)
}

func TestBookingService_CancelBooking_Stranger(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student, _, subject, slot := bookingFixture(env)
	stranger := env.addUser(0, false)
	booking, err := env.bookingService.BookSlot(ctx, student.ID, slot.ID, subject.ID)
	require.NoError(t, err)

	err = env.bookingService.CancelBooking(ctx, booking.ID, stranger.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNoPermission))
}

func TestBookingService_GetAvailableSlots(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student, tutor, subject, slot := bookingFixture(env)
	free := env.addSlot(tutor.ID, futureTime(72))

	_, err := env.bookingService.BookSlot(ctx, student.ID, slot.ID, subject.ID)
	require.NoError(t, err)

	slots, err := env.bookingService.GetAvailableSlots(ctx, tutor.ID, time.Now(), time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, free.ID, slots[0].ID)
}
