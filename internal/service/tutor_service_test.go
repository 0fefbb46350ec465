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

func TestTutorService_PublishSlot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	tutor := env.addUser(0, true)
	start := futureTime(24)

	slot, err := env.tutorService.PublishSlot(ctx, tutor.ID, start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, slot.IsBooked)
	assert.NotZero(t, slot.ID)
}

func TestTutorService_PublishSlot_NotATutor(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student := env.addUser(0, false)
	start := futureTime(24)

	_, err := env.tutorService.PublishSlot(ctx, student.ID, start, start.Add(time.Hour))
	assert.True(t, apperr.Is(err, apperr.ErrNotATutor))

	_, err = env.tutorService.PublishSlot(ctx, 9999, start, start.Add(time.Hour))
	assert.True(t, apperr.Is(err, apperr.ErrTutorNotFound))
}

func TestTutorService_CreateOffering_UnknownPackageType(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	tutor := env.addUser(0, true)

	_, err := env.tutorService.CreateOffering(ctx, tutor.ID, 9999, 80)
	assert.True(t, apperr.Is(err, apperr.ErrPackageTypeNotFound))
}

func TestTutorService_CreateAvailabilityTemplates_SharesGroup(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	tutor := env.addUser(0, true)
	templates := []*model.AvailabilityTemplate{
		{Weekday: 1, StartHour: 10, DurationMinutes: 60},
		{Weekday: 3, StartHour: 15, DurationMinutes: 90},
	}

	require.NoError(t, env.tutorService.CreateAvailabilityTemplates(ctx, tutor.ID, templates))

	saved, err := env.tutorService.GetTutorTemplates(ctx, tutor.ID)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, saved[0].GroupID, saved[1].GroupID)
	assert.True(t, saved[0].IsActive)
}

func TestTutorService_GenerateSlotsForAllTemplates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	tutor := env.addUser(0, true)
	templates := []*model.AvailabilityTemplate{
		{Weekday: int(time.Now().Add(48 * time.Hour).Weekday()), StartHour: 10, DurationMinutes: 60},
	}
	require.NoError(t, env.tutorService.CreateAvailabilityTemplates(ctx, tutor.ID, templates))

	require.NoError(t, env.tutorService.GenerateSlotsForAllTemplates(ctx, 3))
	assert.Len(t, env.db.slots, 3)

	// повторный запуск не плодит дубликаты
	require.NoError(t, env.tutorService.GenerateSlotsForAllTemplates(ctx, 3))
	assert.Len(t, env.db.slots, 3)
}

func TestTutorService_DeactivateTemplates_StopsGeneration(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	tutor := env.addUser(0, true)
	require.NoError(t, env.tutorService.CreateAvailabilityTemplates(ctx, tutor.ID, []*model.AvailabilityTemplate{
		{Weekday: 2, StartHour: 9, DurationMinutes: 60},
	}))

	saved, err := env.tutorService.GetTutorTemplates(ctx, tutor.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)

	require.NoError(t, env.tutorService.DeactivateTemplates(ctx, tutor.ID, saved[0].GroupID))

	require.NoError(t, env.tutorService.GenerateSlotsForAllTemplates(ctx, 4))
	assert.Empty(t, env.db.slots)
}

func TestTutorService_DeactivateTemplates_ForeignGroup(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.addUser(0, true)
	other := env.addUser(0, true)
	require.NoError(t, env.tutorService.CreateAvailabilityTemplates(ctx, owner.ID, []*model.AvailabilityTemplate{
		{Weekday: 2, StartHour: 9, DurationMinutes: 60},
	}))

	saved, err := env.tutorService.GetTutorTemplates(ctx, owner.ID)
	require.NoError(t, err)

	err = env.tutorService.DeactivateTemplates(ctx, other.ID, saved[0].GroupID)
	assert.True(t, apperr.Is(err, apperr.ErrNoPermission))
}

func TestTutorService_CreateTier(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	tutor := env.addUser(0, true)
	subject := env.addSubject("math")

	tier, err := env.tutorService.CreateTier(ctx, tutor.ID, 15, "advanced", []int64{subject.ID})
	require.NoError(t, err)
	assert.NotZero(t, tier.ID)

	resolved, err := env.tiers.ResolveForSubject(ctx, tutor.ID, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), resolved.Credits)
}
