package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/tutorhub-backend/internal/apperr"
	"github.com/tutorhub/tutorhub-backend/internal/model"
)

func TestUserService_Register(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, err := env.userService.Register(ctx, RegisterInput{
		Email:     "alice@test.io",
		FirstName: "Alice",
		IsTutor:   true,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.True(t, user.IsTutor)
	assert.Equal(t, model.CreditAmount(0), user.Credits)

	// повторная регистрация того же email возвращает существующего
	again, err := env.userService.Register(ctx, RegisterInput{
		Email:     "alice@test.io",
		FirstName: "Someone Else",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestUserService_TopUpCredits(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user := env.addUser(500, false)

	updated, err := env.userService.TopUpCredits(ctx, user.ID, 1500)
	require.NoError(t, err)
	assert.Equal(t, model.CreditAmount(2000), updated.Credits)
	assert.Equal(t, model.CreditAmount(2000), env.db.users[user.ID].Credits)
}

func TestUserService_TopUpCredits_InvalidAmount(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user := env.addUser(500, false)

	_, err := env.userService.TopUpCredits(ctx, user.ID, 0)
	assert.True(t, apperr.Is(err, apperr.ErrInvalidAmount))

	_, err = env.userService.TopUpCredits(ctx, user.ID, -100)
	assert.True(t, apperr.Is(err, apperr.ErrInvalidAmount))
}

func TestUserService_GetProfile_OwnerSeesHiddenContacts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.addUser(0, false)
	owner.Email.Public = false
	owner.Phone.Public = false
	viewer := env.addUser(0, false)

	asOwner, err := env.userService.GetProfile(ctx, owner.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, asOwner.Email.Public)
	assert.True(t, asOwner.Phone.Public)

	asViewer, err := env.userService.GetProfile(ctx, owner.ID, viewer.ID)
	require.NoError(t, err)
	assert.False(t, asViewer.Email.Public)
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.userService.GetProfile(context.Background(), 9999, 1)
	assert.True(t, apperr.Is(err, apperr.ErrUserNotFound))
}
