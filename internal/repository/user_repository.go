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

type UserRepository struct {
	db base.Querier
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

func (r *UserRepository) q(ctx context.Context) base.Querier {
	return base.QuerierFrom(ctx, r.db)
}

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (email, email_public, phone, phone_public, first_name, last_name, is_tutor, credits)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.q(ctx).QueryRow(
		ctx, query,
		user.Email.Value,
		user.Email.Public,
		user.Phone.Value,
		user.Phone.Public,
		user.FirstName,
		user.LastName,
		user.IsTutor,
		user.Credits,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, email, email_public, phone, phone_public, first_name, last_name, is_tutor, credits, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.q(ctx).QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email.Value,
		&user.Email.Public,
		&user.Phone.Value,
		&user.Phone.Public,
		&user.FirstName,
		&user.LastName,
		&user.IsTutor,
		&user.Credits,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

// GetByEmail получает пользователя по email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, email_public, phone, phone_public, first_name, last_name, is_tutor, credits, created_at
		FROM users
		WHERE email = $1
	`

	var user model.User
	err := r.q(ctx).QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email.Value,
		&user.Email.Public,
		&user.Phone.Value,
		&user.Phone.Public,
		&user.FirstName,
		&user.LastName,
		&user.IsTutor,
		&user.Credits,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

// Update обновляет данные пользователя
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET email = $1, email_public = $2, phone = $3, phone_public = $4, first_name = $5, last_name = $6, is_tutor = $7
		WHERE id = $8
	`

	result, err := r.q(ctx).Exec(
		ctx, query,
		user.Email.Value,
		user.Email.Public,
		user.Phone.Value,
		user.Phone.Public,
		user.FirstName,
		user.LastName,
		user.IsTutor,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.ErrUserNotFound
	}

	return nil
}

// DebitCredits атомарно списывает кредиты. Проверка достаточности
// баланса и списание — один условный UPDATE, read-modify-write
// в памяти приложения здесь недопустим.
func (r *UserRepository) DebitCredits(ctx context.Context, userID int64, amount model.CreditAmount) error {
	query := `
		UPDATE users
		SET credits = credits - $1
		WHERE id = $2 AND credits >= $1
	`

	result, err := r.q(ctx).Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("debit credits: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		err := r.q(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check user exists: %w", err)
		}
		if !exists {
			return apperr.ErrUserNotFound
		}
		return apperr.ErrInsufficientCredits
	}

	return nil
}

// AddCredits зачисляет кредиты (возврат или пополнение)
func (r *UserRepository) AddCredits(ctx context.Context, userID int64, amount model.CreditAmount) error {
	query := `
		UPDATE users
		SET credits = credits + $1
		WHERE id = $2
	`

	result, err := r.q(ctx).Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("add credits: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.ErrUserNotFound
	}

	return nil
}
