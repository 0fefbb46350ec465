package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub-backend/internal/model"
	"github.com/tutorhub/tutorhub-backend/internal/repository/base"
)

// AvailabilityRepository управляет шаблонами регулярной доступности
type AvailabilityRepository struct {
	db base.Querier
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{db: pool}
}

func (r *AvailabilityRepository) q(ctx context.Context) base.Querier {
	return base.QuerierFrom(ctx, r.db)
}

// Create создаёт новый шаблон доступности
func (r *AvailabilityRepository) Create(ctx context.Context, template *model.AvailabilityTemplate) error {
	query := `
		INSERT INTO availability_templates (group_id, tutor_id, weekday, start_hour, start_minute, duration_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.q(ctx).QueryRow(
		ctx, query,
		template.GroupID,
		template.TutorID,
		template.Weekday,
		template.StartHour,
		template.StartMinute,
		template.DurationMinutes,
		template.IsActive,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create availability template: %w", err)
	}

	return nil
}

// GetByID получает шаблон по ID
func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*model.AvailabilityTemplate, error) {
	query := `
		SELECT id, group_id, tutor_id, weekday, start_hour, start_minute, duration_minutes, is_active, created_at, updated_at
		FROM availability_templates
		WHERE id = $1
	`

	template := &model.AvailabilityTemplate{}
	err := r.q(ctx).QueryRow(ctx, query, id).Scan(
		&template.ID,
		&template.GroupID,
		&template.TutorID,
		&template.Weekday,
		&template.StartHour,
		&template.StartMinute,
		&template.DurationMinutes,
		&template.IsActive,
		&template.CreatedAt,
		&template.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get availability template by id: %w", err)
	}

	return template, nil
}

// GetByTutorID получает все шаблоны репетитора
func (r *AvailabilityRepository) GetByTutorID(ctx context.Context, tutorID int64) ([]*model.AvailabilityTemplate, error) {
	query := `
		SELECT id, group_id, tutor_id, weekday, start_hour, start_minute, duration_minutes, is_active, created_at, updated_at
		FROM availability_templates
		WHERE tutor_id = $1
		ORDER BY weekday, start_hour, start_minute
	`

	rows, err := r.q(ctx).Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get availability templates by tutor: %w", err)
	}
	defer rows.Close()

	return scanTemplates(rows)
}

// GetAllActive получает все активные шаблоны (для фоновой генерации слотов)
func (r *AvailabilityRepository) GetAllActive(ctx context.Context) ([]*model.AvailabilityTemplate, error) {
	query := `
		SELECT id, group_id, tutor_id, weekday, start_hour, start_minute, duration_minutes, is_active, created_at, updated_at
		FROM availability_templates
		WHERE is_active = TRUE
		ORDER BY tutor_id, weekday, start_hour
	`

	rows, err := r.q(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active availability templates: %w", err)
	}
	defer rows.Close()

	return scanTemplates(rows)
}

// DeactivateGroup деактивирует все шаблоны группы
func (r *AvailabilityRepository) DeactivateGroup(ctx context.Context, groupID uuid.UUID) error {
	query := `
		UPDATE availability_templates
		SET is_active = FALSE, updated_at = now()
		WHERE group_id = $1
	`

	if _, err := r.q(ctx).Exec(ctx, query, groupID); err != nil {
		return fmt.Errorf("deactivate availability group: %w", err)
	}

	return nil
}

func scanTemplates(rows pgx.Rows) ([]*model.AvailabilityTemplate, error) {
	var templates []*model.AvailabilityTemplate
	for rows.Next() {
		template := &model.AvailabilityTemplate{}
		err := rows.Scan(
			&template.ID,
			&template.GroupID,
			&template.TutorID,
			&template.Weekday,
			&template.StartHour,
			&template.StartMinute,
			&template.DurationMinutes,
			&template.IsActive,
			&template.CreatedAt,
			&template.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan availability template: %w", err)
		}
		templates = append(templates, template)
	}

	return templates, rows.Err()
}
