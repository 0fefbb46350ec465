package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub-backend/internal/model"
	"github.com/tutorhub/tutorhub-backend/internal/repository/base"
)

type SubjectRepository struct {
	db base.Querier
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: pool}
}

func (r *SubjectRepository) q(ctx context.Context) base.Querier {
	return base.QuerierFrom(ctx, r.db)
}

// Create создаёт новый предмет
func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	query := `
		INSERT INTO subjects (name)
		VALUES ($1)
		RETURNING id, created_at
	`

	err := r.q(ctx).QueryRow(ctx, query, subject.Name).Scan(&subject.ID, &subject.CreatedAt)
	if err != nil {
		return fmt.Errorf("create subject: %w", err)
	}

	return nil
}

// GetByID получает предмет по ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	query := `
		SELECT id, name, created_at
		FROM subjects
		WHERE id = $1
	`

	var subject model.Subject
	err := r.q(ctx).QueryRow(ctx, query, id).Scan(&subject.ID, &subject.Name, &subject.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subject by id: %w", err)
	}

	return &subject, nil
}

// List получает все предметы
func (r *SubjectRepository) List(ctx context.Context) ([]*model.Subject, error) {
	query := `
		SELECT id, name, created_at
		FROM subjects
		ORDER BY name
	`

	rows, err := r.q(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*model.Subject
	for rows.Next() {
		var subject model.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, &subject)
	}

	return subjects, rows.Err()
}
