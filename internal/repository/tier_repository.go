package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub-backend/internal/apperr"
	"github.com/tutorhub/tutorhub-backend/internal/model"
	"github.com/tutorhub/tutorhub-backend/internal/repository/base"
)

type TierRepository struct {
	db base.Querier
}

func NewTierRepository(pool *pgxpool.Pool) *TierRepository {
	return &TierRepository{db: pool}
}

func (r *TierRepository) q(ctx context.Context) base.Querier {
	return base.QuerierFrom(ctx, r.db)
}

// Create создаёт тир и привязывает к нему предметы
func (r *TierRepository) Create(ctx context.Context, tier *model.SubjectTier, subjectIDs []int64) error {
	query := `
		INSERT INTO subject_tiers (tutor_id, credits, category)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q(ctx).QueryRow(ctx, query, tier.TutorID, tier.Credits, tier.Category).
		Scan(&tier.ID, &tier.CreatedAt)
	if err != nil {
		return fmt.Errorf("create subject tier: %w", err)
	}

	for _, subjectID := range subjectIDs {
		_, err := r.q(ctx).Exec(ctx,
			`INSERT INTO subject_tier_subjects (tier_id, subject_id) VALUES ($1, $2)`,
			tier.ID, subjectID,
		)
		if err != nil {
			return fmt.Errorf("assign subject %d to tier: %w", subjectID, err)
		}
	}

	return nil
}

// ResolveForSubject находит тир, покрывающий предмет у данного репетитора.
// Ровно одно совпадение — норма; ноль — SUBJECT_TIER_NOT_FOUND;
// больше одного — ошибка целостности данных, не ошибка пользователя.
func (r *TierRepository) ResolveForSubject(ctx context.Context, tutorID, subjectID int64) (*model.SubjectTier, error) {
	query := `
		SELECT t.id, t.tutor_id, t.credits, t.category, t.created_at
		FROM subject_tiers t
		JOIN subject_tier_subjects sts ON sts.tier_id = t.id
		WHERE t.tutor_id = $1 AND sts.subject_id = $2
	`

	rows, err := r.q(ctx).Query(ctx, query, tutorID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("resolve tier for subject: %w", err)
	}
	defer rows.Close()

	var tiers []*model.SubjectTier
	for rows.Next() {
		var tier model.SubjectTier
		err := rows.Scan(&tier.ID, &tier.TutorID, &tier.Credits, &tier.Category, &tier.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan tier: %w", err)
		}
		tiers = append(tiers, &tier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve tier for subject: %w", err)
	}

	switch len(tiers) {
	case 0:
		return nil, apperr.ErrSubjectTierNotFound
	case 1:
		return tiers[0], nil
	default:
		return nil, apperr.ErrAmbiguousSubjectTier
	}
}

// GetByTutorID получает все тиры репетитора вместе с предметами
func (r *TierRepository) GetByTutorID(ctx context.Context, tutorID int64) ([]*model.SubjectTier, error) {
	query := `
		SELECT id, tutor_id, credits, category, created_at
		FROM subject_tiers
		WHERE tutor_id = $1
		ORDER BY credits
	`

	rows, err := r.q(ctx).Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get tiers by tutor: %w", err)
	}
	defer rows.Close()

	var tiers []*model.SubjectTier
	for rows.Next() {
		var tier model.SubjectTier
		err := rows.Scan(&tier.ID, &tier.TutorID, &tier.Credits, &tier.Category, &tier.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan tier: %w", err)
		}
		tiers = append(tiers, &tier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get tiers by tutor: %w", err)
	}

	for _, tier := range tiers {
		subjects, err := r.getTierSubjects(ctx, tier.ID)
		if err != nil {
			return nil, err
		}
		tier.Subjects = subjects
	}

	return tiers, nil
}

func (r *TierRepository) getTierSubjects(ctx context.Context, tierID int64) ([]*model.Subject, error) {
	query := `
		SELECT s.id, s.name, s.created_at
		FROM subjects s
		JOIN subject_tier_subjects sts ON sts.subject_id = s.id
		WHERE sts.tier_id = $1
		ORDER BY s.name
	`

	rows, err := r.q(ctx).Query(ctx, query, tierID)
	if err != nil {
		return nil, fmt.Errorf("get tier subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*model.Subject
	for rows.Next() {
		var subject model.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tier subject: %w", err)
		}
		subjects = append(subjects, &subject)
	}

	return subjects, rows.Err()
}
