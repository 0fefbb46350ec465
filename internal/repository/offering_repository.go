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

type OfferingRepository struct {
	db base.Querier
}

func NewOfferingRepository(pool *pgxpool.Pool) *OfferingRepository {
	return &OfferingRepository{db: pool}
}

func (r *OfferingRepository) q(ctx context.Context) base.Querier {
	return base.QuerierFrom(ctx, r.db)
}

// CreatePackageType создаёт вид пакета. Имя уникально.
func (r *OfferingRepository) CreatePackageType(ctx context.Context, pt *model.PackageType) error {
	query := `
		INSERT INTO package_types (name, maximum_sessions, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q(ctx).QueryRow(ctx, query, pt.Name, pt.MaximumSessions, pt.Description).
		Scan(&pt.ID, &pt.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return apperr.ErrPackageTypeExists
		}
		return fmt.Errorf("create package type: %w", err)
	}

	return nil
}

// GetPackageTypeByID получает вид пакета по ID
func (r *OfferingRepository) GetPackageTypeByID(ctx context.Context, id int64) (*model.PackageType, error) {
	query := `
		SELECT id, name, maximum_sessions, description, created_at
		FROM package_types
		WHERE id = $1
	`

	var pt model.PackageType
	err := r.q(ctx).QueryRow(ctx, query, id).Scan(
		&pt.ID,
		&pt.Name,
		&pt.MaximumSessions,
		&pt.Description,
		&pt.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get package type by id: %w", err)
	}

	return &pt, nil
}

// CreateOffering создаёт предложение пакета от репетитора
func (r *OfferingRepository) CreateOffering(ctx context.Context, offering *model.PackageOffering) error {
	query := `
		INSERT INTO package_offerings (tutor_id, package_type_id, discount_percent, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q(ctx).QueryRow(
		ctx, query,
		offering.TutorID,
		offering.PackageTypeID,
		offering.DiscountPercent,
		offering.IsActive,
	).Scan(&offering.ID, &offering.CreatedAt)

	if err != nil {
		return fmt.Errorf("create package offering: %w", err)
	}

	return nil
}

// GetOfferingByID получает предложение вместе с видом пакета
func (r *OfferingRepository) GetOfferingByID(ctx context.Context, id int64) (*model.PackageOffering, error) {
	query := `
		SELECT o.id, o.tutor_id, o.package_type_id, o.discount_percent, o.is_active, o.created_at,
		       pt.id, pt.name, pt.maximum_sessions, pt.description, pt.created_at
		FROM package_offerings o
		JOIN package_types pt ON pt.id = o.package_type_id
		WHERE o.id = $1
	`

	var offering model.PackageOffering
	var pt model.PackageType
	err := r.q(ctx).QueryRow(ctx, query, id).Scan(
		&offering.ID,
		&offering.TutorID,
		&offering.PackageTypeID,
		&offering.DiscountPercent,
		&offering.IsActive,
		&offering.CreatedAt,
		&pt.ID,
		&pt.Name,
		&pt.MaximumSessions,
		&pt.Description,
		&pt.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offering by id: %w", err)
	}

	offering.PackageType = &pt
	return &offering, nil
}

// GetByTutorID получает все активные предложения репетитора
func (r *OfferingRepository) GetByTutorID(ctx context.Context, tutorID int64) ([]*model.PackageOffering, error) {
	query := `
		SELECT o.id, o.tutor_id, o.package_type_id, o.discount_percent, o.is_active, o.created_at,
		       pt.id, pt.name, pt.maximum_sessions, pt.description, pt.created_at
		FROM package_offerings o
		JOIN package_types pt ON pt.id = o.package_type_id
		WHERE o.tutor_id = $1 AND o.is_active = TRUE
		ORDER BY o.created_at DESC
	`

	rows, err := r.q(ctx).Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get offerings by tutor: %w", err)
	}
	defer rows.Close()

	var offerings []*model.PackageOffering
	for rows.Next() {
		var offering model.PackageOffering
		var pt model.PackageType
		err := rows.Scan(
			&offering.ID,
			&offering.TutorID,
			&offering.PackageTypeID,
			&offering.DiscountPercent,
			&offering.IsActive,
			&offering.CreatedAt,
			&pt.ID,
			&pt.Name,
			&pt.MaximumSessions,
			&pt.Description,
			&pt.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan offering: %w", err)
		}
		offering.PackageType = &pt
		offerings = append(offerings, &offering)
	}

	return offerings, rows.Err()
}
