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

type PackageRepository struct {
	db base.Querier
}

func NewPackageRepository(pool *pgxpool.Pool) *PackageRepository {
	return &PackageRepository{db: pool}
}

func (r *PackageRepository) q(ctx context.Context) base.Querier {
	return base.QuerierFrom(ctx, r.db)
}

// CreatePackage создаёт пакет в статусе pending. Пакет пишется до
// итерации по сессиям, чтобы у каждой сессии был durable родитель.
func (r *PackageRepository) CreatePackage(ctx context.Context, pkg *model.SessionPackage) error {
	query := `
		INSERT INTO session_packages (student_id, tutor_id, package_type_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.q(ctx).QueryRow(
		ctx, query,
		pkg.StudentID,
		pkg.TutorID,
		pkg.PackageTypeID,
		pkg.Status,
	).Scan(&pkg.ID, &pkg.CreatedAt, &pkg.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create session package: %w", err)
	}

	return nil
}

// CreateSession создаёт сессию пакета
func (r *PackageRepository) CreateSession(ctx context.Context, session *model.ClassSession) error {
	query := `
		INSERT INTO class_sessions (session_package_id, subject_id, time_slot_id, session_date, price, status, acceptance_status, meet_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.q(ctx).QueryRow(
		ctx, query,
		session.SessionPackageID,
		session.SubjectID,
		session.TimeSlotID,
		session.SessionDate,
		session.Price,
		session.Status,
		session.AcceptanceStatus,
		session.MeetLink,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create class session: %w", err)
	}

	return nil
}

// AppendTimeline дописывает событие в ленту сессии. Лента append-only:
// UPDATE и DELETE по ней не существуют.
func (r *PackageRepository) AppendTimeline(ctx context.Context, entry *model.SessionTimeline) error {
	query := `
		INSERT INTO session_timelines (class_session_id, event, note)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q(ctx).QueryRow(ctx, query, entry.ClassSessionID, entry.Event, entry.Note).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("append session timeline: %w", err)
	}

	return nil
}

// GetPackageByID получает пакет по ID
func (r *PackageRepository) GetPackageByID(ctx context.Context, id int64) (*model.SessionPackage, error) {
	query := `
		SELECT id, student_id, tutor_id, package_type_id, status, created_at, updated_at
		FROM session_packages
		WHERE id = $1
	`

	var pkg model.SessionPackage
	err := r.q(ctx).QueryRow(ctx, query, id).Scan(
		&pkg.ID,
		&pkg.StudentID,
		&pkg.TutorID,
		&pkg.PackageTypeID,
		&pkg.Status,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get package by id: %w", err)
	}

	return &pkg, nil
}

// GetSessionsByPackageID получает сессии пакета в порядке создания
func (r *PackageRepository) GetSessionsByPackageID(ctx context.Context, packageID int64) ([]*model.ClassSession, error) {
	query := `
		SELECT id, session_package_id, subject_id, time_slot_id, session_date, price, status, acceptance_status, meet_link, refunded_at, created_at, updated_at
		FROM class_sessions
		WHERE session_package_id = $1
		ORDER BY id
	`

	rows, err := r.q(ctx).Query(ctx, query, packageID)
	if err != nil {
		return nil, fmt.Errorf("get sessions by package: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// GetSessionByID получает сессию по ID
func (r *PackageRepository) GetSessionByID(ctx context.Context, id int64) (*model.ClassSession, error) {
	query := `
		SELECT id, session_package_id, subject_id, time_slot_id, session_date, price, status, acceptance_status, meet_link, refunded_at, created_at, updated_at
		FROM class_sessions
		WHERE id = $1
	`

	var session model.ClassSession
	err := r.q(ctx).QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.SessionPackageID,
		&session.SubjectID,
		&session.TimeSlotID,
		&session.SessionDate,
		&session.Price,
		&session.Status,
		&session.AcceptanceStatus,
		&session.MeetLink,
		&session.RefundedAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return &session, nil
}

// GetTimelines получает ленту событий сессии в хронологическом порядке
func (r *PackageRepository) GetTimelines(ctx context.Context, sessionID int64) ([]*model.SessionTimeline, error) {
	query := `
		SELECT id, class_session_id, event, note, created_at
		FROM session_timelines
		WHERE class_session_id = $1
		ORDER BY id
	`

	rows, err := r.q(ctx).Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session timelines: %w", err)
	}
	defer rows.Close()

	var entries []*model.SessionTimeline
	for rows.Next() {
		var entry model.SessionTimeline
		err := rows.Scan(&entry.ID, &entry.ClassSessionID, &entry.Event, &entry.Note, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan timeline entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// MarkPackageAccepted переводит pending пакет в accepted.
// Условный UPDATE гарантирует что решение принимается ровно один раз.
func (r *PackageRepository) MarkPackageAccepted(ctx context.Context, packageID int64) error {
	query := `
		UPDATE session_packages
		SET status = 'accepted', updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q(ctx).Exec(ctx, query, packageID)
	if err != nil {
		return fmt.Errorf("mark package accepted: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		err := r.q(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM session_packages WHERE id = $1)`, packageID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check package exists: %w", err)
		}
		if !exists {
			return apperr.ErrPackageNotFound
		}
		return apperr.ErrPackageNotPending
	}

	return nil
}

// SetAcceptanceStatus проставляет acceptance_status сессиям пакета.
// accepted=true — сессии из списка, accepted=false — все остальные.
// Вместе два вызова покрывают сессии пакета без пересечений и остатка.
func (r *PackageRepository) SetAcceptanceStatus(ctx context.Context, packageID int64, sessionIDs []int64, accepted bool) ([]int64, error) {
	var query string
	if accepted {
		query = `
			UPDATE class_sessions
			SET acceptance_status = 'accepted', updated_at = now()
			WHERE session_package_id = $1 AND id = ANY($2)
			RETURNING id
		`
	} else {
		query = `
			UPDATE class_sessions
			SET acceptance_status = 'rejected', status = 'canceled', updated_at = now()
			WHERE session_package_id = $1 AND NOT (id = ANY($2))
			RETURNING id
		`
	}

	rows, err := r.q(ctx).Query(ctx, query, packageID, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("set acceptance status: %w", err)
	}
	defer rows.Close()

	var updated []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan updated session id: %w", err)
		}
		updated = append(updated, id)
	}

	return updated, rows.Err()
}

// MarkSessionRefunded помечает сессию как возвращённую.
// Возвращает false если возврат уже был — повторный refund становится no-op.
func (r *PackageRepository) MarkSessionRefunded(ctx context.Context, sessionID int64) (bool, error) {
	query := `
		UPDATE class_sessions
		SET refunded_at = now(), updated_at = now()
		WHERE id = $1 AND refunded_at IS NULL
	`

	result, err := r.q(ctx).Exec(ctx, query, sessionID)
	if err != nil {
		return false, fmt.Errorf("mark session refunded: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListByUser получает пакеты пользователя (как студента или репетитора),
// с фильтром по статусу и пагинацией
func (r *PackageRepository) ListByUser(ctx context.Context, userID int64, status model.PackageStatus, limit, offset int) ([]*model.SessionPackage, error) {
	query := `
		SELECT id, student_id, tutor_id, package_type_id, status, created_at, updated_at
		FROM session_packages
		WHERE (student_id = $1 OR tutor_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.q(ctx).Query(ctx, query, userID, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list packages by user: %w", err)
	}
	defer rows.Close()

	var packages []*model.SessionPackage
	for rows.Next() {
		var pkg model.SessionPackage
		err := rows.Scan(
			&pkg.ID,
			&pkg.StudentID,
			&pkg.TutorID,
			&pkg.PackageTypeID,
			&pkg.Status,
			&pkg.CreatedAt,
			&pkg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		packages = append(packages, &pkg)
	}

	return packages, rows.Err()
}

func scanSessions(rows pgx.Rows) ([]*model.ClassSession, error) {
	var sessions []*model.ClassSession
	for rows.Next() {
		var session model.ClassSession
		err := rows.Scan(
			&session.ID,
			&session.SessionPackageID,
			&session.SubjectID,
			&session.TimeSlotID,
			&session.SessionDate,
			&session.Price,
			&session.Status,
			&session.AcceptanceStatus,
			&session.MeetLink,
			&session.RefundedAt,
			&session.CreatedAt,
			&session.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan class session: %w", err)
		}
		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}
