package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/tutorhub-backend/internal/model"
)

// Узкие интерфейсы хранилищ, под которые подходят репозитории из
// internal/repository. Сервисы зависят от них, а не от конкретных
// типов — воркфлоу покрывается тестами на in-memory фейках.

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	DebitCredits(ctx context.Context, userID int64, amount model.CreditAmount) error
	AddCredits(ctx context.Context, userID int64, amount model.CreditAmount) error
}

type SlotStore interface {
	Create(ctx context.Context, slot *model.TimeSlot) error
	GetByID(ctx context.Context, id int64) (*model.TimeSlot, error)
	GetByTutorID(ctx context.Context, tutorID int64, from, to time.Time) ([]*model.TimeSlot, error)
	GetFreeByTutorID(ctx context.Context, tutorID int64, from, to time.Time) ([]*model.TimeSlot, error)
	Reserve(ctx context.Context, slotID int64) error
	Release(ctx context.Context, slotID int64) error
	SlotExists(ctx context.Context, tutorID int64, startTime time.Time) (bool, error)
}

type SubjectStore interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id int64) (*model.Subject, error)
	List(ctx context.Context) ([]*model.Subject, error)
}

type TierStore interface {
	Create(ctx context.Context, tier *model.SubjectTier, subjectIDs []int64) error
	ResolveForSubject(ctx context.Context, tutorID, subjectID int64) (*model.SubjectTier, error)
	GetByTutorID(ctx context.Context, tutorID int64) ([]*model.SubjectTier, error)
}

type OfferingStore interface {
	CreatePackageType(ctx context.Context, pt *model.PackageType) error
	GetPackageTypeByID(ctx context.Context, id int64) (*model.PackageType, error)
	CreateOffering(ctx context.Context, offering *model.PackageOffering) error
	GetOfferingByID(ctx context.Context, id int64) (*model.PackageOffering, error)
	GetByTutorID(ctx context.Context, tutorID int64) ([]*model.PackageOffering, error)
}

type PackageStore interface {
	CreatePackage(ctx context.Context, pkg *model.SessionPackage) error
	CreateSession(ctx context.Context, session *model.ClassSession) error
	AppendTimeline(ctx context.Context, entry *model.SessionTimeline) error
	GetPackageByID(ctx context.Context, id int64) (*model.SessionPackage, error)
	GetSessionsByPackageID(ctx context.Context, packageID int64) ([]*model.ClassSession, error)
	GetSessionByID(ctx context.Context, id int64) (*model.ClassSession, error)
	GetTimelines(ctx context.Context, sessionID int64) ([]*model.SessionTimeline, error)
	MarkPackageAccepted(ctx context.Context, packageID int64) error
	SetAcceptanceStatus(ctx context.Context, packageID int64, sessionIDs []int64, accepted bool) ([]int64, error)
	MarkSessionRefunded(ctx context.Context, sessionID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64, status model.PackageStatus, limit, offset int) ([]*model.SessionPackage, error)
}

type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetByStudentID(ctx context.Context, studentID int64) ([]*model.Booking, error)
	GetPendingByTutorID(ctx context.Context, tutorID int64) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error
	MarkRefunded(ctx context.Context, id int64) (bool, error)
}

type AvailabilityStore interface {
	Create(ctx context.Context, template *model.AvailabilityTemplate) error
	GetByTutorID(ctx context.Context, tutorID int64) ([]*model.AvailabilityTemplate, error)
	GetAllActive(ctx context.Context) ([]*model.AvailabilityTemplate, error)
	DeactivateGroup(ctx context.Context, groupID uuid.UUID) error
}

// TxManager выполняет fn в одной транзакции хранилища.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
