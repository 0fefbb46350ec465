package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub-backend/internal/apperr"
	"github.com/tutorhub/tutorhub-backend/internal/cache"
	"github.com/tutorhub/tutorhub-backend/internal/model"
)

// PackageService — оркестратор бронирования пакета занятий:
// резерв слотов, расчёт цены, списание кредитов, создание записей.
// Весь Create выполняется в одной транзакции: сбой на любом шаге
// откатывает резервы, списания и вставки этого же запроса целиком.
type PackageService struct {
	tx          TxManager
	users       UserStore
	slots       SlotStore
	offerings   OfferingStore
	packages    PackageStore
	pricing     *PricingService
	meetCache   *cache.MeetLinkCache
	notifier    Notifier
	meetBaseURL string
	logger      *zap.Logger
}

func NewPackageService(
	tx TxManager,
	users UserStore,
	slots SlotStore,
	offerings OfferingStore,
	packages PackageStore,
	pricing *PricingService,
	meetCache *cache.MeetLinkCache,
	notifier Notifier,
	meetBaseURL string,
	logger *zap.Logger,
) *PackageService {
	return &PackageService{
		tx:          tx,
		users:       users,
		slots:       slots,
		offerings:   offerings,
		packages:    packages,
		pricing:     pricing,
		meetCache:   meetCache,
		notifier:    notifier,
		meetBaseURL: meetBaseURL,
		logger:      logger,
	}
}

// TimeSlotSession — пара (слот, дата занятия) из запроса на пакет.
type TimeSlotSession struct {
	TimeSlotID  int64
	SessionDate time.Time
}

type CreatePackageInput struct {
	StudentID         int64
	PackageOfferingID int64
	SubjectID         int64
	SessionMinutes    int
	Slots             []TimeSlotSession
}

type meetToken struct {
	token     string
	sessionID int64
}

// Create бронирует пакет занятий. Порядок шагов на каждый слот строго
// resolve → reserve → price → debit → create: резерв раньше списания,
// поэтому гонку за слот решает только шаг резервирования.
func (s *PackageService) Create(ctx context.Context, in CreatePackageInput) (*model.SessionPackage, error) {
	offering, err := s.offerings.GetOfferingByID(ctx, in.PackageOfferingID)
	if err != nil {
		return nil, fmt.Errorf("get offering: %w", err)
	}
	if offering == nil || !offering.IsActive {
		return nil, apperr.ErrPackageOfferingNotFound
	}

	if len(in.Slots) == 0 {
		return nil, apperr.ErrInvalidTimeSlots
	}

	if offering.PackageType != nil && len(in.Slots) > offering.PackageType.MaximumSessions {
		return nil, apperr.ErrTooManySessions
	}

	student, err := s.users.GetByID(ctx, in.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, apperr.ErrUserNotFound
	}

	var pkg *model.SessionPackage
	var tokens []meetToken

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Загружаем все слоты и проверяем что владелец один
		slots := make([]*model.TimeSlot, 0, len(in.Slots))
		for _, ts := range in.Slots {
			slot, err := s.slots.GetByID(ctx, ts.TimeSlotID)
			if err != nil {
				return fmt.Errorf("get slot: %w", err)
			}
			if slot == nil {
				return apperr.ErrTimeSlotNotFound
			}
			slots = append(slots, slot)
		}

		tutorID := slots[0].TutorID
		for _, slot := range slots[1:] {
			if slot.TutorID != tutorID {
				return apperr.ErrMixedSlotOwners
			}
		}
		if offering.TutorID != tutorID {
			return apperr.ErrOfferingMismatch
		}

		// Цена одинакова для всех сессий пакета: тир один, скидка одна
		price, err := s.pricing.ResolvePrice(ctx, tutorID, in.SubjectID, in.SessionMinutes, offering.DiscountPercent)
		if err != nil {
			return err
		}

		// Пакет пишется до итерации по сессиям — durable родитель
		pkg = &model.SessionPackage{
			StudentID:     in.StudentID,
			TutorID:       tutorID,
			PackageTypeID: offering.PackageTypeID,
			Status:        model.PackageStatusPending,
		}
		if err := s.packages.CreatePackage(ctx, pkg); err != nil {
			return err
		}

		for _, ts := range in.Slots {
			if err := s.slots.Reserve(ctx, ts.TimeSlotID); err != nil {
				return err
			}

			if err := s.users.DebitCredits(ctx, in.StudentID, price); err != nil {
				return err
			}

			token := uuid.NewString()
			session := &model.ClassSession{
				SessionPackageID: pkg.ID,
				SubjectID:        in.SubjectID,
				TimeSlotID:       ts.TimeSlotID,
				SessionDate:      ts.SessionDate,
				Price:            price,
				Status:           model.SessionStatusScheduled,
				AcceptanceStatus: model.AcceptancePending,
				MeetLink:         fmt.Sprintf("%s/join/%s", s.meetBaseURL, token),
			}
			if err := s.packages.CreateSession(ctx, session); err != nil {
				return err
			}

			for _, event := range []model.TimelineEvent{model.TimelineRequestSubmitted, model.TimelinePaymentProcessed} {
				entry := &model.SessionTimeline{ClassSessionID: session.ID, Event: event}
				if err := s.packages.AppendTimeline(ctx, entry); err != nil {
					return err
				}
			}

			tokens = append(tokens, meetToken{token: token, sessionID: session.ID})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Кэш заполняется после коммита: откат транзакции не должен
	// оставлять живые токены
	for _, t := range tokens {
		s.meetCache.Put(t.token, t.sessionID)
	}

	full, err := s.GetByID(ctx, pkg.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session package created",
		zap.Int64("package_id", full.ID),
		zap.Int64("student_id", full.StudentID),
		zap.Int64("tutor_id", full.TutorID),
		zap.Int("sessions", len(full.Sessions)),
	)

	s.notifier.PackageRequested(ctx, full)

	return full, nil
}

// Accept фиксирует решение репетитора по pending пакету: перечисленные
// сессии принимаются, остальные отклоняются. После операции ни одна
// сессия пакета не остаётся в pending; отклонённым в той же транзакции
// возвращаются кредиты и освобождаются слоты.
func (s *PackageService) Accept(ctx context.Context, packageID int64, acceptedSessionIDs []int64, actorID int64) (*model.SessionPackage, error) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		pkg, err := s.packages.GetPackageByID(ctx, packageID)
		if err != nil {
			return fmt.Errorf("get package: %w", err)
		}
		if pkg == nil {
			return apperr.ErrPackageNotFound
		}
		if pkg.TutorID != actorID {
			return apperr.ErrNoPermission
		}

		// Условный UPDATE: решение принимается ровно один раз
		if err := s.packages.MarkPackageAccepted(ctx, packageID); err != nil {
			return err
		}

		accepted, err := s.packages.SetAcceptanceStatus(ctx, packageID, acceptedSessionIDs, true)
		if err != nil {
			return err
		}
		rejected, err := s.packages.SetAcceptanceStatus(ctx, packageID, acceptedSessionIDs, false)
		if err != nil {
			return err
		}

		for _, id := range accepted {
			entry := &model.SessionTimeline{ClassSessionID: id, Event: model.TimelineSessionAccepted}
			if err := s.packages.AppendTimeline(ctx, entry); err != nil {
				return err
			}
		}

		for _, id := range rejected {
			entry := &model.SessionTimeline{ClassSessionID: id, Event: model.TimelineSessionRejected}
			if err := s.packages.AppendTimeline(ctx, entry); err != nil {
				return err
			}
			if err := s.refundSession(ctx, id); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	full, err := s.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session package decided",
		zap.Int64("package_id", packageID),
		zap.Int64("tutor_id", actorID),
		zap.Int("accepted", len(acceptedSessionIDs)),
		zap.Int("total", len(full.Sessions)),
	)

	s.notifier.PackageDecided(ctx, full)

	return full, nil
}

// CancelSession отменяет запланированную сессию с возвратом кредитов.
// Завершённую сессию отменить нельзя.
func (s *PackageService) CancelSession(ctx context.Context, sessionID, actorID int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		session, err := s.packages.GetSessionByID(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		if session == nil {
			return apperr.ErrSessionNotFound
		}

		pkg, err := s.packages.GetPackageByID(ctx, session.SessionPackageID)
		if err != nil {
			return fmt.Errorf("get package: %w", err)
		}
		if pkg == nil {
			return apperr.ErrPackageNotFound
		}
		if actorID != pkg.StudentID && actorID != pkg.TutorID {
			return apperr.ErrNoPermission
		}

		if session.Status == model.SessionStatusCompleted {
			return apperr.ErrSessionNotCancelable
		}

		entry := &model.SessionTimeline{ClassSessionID: sessionID, Event: model.TimelineSessionCanceled}
		if err := s.packages.AppendTimeline(ctx, entry); err != nil {
			return err
		}

		return s.refundSession(ctx, sessionID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Class session canceled",
		zap.Int64("session_id", sessionID),
		zap.Int64("actor_id", actorID),
	)

	return nil
}

// refundSession возвращает кредиты и освобождает слот. Идемпотентно:
// guard refunded_at превращает повторный возврат в no-op.
func (s *PackageService) refundSession(ctx context.Context, sessionID int64) error {
	first, err := s.packages.MarkSessionRefunded(ctx, sessionID)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	session, err := s.packages.GetSessionByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get session for refund: %w", err)
	}
	if session == nil {
		return apperr.ErrSessionNotFound
	}

	pkg, err := s.packages.GetPackageByID(ctx, session.SessionPackageID)
	if err != nil {
		return fmt.Errorf("get package for refund: %w", err)
	}
	if pkg == nil {
		return apperr.ErrPackageNotFound
	}

	if err := s.users.AddCredits(ctx, pkg.StudentID, session.Price); err != nil {
		return err
	}
	if err := s.slots.Release(ctx, session.TimeSlotID); err != nil {
		return err
	}

	entry := &model.SessionTimeline{ClassSessionID: sessionID, Event: model.TimelineRefundIssued, Note: session.Price.String()}
	if err := s.packages.AppendTimeline(ctx, entry); err != nil {
		return err
	}

	// Meet-ссылка возвращённой сессии больше не должна резолвиться
	s.meetCache.Delete(strings.TrimPrefix(session.MeetLink, s.meetBaseURL+"/join/"))

	s.notifier.SessionRefunded(ctx, session)

	return nil
}

// GetByID возвращает пакет с проекцией сессий, их лент и участников
func (s *PackageService) GetByID(ctx context.Context, packageID int64) (*model.SessionPackage, error) {
	pkg, err := s.packages.GetPackageByID(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}
	if pkg == nil {
		return nil, apperr.ErrPackageNotFound
	}

	sessions, err := s.packages.GetSessionsByPackageID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	for _, session := range sessions {
		timelines, err := s.packages.GetTimelines(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		session.Timelines = timelines
	}
	pkg.Sessions = sessions

	if pkg.Student, err = s.users.GetByID(ctx, pkg.StudentID); err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if pkg.Tutor, err = s.users.GetByID(ctx, pkg.TutorID); err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}

	return pkg, nil
}

// ListByUser возвращает пакеты пользователя с фильтром по статусу
func (s *PackageService) ListByUser(ctx context.Context, userID int64, status model.PackageStatus, limit, offset int) ([]*model.SessionPackage, error) {
	packages, err := s.packages.ListByUser(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, pkg := range packages {
		sessions, err := s.packages.GetSessionsByPackageID(ctx, pkg.ID)
		if err != nil {
			return nil, err
		}
		pkg.Sessions = sessions
	}

	return packages, nil
}

// ResolveMeetToken возвращает id сессии по meet-токену из кэша
func (s *PackageService) ResolveMeetToken(token string) (int64, error) {
	sessionID, ok := s.meetCache.Get(token)
	if !ok {
		return 0, apperr.ErrMeetLinkNotFound
	}
	return sessionID, nil
}
