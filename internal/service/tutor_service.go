package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub-backend/internal/apperr"
	"github.com/tutorhub/tutorhub-backend/internal/model"
)

// TutorService — управление ресурсами репетитора: слоты доступности,
// тиры предметов, предложения пакетов, шаблоны регулярного расписания.
type TutorService struct {
	users        UserStore
	slots        SlotStore
	subjects     SubjectStore
	tiers        TierStore
	offerings    OfferingStore
	availability AvailabilityStore
	logger       *zap.Logger
}

func NewTutorService(
	users UserStore,
	slots SlotStore,
	subjects SubjectStore,
	tiers TierStore,
	offerings OfferingStore,
	availability AvailabilityStore,
	logger *zap.Logger,
) *TutorService {
	return &TutorService{
		users:        users,
		slots:        slots,
		subjects:     subjects,
		tiers:        tiers,
		offerings:    offerings,
		availability: availability,
		logger:       logger,
	}
}

// requireTutor проверяет что пользователь существует и является репетитором
func (s *TutorService) requireTutor(ctx context.Context, tutorID int64) (*model.User, error) {
	tutor, err := s.users.GetByID(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}
	if tutor == nil {
		return nil, apperr.ErrTutorNotFound
	}
	if !tutor.IsTutor {
		return nil, apperr.ErrNotATutor
	}
	return tutor, nil
}

// PublishSlot публикует слот доступности
func (s *TutorService) PublishSlot(ctx context.Context, tutorID int64, startTime, endTime time.Time) (*model.TimeSlot, error) {
	if _, err := s.requireTutor(ctx, tutorID); err != nil {
		return nil, err
	}

	slot := &model.TimeSlot{
		TutorID:   tutorID,
		StartTime: startTime,
		EndTime:   endTime,
		IsBooked:  false,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("Time slot published",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("tutor_id", tutorID),
		zap.Time("start_time", startTime),
	)

	return slot, nil
}

// GetTutorSlots получает слоты репетитора в диапазоне
func (s *TutorService) GetTutorSlots(ctx context.Context, tutorID int64, from, to time.Time) ([]*model.TimeSlot, error) {
	return s.slots.GetByTutorID(ctx, tutorID, from, to)
}

// CreateSubject создаёт предмет в каталоге
func (s *TutorService) CreateSubject(ctx context.Context, tutorID int64, name string) (*model.Subject, error) {
	if _, err := s.requireTutor(ctx, tutorID); err != nil {
		return nil, err
	}

	subject := &model.Subject{Name: name}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, err
	}

	s.logger.Info("Subject created",
		zap.Int64("subject_id", subject.ID),
		zap.String("name", name),
	)

	return subject, nil
}

// ListSubjects получает каталог предметов
func (s *TutorService) ListSubjects(ctx context.Context) ([]*model.Subject, error) {
	return s.subjects.List(ctx)
}

// CreateTier создаёт тир предметов репетитора
func (s *TutorService) CreateTier(ctx context.Context, tutorID, credits int64, category string, subjectIDs []int64) (*model.SubjectTier, error) {
	if _, err := s.requireTutor(ctx, tutorID); err != nil {
		return nil, err
	}

	tier := &model.SubjectTier{
		TutorID:  tutorID,
		Credits:  credits,
		Category: category,
	}
	if err := s.tiers.Create(ctx, tier, subjectIDs); err != nil {
		return nil, err
	}

	s.logger.Info("Subject tier created",
		zap.Int64("tier_id", tier.ID),
		zap.Int64("tutor_id", tutorID),
		zap.Int64("credits", credits),
		zap.Int("subjects", len(subjectIDs)),
	)

	return tier, nil
}

// GetTutorTiers получает все тиры репетитора
func (s *TutorService) GetTutorTiers(ctx context.Context, tutorID int64) ([]*model.SubjectTier, error) {
	return s.tiers.GetByTutorID(ctx, tutorID)
}

// CreatePackageType создаёт вид пакета
func (s *TutorService) CreatePackageType(ctx context.Context, name string, maximumSessions int, description string) (*model.PackageType, error) {
	pt := &model.PackageType{
		Name:            name,
		MaximumSessions: maximumSessions,
		Description:     description,
	}
	if err := s.offerings.CreatePackageType(ctx, pt); err != nil {
		return nil, err
	}

	s.logger.Info("Package type created",
		zap.Int64("package_type_id", pt.ID),
		zap.String("name", name),
		zap.Int("maximum_sessions", maximumSessions),
	)

	return pt, nil
}

// CreateOffering создаёт предложение пакета от репетитора
func (s *TutorService) CreateOffering(ctx context.Context, tutorID, packageTypeID int64, discountPercent int) (*model.PackageOffering, error) {
	if _, err := s.requireTutor(ctx, tutorID); err != nil {
		return nil, err
	}

	pt, err := s.offerings.GetPackageTypeByID(ctx, packageTypeID)
	if err != nil {
		return nil, fmt.Errorf("get package type: %w", err)
	}
	if pt == nil {
		return nil, apperr.ErrPackageTypeNotFound
	}

	offering := &model.PackageOffering{
		TutorID:         tutorID,
		PackageTypeID:   packageTypeID,
		DiscountPercent: discountPercent,
		IsActive:        true,
	}
	if err := s.offerings.CreateOffering(ctx, offering); err != nil {
		return nil, err
	}
	offering.PackageType = pt

	s.logger.Info("Package offering created",
		zap.Int64("offering_id", offering.ID),
		zap.Int64("tutor_id", tutorID),
		zap.Int("discount_percent", discountPercent),
	)

	return offering, nil
}

// GetTutorOfferings получает активные предложения репетитора
func (s *TutorService) GetTutorOfferings(ctx context.Context, tutorID int64) ([]*model.PackageOffering, error) {
	return s.offerings.GetByTutorID(ctx, tutorID)
}

// CreateAvailabilityTemplates создаёт группу шаблонов регулярной доступности
func (s *TutorService) CreateAvailabilityTemplates(ctx context.Context, tutorID int64, templates []*model.AvailabilityTemplate) error {
	if _, err := s.requireTutor(ctx, tutorID); err != nil {
		return err
	}

	groupID := uuid.New()
	for _, template := range templates {
		template.GroupID = groupID
		template.TutorID = tutorID
		template.IsActive = true
		if err := s.availability.Create(ctx, template); err != nil {
			return err
		}
	}

	s.logger.Info("Availability templates created",
		zap.Int64("tutor_id", tutorID),
		zap.String("group_id", groupID.String()),
		zap.Int("templates", len(templates)),
	)

	return nil
}

// GetTutorTemplates получает шаблоны доступности репетитора
func (s *TutorService) GetTutorTemplates(ctx context.Context, tutorID int64) ([]*model.AvailabilityTemplate, error) {
	return s.availability.GetByTutorID(ctx, tutorID)
}

// DeactivateTemplates выключает группу шаблонов
func (s *TutorService) DeactivateTemplates(ctx context.Context, tutorID int64, groupID uuid.UUID) error {
	templates, err := s.availability.GetByTutorID(ctx, tutorID)
	if err != nil {
		return fmt.Errorf("get templates: %w", err)
	}
	owned := false
	for _, template := range templates {
		if template.GroupID == groupID {
			owned = true
			break
		}
	}
	if !owned {
		return apperr.ErrNoPermission
	}

	if err := s.availability.DeactivateGroup(ctx, groupID); err != nil {
		return err
	}

	s.logger.Info("Availability templates deactivated",
		zap.Int64("tutor_id", tutorID),
		zap.String("group_id", groupID.String()),
	)

	return nil
}

// GenerateSlotsForAllTemplates материализует слоты по всем активным
// шаблонам на weeksAhead недель вперёд, пропуская уже существующие
func (s *TutorService) GenerateSlotsForAllTemplates(ctx context.Context, weeksAhead int) error {
	templates, err := s.availability.GetAllActive(ctx)
	if err != nil {
		return fmt.Errorf("get active templates: %w", err)
	}

	now := time.Now()
	created := 0

	for _, template := range templates {
		start := template.NextOccurrence(now)
		for week := 0; week < weeksAhead; week++ {
			slotStart := start.AddDate(0, 0, 7*week)
			slotEnd := slotStart.Add(time.Duration(template.DurationMinutes) * time.Minute)

			exists, err := s.slots.SlotExists(ctx, template.TutorID, slotStart)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			slot := &model.TimeSlot{
				TutorID:   template.TutorID,
				StartTime: slotStart,
				EndTime:   slotEnd,
				IsBooked:  false,
			}
			if err := s.slots.Create(ctx, slot); err != nil {
				return err
			}
			created++
		}
	}

	s.logger.Info("Slots generated from availability templates",
		zap.Int("templates", len(templates)),
		zap.Int("created", created),
	)

	return nil
}
