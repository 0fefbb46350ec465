package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub-backend/internal/service"
)

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	tutorService *service.TutorService
	weeksAhead   int
	logger       *zap.Logger
	stopChan     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(tutorService *service.TutorService, weeksAhead int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		tutorService: tutorService,
		weeksAhead:   weeksAhead,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runSlotGenerationTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runSlotGenerationTask периодически материализует слоты по шаблонам доступности
func (s *Scheduler) runSlotGenerationTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.generateSlots(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.generateSlots(ctx)
		case <-s.stopChan:
			s.logger.Info("Slot generation task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Slot generation task cancelled")
			return
		}
	}
}

func (s *Scheduler) generateSlots(ctx context.Context) {
	s.logger.Info("Starting automatic slot generation")

	if err := s.tutorService.GenerateSlotsForAllTemplates(ctx, s.weeksAhead); err != nil {
		s.logger.Error("Failed to generate slots", zap.Error(err))
		return
	}

	s.logger.Info("Automatic slot generation completed successfully")
}
