package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub-backend/internal/model"
)

// Notifier — fire-and-forget рассылка уведомлений. Доставка живёт
// снаружи (email, push); сбой доставки никогда не прерывает воркфлоу,
// поэтому методы не возвращают ошибок.
type Notifier interface {
	PackageRequested(ctx context.Context, pkg *model.SessionPackage)
	PackageDecided(ctx context.Context, pkg *model.SessionPackage)
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingDecided(ctx context.Context, booking *model.Booking)
	SessionRefunded(ctx context.Context, session *model.ClassSession)
}

// LogNotifier пишет события в лог. Служит дефолтной реализацией,
// пока внешний канал доставки не подключён.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) PackageRequested(ctx context.Context, pkg *model.SessionPackage) {
	n.logger.Info("notify: package requested",
		zap.Int64("package_id", pkg.ID),
		zap.Int64("student_id", pkg.StudentID),
		zap.Int64("tutor_id", pkg.TutorID),
		zap.Int("sessions", len(pkg.Sessions)),
	)
}

func (n *LogNotifier) PackageDecided(ctx context.Context, pkg *model.SessionPackage) {
	n.logger.Info("notify: package decided",
		zap.Int64("package_id", pkg.ID),
		zap.String("status", string(pkg.Status)),
	)
}

func (n *LogNotifier) BookingCreated(ctx context.Context, booking *model.Booking) {
	n.logger.Info("notify: booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", booking.StudentID),
		zap.Int64("tutor_id", booking.TutorID),
	)
}

func (n *LogNotifier) BookingDecided(ctx context.Context, booking *model.Booking) {
	n.logger.Info("notify: booking decided",
		zap.Int64("booking_id", booking.ID),
		zap.String("status", string(booking.Status)),
	)
}

func (n *LogNotifier) SessionRefunded(ctx context.Context, session *model.ClassSession) {
	n.logger.Info("notify: session refunded",
		zap.Int64("session_id", session.ID),
		zap.String("price", session.Price.String()),
	)
}
