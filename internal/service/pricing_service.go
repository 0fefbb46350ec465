package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub-backend/internal/model"
)

type PricingService struct {
	tiers  TierStore
	logger *zap.Logger
}

func NewPricingService(tiers TierStore, logger *zap.Logger) *PricingService {
	return &PricingService{
		tiers:  tiers,
		logger: logger,
	}
}

// ResolvePrice вычисляет цену сессии по тиру (репетитор, предмет).
// Чистая функция от своих аргументов и текущей таблицы тиров.
func (s *PricingService) ResolvePrice(ctx context.Context, tutorID, subjectID int64, sessionMinutes, discountPercent int) (model.CreditAmount, error) {
	tier, err := s.tiers.ResolveForSubject(ctx, tutorID, subjectID)
	if err != nil {
		return 0, fmt.Errorf("resolve tier: %w", err)
	}

	return ComputeSessionPrice(tier.Credits, sessionMinutes, discountPercent), nil
}

// ComputeSessionPrice считает цену в сотых долях кредита.
// База — tierCredits за 60 минут, скидка пакета — множитель цены.
// Всё целочисленно, деление выполняется один раз в конце:
// price = tierCredits * minutes * discount / 60
// (в сотых долях: *100 в числителе и /100 от процентов сокращаются).
func ComputeSessionPrice(tierCredits int64, sessionMinutes, discountPercent int) model.CreditAmount {
	return model.CreditAmount(tierCredits * int64(sessionMinutes) * int64(discountPercent) / 60)
}
