package preferences

import (
	"context"
	"fmt"

	"github.com/courtbook/booking-engine/internal/domain"
)

// Service сервис чтения списков предпочтений
type Service struct {
	repo   PreferenceRepository
	logger Logger
}

// New создает новый сервис чтения предпочтений
func New(repo PreferenceRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetByUser возвращает упорядоченный список предпочтений участника.
// Отсутствие записей - валидный результат: пустой список
func (s *Service) GetByUser(ctx context.Context, userID, orgID int64) ([]*domain.PreferenceEntry, error) {
	entries, err := s.repo.GetByUser(ctx, userID, orgID)
	if err != nil {
		s.logger.Error("preferences.Service: GetByUser - failed to get preferences for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetByUser: %v", ErrInternal, err)
	}
	if entries == nil {
		entries = []*domain.PreferenceEntry{}
	}
	return entries, nil
}
