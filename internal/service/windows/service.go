package windows

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtbook/booking-engine/internal/domain"
	windowRepo "github.com/courtbook/booking-engine/internal/infra/storage/window"
)

// Service сервис чтения окон честной аллокации
type Service struct {
	repo   WindowRepository
	logger Logger
}

// New создает новый сервис чтения окон
func New(repo WindowRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetCurrent возвращает текущее окно организации: активное, если оно есть,
// иначе последнее завершенное
func (s *Service) GetCurrent(ctx context.Context, orgID int64) (*domain.ContentionWindow, error) {
	w, err := s.repo.GetActive(ctx, orgID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, windowRepo.ErrWindowNotFound) {
		s.logger.Error("windows.Service: GetCurrent - failed to get active window for org=%d: %v", orgID, err)
		return nil, fmt.Errorf("%w: GetCurrent: %v", ErrInternal, err)
	}

	w, err = s.repo.GetLatest(ctx, orgID)
	if err != nil {
		if errors.Is(err, windowRepo.ErrWindowNotFound) {
			return nil, fmt.Errorf("%w: GetCurrent - org=%d", ErrWindowNotFound, orgID)
		}
		s.logger.Error("windows.Service: GetCurrent - failed to get latest window for org=%d: %v", orgID, err)
		return nil, fmt.Errorf("%w: GetCurrent: %v", ErrInternal, err)
	}
	return w, nil
}

// GetResult возвращает окно вместе с итогами распределения.
// Итоги доступны только после перехода окна в состояние allocated
func (s *Service) GetResult(ctx context.Context, windowID int64) (*domain.ContentionWindow, []*domain.Allocation, error) {
	w, err := s.repo.GetByID(ctx, windowID)
	if err != nil {
		if errors.Is(err, windowRepo.ErrWindowNotFound) {
			return nil, nil, fmt.Errorf("%w: GetResult - id=%d", ErrWindowNotFound, windowID)
		}
		s.logger.Error("windows.Service: GetResult - failed to get window id=%d: %v", windowID, err)
		return nil, nil, fmt.Errorf("%w: GetResult: %v", ErrInternal, err)
	}

	if w.State != domain.WindowAllocated {
		return nil, nil, fmt.Errorf("%w: GetResult - window id=%d is %s", ErrResultNotReady, windowID, w.State)
	}

	allocations, err := s.repo.GetAllocationsByWindow(ctx, windowID)
	if err != nil {
		s.logger.Error("windows.Service: GetResult - failed to get allocations for window id=%d: %v", windowID, err)
		return nil, nil, fmt.Errorf("%w: GetResult: %v", ErrInternal, err)
	}
	return w, allocations, nil
}
