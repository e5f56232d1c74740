package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtbook/booking-engine/internal/domain"
	reservationRepo "github.com/courtbook/booking-engine/internal/infra/storage/reservation"
)

// Service сервис чтения бронирований
type Service struct {
	repo   ReservationRepository
	logger Logger
}

// New создает новый сервис чтения бронирований
func New(repo ReservationRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetByID возвращает бронирование по ID. Участник видит только свои
// бронирования, администратор - любые
func (s *Service) GetByID(ctx context.Context, principal domain.Principal, id int64) (*domain.Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, fmt.Errorf("%w: GetByID - id=%d", ErrReservationNotFound, id)
		}
		s.logger.Error("reservations.Service: GetByID - failed to get reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID: %v", ErrInternal, err)
	}

	if res.UserID != principal.UserID && principal.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: GetByID - id=%d", ErrForbidden, id)
	}

	return res, nil
}

// GetByUser возвращает бронирования участника, опционально по статусу
func (s *Service) GetByUser(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	list, err := s.repo.GetByUserID(ctx, userID, status)
	if err != nil {
		s.logger.Error("reservations.Service: GetByUser - failed to get reservations for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetByUser: %v", ErrInternal, err)
	}
	return list, nil
}

// List возвращает бронирования организации по фильтру (административная выборка)
func (s *Service) List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	list, err := s.repo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("reservations.Service: List - failed to list reservations: %v", err)
		return nil, fmt.Errorf("%w: List: %v", ErrInternal, err)
	}
	return list, nil
}
