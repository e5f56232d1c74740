package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtbook/booking-engine/internal/domain"
	reservationRepo "github.com/courtbook/booking-engine/internal/infra/storage/reservation"
	memberClient "github.com/courtbook/booking-engine/internal/integrations/memberservice"
	"github.com/courtbook/booking-engine/internal/integrations/paymentservice"
)

// UseCase use case отмены бронирования
type UseCase struct {
	reservations ReservationRepository
	memberClient MemberServiceClient
	payClient    PaymentServiceClient
	validator    RuleValidator
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	memberClient MemberServiceClient,
	payClient PaymentServiceClient,
	validator RuleValidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		memberClient: memberClient,
		payClient:    payClient,
		validator:    validator,
		logger:       logger,
	}
}

// Execute выполняет use case отмены бронирования.
// Дедлайн отмены проверяется как правило: нарушение возвращается клиенту
// полным ответом, не ошибкой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: user=%d, reservation=%d", req.Principal.UserID, req.ReservationID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование
	res, err := uc.reservations.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("CancelBooking: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("CancelBooking: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	// 3. Отменять может владелец или администратор
	if res.UserID != req.Principal.UserID && req.Principal.Role != domain.RoleAdmin {
		uc.logger.Warn("CancelBooking: user=%d is not the owner of reservation=%d", req.Principal.UserID, req.ReservationID)
		return nil, ErrForbidden
	}

	if !res.CanBeCancelled() {
		uc.logger.Warn("CancelBooking: reservation id=%d is already cancelled", req.ReservationID)
		return nil, ErrAlreadyCancelled
	}

	// 4. Получаем права тарифа (с graceful degradation)
	membership, err := uc.memberClient.GetMembershipWithGracefulDegradation(ctx, req.Principal.UserID)
	if err != nil {
		if errors.Is(err, memberClient.ErrMembershipNotFound) {
			return nil, ErrMembershipNotFound
		}
		if !errors.Is(err, memberClient.ErrServiceDegraded) {
			uc.logger.Error("CancelBooking: failed to get membership for user id=%d: %v", req.Principal.UserID, err)
			return nil, fmt.Errorf("%w: failed to get membership: %v", ErrInternal, err)
		}
		uc.logger.Warn("CancelBooking: member service degraded, using default entitlement for user id=%d", req.Principal.UserID)
	}
	entitlement := membership.ToEntitlement()

	// 5. Проверяем дедлайн отмены (администратор дедлайном не ограничен)
	if req.Principal.Role != domain.RoleAdmin {
		violation, err := uc.validator.ValidateCancellation(res, entitlement)
		if err != nil {
			uc.logger.Error("CancelBooking: cancellation validation error: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if violation != nil {
			uc.logger.Info("CancelBooking: deadline violation for reservation id=%d", req.ReservationID)
			return &Response{Accepted: false, Violations: []domain.Violation{*violation}}, nil
		}
	}

	// 6. Мягкая отмена
	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}
	if err := uc.reservations.Cancel(ctx, req.ReservationID, reason); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			// Конкурентная отмена успела раньше
			return nil, ErrAlreadyCancelled
		}
		uc.logger.Error("CancelBooking: failed to cancel reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to cancel reservation: %v", ErrInternal, err)
	}

	uc.logger.Info("CancelBooking: successfully cancelled reservation id=%d", req.ReservationID)

	// 7. Отправляем намерение вернуть средства (best effort, после отмены)
	uc.emitCancellationCredit(ctx, res)

	// Перечитываем, чтобы вернуть актуальные cancelled_at и статус
	updated, err := uc.reservations.GetByID(ctx, req.ReservationID)
	if err != nil {
		uc.logger.Error("CancelBooking: failed to reload reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to reload reservation: %v", ErrInternal, err)
	}

	return &Response{
		Accepted:    true,
		ID:          updated.ID,
		ResourceID:  updated.ResourceID,
		BookingDate: updated.BookingDate,
		StartTime:   updated.StartTime,
		Status:      string(updated.Status),
		CancelledAt: updated.CancelledAt,
	}, nil
}

// emitCancellationCredit отправляет биллингу намерение вернуть средства.
// Отмена уже закоммичена: ошибка доставки логируется, но не откатывает её
func (uc *UseCase) emitCancellationCredit(ctx context.Context, res *domain.Reservation) {
	if res.AmountPence <= 0 {
		return
	}

	_, err := uc.payClient.EmitCancellationCredit(ctx, &paymentservice.CancellationCredit{
		ReservationID: res.ID,
		UserID:        res.UserID,
		AmountPence:   res.AmountPence,
	})
	if err != nil {
		uc.logger.Error("CancelBooking: failed to emit cancellation credit for reservation id=%d: %v", res.ID, err)
	}
}
