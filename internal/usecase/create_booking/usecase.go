package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	reservationRepo "github.com/courtbook/booking-engine/internal/infra/storage/reservation"
	resourceRepo "github.com/courtbook/booking-engine/internal/infra/storage/resource"
	windowRepo "github.com/courtbook/booking-engine/internal/infra/storage/window"
	memberClient "github.com/courtbook/booking-engine/internal/integrations/memberservice"
	"github.com/courtbook/booking-engine/internal/integrations/paymentservice"
	"github.com/courtbook/booking-engine/internal/service/rules"
)

// UseCase use case создания бронирования (FCFS-путь)
type UseCase struct {
	reservations ReservationRepository
	resources    ResourceRepository
	windows      WindowRepository
	memberClient MemberServiceClient
	payClient    PaymentServiceClient
	validator    RuleValidator
	pricing      PricingService
	txManager    TransactionManager
	timeProvider TimeProvider
	loc          *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	resources ResourceRepository,
	windows WindowRepository,
	memberClient MemberServiceClient,
	payClient PaymentServiceClient,
	validator RuleValidator,
	pricing PricingService,
	txManager TransactionManager,
	loc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		resources:    resources,
		windows:      windows,
		memberClient: memberClient,
		payClient:    payClient,
		validator:    validator,
		pricing:      pricing,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		loc:          loc,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Правила проверяются полным набором внутри сериализуемой транзакции;
// финальную защиту от гонки дает ограничение уникальности на коммите
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, resource=%d, date=%s, time=%s, duration=%d",
		req.Principal.UserID, req.ResourceID, req.Date.Format(domain.DateFormat), req.StartTime, req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем корт и площадку
	res, err := uc.resources.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("CreateBooking: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	site, err := uc.resources.GetSiteByID(ctx, res.SiteID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get site id=%d: %v", res.SiteID, err)
		return nil, fmt.Errorf("%w: failed to get site: %v", ErrInternal, err)
	}

	// 4. Получаем права тарифа участника (с graceful degradation)
	membership, err := uc.memberClient.GetMembershipWithGracefulDegradation(ctx, req.Principal.UserID)
	if err != nil {
		if errors.Is(err, memberClient.ErrMembershipNotFound) {
			uc.logger.Warn("CreateBooking: user id=%d has no membership", req.Principal.UserID)
			return nil, ErrMembershipNotFound
		}
		if !errors.Is(err, memberClient.ErrServiceDegraded) {
			uc.logger.Error("CreateBooking: failed to get membership for user id=%d: %v", req.Principal.UserID, err)
			return nil, fmt.Errorf("%w: failed to get membership: %v", ErrInternal, err)
		}
		uc.logger.Warn("CreateBooking: member service degraded, using default entitlement for user id=%d", req.Principal.UserID)
	}
	entitlement := membership.ToEntitlement()

	// 5. Дата под активным окном аллокации бронируется только через окно
	if err := uc.checkNoActiveWindow(ctx, req.OrganisationID, req.Date); err != nil {
		return nil, err
	}

	var result *domain.Reservation
	var violations []domain.Violation

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Собираем историю участника для проверки лимитов
		localNow := now.In(uc.loc)
		today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, uc.loc)

		futureCount, err := uc.reservations.CountFutureConfirmed(txCtx, req.Principal.UserID, today)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count future reservations: %v", err)
			return fmt.Errorf("%w: failed to count future reservations: %v", ErrInternal, err)
		}

		dayMinutes, err := uc.reservations.SumConfirmedMinutes(txCtx, req.Principal.UserID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to sum daily minutes: %v", err)
			return fmt.Errorf("%w: failed to sum daily minutes: %v", ErrInternal, err)
		}

		// 6.2. Получаем подтвержденные бронирования корта на дату с блокировкой (FOR UPDATE)
		existing, err := uc.reservations.GetForResourceAndDate(txCtx, req.ResourceID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get reservations for resource: %v", err)
			return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}

		// 6.3. Прогоняем полный набор правил
		violations, err = uc.validator.ValidateBooking(rules.ValidateBookingInput{
			Entitlement:             entitlement,
			BookingDate:             req.Date,
			StartTime:               req.StartTime,
			DurationMinutes:         req.DurationMinutes,
			FutureConfirmedCount:    futureCount,
			SameDayConfirmedMinutes: dayMinutes,
			Conflicting:             existing,
		})
		if err != nil {
			uc.logger.Warn("CreateBooking: rule validation rejected input: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if len(violations) > 0 {
			uc.logger.Info("CreateBooking: rejected with %d violations for user=%d", len(violations), req.Principal.UserID)
			return nil
		}

		// 6.4. Считаем стоимость
		fee, band, err := uc.pricing.Fee(entitlement, res, site, req.Date, req.StartTime, req.DurationMinutes, uc.loc)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to price slot: %v", err)
			return fmt.Errorf("%w: failed to price slot: %v", ErrInternal, err)
		}

		endTime, err := req.StartTime.AddMinutes(req.DurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: failed to calculate end time: %v", ErrInvalidInput, err)
		}

		// 6.5. Сохраняем бронирование; конкурентный дубль отлавливается
		// ограничением уникальности на коммите
		created, err := uc.reservations.Create(txCtx, &domain.Reservation{
			OrganisationID:  req.OrganisationID,
			ResourceID:      req.ResourceID,
			UserID:          req.Principal.UserID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			DurationMinutes: req.DurationMinutes,
			Status:          domain.StatusConfirmed,
			Source:          domain.SourceMember,
			AmountPence:     fee,
			PriceBand:       band,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: slot taken by concurrent request, resource=%d date=%s time=%s",
					req.ResourceID, req.Date.Format(domain.DateFormat), req.StartTime)
				return ErrSlotTaken
			}
			uc.logger.Error("CreateBooking: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(violations) > 0 {
		return &Response{Accepted: false, Violations: violations}, nil
	}

	uc.logger.Info("CreateBooking: successfully created reservation id=%d", result.ID)

	// 7. Отправляем платежное намерение (best effort, после коммита)
	uc.emitPaymentIntent(ctx, result)

	return &Response{
		Accepted:        true,
		ID:              result.ID,
		ResourceID:      result.ResourceID,
		UserID:          result.UserID,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		Source:          string(result.Source),
		AmountPence:     result.AmountPence,
		PriceBand:       result.PriceBand,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// checkNoActiveWindow отклоняет FCFS-запрос на дату, которую сейчас
// распределяет окно честной аллокации
func (uc *UseCase) checkNoActiveWindow(ctx context.Context, orgID int64, date time.Time) error {
	w, err := uc.windows.GetActive(ctx, orgID)
	if err != nil {
		if errors.Is(err, windowRepo.ErrWindowNotFound) {
			return nil
		}
		uc.logger.Error("CreateBooking: failed to check active window: %v", err)
		return fmt.Errorf("%w: failed to check active window: %v", ErrInternal, err)
	}

	if w.State == domain.WindowScheduled {
		return nil
	}

	if sameDay(w.TargetDate, date) {
		uc.logger.Info("CreateBooking: date %s is held by contention window id=%d (state=%s)",
			date.Format(domain.DateFormat), w.ID, w.State)
		return ErrWindowActive
	}
	return nil
}

// emitPaymentIntent отправляет биллингу намерение списать оплату.
// Бронирование уже закоммичено: ошибка доставки логируется, но не откатывает его
func (uc *UseCase) emitPaymentIntent(ctx context.Context, res *domain.Reservation) {
	if res.AmountPence <= 0 {
		return
	}

	_, err := uc.payClient.EmitReservationIntent(ctx, &paymentservice.ReservationIntent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		AmountPence:   res.AmountPence,
		PriceBand:     res.PriceBand,
		BookingDate:   res.BookingDate.Format(domain.DateFormat),
		Description:   fmt.Sprintf("Court booking %s %s", res.BookingDate.Format(domain.DateFormat), res.StartTime),
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to emit payment intent for reservation id=%d: %v", res.ID, err)
	}
}

// sameDay проверяет, что две даты относятся к одному и тому же дню
func sameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
