package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	resourceRepo "github.com/courtbook/booking-engine/internal/infra/storage/resource"
	"github.com/courtbook/booking-engine/pkg/types"
)

// UseCase use case получения сетки доступных слотов корта
type UseCase struct {
	reservations ReservationRepository
	resources    ResourceRepository
	schedule     ScheduleService
	loc          *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	resources ResourceRepository,
	schedule ScheduleService,
	loc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		resources:    resources,
		schedule:     schedule,
		loc:          loc,
		logger:       logger,
	}
}

// Execute возвращает сетку слотов корта на дату с пометками занятости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: resource=%d, date=%s, duration=%d",
		req.ResourceID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = domain.DefaultSlotDurations[0]
	}
	if duration%domain.SlotStepMinutes != 0 || duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be a positive multiple of %d minutes", ErrInvalidInput, domain.SlotStepMinutes)
	}

	// 2. Получаем корт и площадку
	res, err := uc.resources.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailableSlots: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	site, err := uc.resources.GetSiteByID(ctx, res.SiteID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get site id=%d: %v", res.SiteID, err)
		return nil, fmt.Errorf("%w: failed to get site: %v", ErrInternal, err)
	}

	// 3. Строим сетку слотов между открытием и закрытием
	openTime := types.TimeString(domain.DayOpenTime)
	closeTime := uc.schedule.ClosingTime(res, site, req.Date, uc.loc)

	grid, err := uc.schedule.BuildGrid(openTime, closeTime, duration)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build grid: %v", err)
		return nil, fmt.Errorf("%w: failed to build grid: %v", ErrInternal, err)
	}

	// 4. Помечаем занятые слоты подтвержденными бронированиями
	existing, err := uc.reservations.GetForResourceAndDate(ctx, req.ResourceID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}
	uc.schedule.MarkConflicts(grid, existing)

	return &Response{
		ResourceID:      res.ID,
		ResourceName:    res.Name,
		Date:            req.Date,
		DurationMinutes: duration,
		OpenTime:        openTime,
		CloseTime:       closeTime,
		Slots:           grid,
	}, nil
}
