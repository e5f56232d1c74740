package run_allocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	windowRepo "github.com/courtbook/booking-engine/internal/infra/storage/window"
	"github.com/courtbook/booking-engine/internal/integrations/notifyservice"
	"github.com/courtbook/booking-engine/internal/integrations/paymentservice"
	"github.com/courtbook/booking-engine/internal/service/allocation"
)

// UseCase use case прогона честного распределения одного окна
type UseCase struct {
	reservations ReservationRepository
	preferences  PreferenceRepository
	resources    ResourceRepository
	windows      WindowRepository
	memberClient MemberServiceClient
	payClient    PaymentServiceClient
	notifyClient NotifyServiceClient
	allocator    Allocator
	schedule     ScheduleService
	pricing      PricingService
	txManager    TransactionManager
	timeProvider TimeProvider
	loc          *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	preferences PreferenceRepository,
	resources ResourceRepository,
	windows WindowRepository,
	memberClient MemberServiceClient,
	payClient PaymentServiceClient,
	notifyClient NotifyServiceClient,
	allocator Allocator,
	schedule ScheduleService,
	pricing PricingService,
	txManager TransactionManager,
	loc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		preferences:  preferences,
		resources:    resources,
		windows:      windows,
		memberClient: memberClient,
		payClient:    payClient,
		notifyClient: notifyClient,
		allocator:    allocator,
		schedule:     schedule,
		pricing:      pricing,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		loc:          loc,
		logger:       logger,
	}
}

// Execute прогоняет распределение окна: снапшот, решатель, атомарный коммит.
// Вызывается планировщиком ровно один раз на окно; повтор после сбоя идет
// от сохраненного снапшота, никогда от живых данных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	w, err := uc.windows.GetByID(ctx, req.WindowID)
	if err != nil {
		if errors.Is(err, windowRepo.ErrWindowNotFound) {
			return nil, ErrWindowNotFound
		}
		return nil, fmt.Errorf("%w: failed to get window: %v", ErrInternal, err)
	}

	uc.logger.Info("RunAllocation: window=%d state=%s target=%s attempt=%d",
		w.ID, w.State, w.TargetDate.Format(domain.DateFormat), w.Attempts+1)

	// 1. Получаем неизменяемый вход прогона
	snapshot, err := uc.acquireSnapshot(ctx, w)
	if err != nil {
		return nil, err
	}

	// 2. Разворачиваем предпочтения и решаем задачу распределения
	resourcesByID, sitesByID, err := uc.loadResources(ctx, w.OrganisationID)
	if err != nil {
		uc.markFailed(ctx, w.ID)
		return nil, err
	}

	prefsByUser := groupByUser(snapshot.Preferences)
	candidates := make(map[int64][]allocation.Candidate, len(snapshot.Members))
	for _, m := range snapshot.Members {
		candidates[m.UserID] = uc.allocator.Expand(m.UserID, prefsByUser[m.UserID], resourcesByID, snapshot.Slots, snapshot.TargetDate)
	}

	assignments := uc.allocator.Solve(snapshot.Members, candidates)

	// 3. Атомарно коммитим результат: бронирования, записи аллокации
	// и переход в allocated - либо все, либо ничего
	created, allocations, err := uc.commit(ctx, w, snapshot, assignments, resourcesByID, sitesByID)
	if err != nil {
		uc.markFailed(ctx, w.ID)
		return nil, err
	}

	assigned := 0
	for _, a := range allocations {
		if a.IsAssigned() {
			assigned++
		}
	}
	uc.logger.Info("RunAllocation: window=%d allocated, %d/%d members assigned", w.ID, assigned, len(allocations))

	// 4. Платежные намерения и уведомления (best effort, после коммита)
	uc.emitPaymentIntents(ctx, created)
	uc.notifyOutcomes(ctx, w.ID, allocations)

	return &Response{
		WindowID:   w.ID,
		Members:    len(snapshot.Members),
		Assigned:   assigned,
		Unassigned: len(allocations) - assigned,
	}, nil
}

// acquireSnapshot возвращает неизменяемый вход прогона и переводит окно
// в allocating. Для первого прогона снапшот снимается и сохраняется до
// перехода; повтор и возобновление читают сохраненный
func (uc *UseCase) acquireSnapshot(ctx context.Context, w *domain.ContentionWindow) (*domain.WindowSnapshot, error) {
	switch w.State {
	case domain.WindowClosed:
		snapshot, err := uc.buildSnapshot(ctx, w)
		if err != nil {
			return nil, err
		}
		if err := uc.windows.SaveSnapshot(ctx, w.ID, snapshot); err != nil {
			return nil, fmt.Errorf("%w: failed to save snapshot: %v", ErrInternal, err)
		}
		if err := uc.windows.TransitionState(ctx, w.ID, domain.WindowClosed, domain.WindowAllocating); err != nil {
			if errors.Is(err, windowRepo.ErrStateConflict) {
				return nil, ErrWrongState
			}
			return nil, fmt.Errorf("%w: failed to enter allocating: %v", ErrInternal, err)
		}
		return snapshot, nil

	case domain.WindowFailed:
		if err := uc.windows.TransitionState(ctx, w.ID, domain.WindowFailed, domain.WindowAllocating); err != nil {
			if errors.Is(err, windowRepo.ErrStateConflict) {
				return nil, ErrWrongState
			}
			return nil, fmt.Errorf("%w: failed to re-enter allocating: %v", ErrInternal, err)
		}
		return uc.loadSnapshot(ctx, w.ID)

	case domain.WindowAllocating:
		// Возобновление после падения процесса посреди прогона
		uc.logger.Warn("RunAllocation: window=%d found mid-allocation, resuming from durable snapshot", w.ID)
		return uc.loadSnapshot(ctx, w.ID)

	default:
		return nil, fmt.Errorf("%w: window=%d is %s", ErrWrongState, w.ID, w.State)
	}
}

func (uc *UseCase) loadSnapshot(ctx context.Context, windowID int64) (*domain.WindowSnapshot, error) {
	snapshot, err := uc.windows.GetSnapshot(ctx, windowID)
	if err != nil {
		if errors.Is(err, windowRepo.ErrSnapshotNotFound) {
			uc.markFailed(ctx, windowID)
			return nil, ErrSnapshotMissing
		}
		return nil, fmt.Errorf("%w: failed to load snapshot: %v", ErrInternal, err)
	}
	return snapshot, nil
}

// commit применяет результат решателя одной сериализуемой транзакцией
func (uc *UseCase) commit(
	ctx context.Context,
	w *domain.ContentionWindow,
	snapshot *domain.WindowSnapshot,
	assignments []allocation.Assignment,
	resourcesByID map[int64]*domain.Resource,
	sitesByID map[int64]*domain.Site,
) ([]*domain.Reservation, []*domain.Allocation, error) {
	// Права тарифов для ценообразования собираются до транзакции
	entitlements := make(map[int64]*domain.Entitlement, len(assignments))
	for _, a := range assignments {
		if a.Candidate == nil {
			continue
		}
		membership, err := uc.memberClient.GetMembershipWithGracefulDegradation(ctx, a.UserID)
		if err != nil {
			// Деградация допустима: цена считается по тарифу по умолчанию
			uc.logger.Warn("RunAllocation: pricing user=%d with default entitlement: %v", a.UserID, err)
		}
		entitlements[a.UserID] = membership.ToEntitlement()
	}

	var created []*domain.Reservation
	var allocations []*domain.Allocation

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created = created[:0]
		allocations = allocations[:0]

		for i := range assignments {
			a := assignments[i]
			if a.Candidate == nil {
				allocations = append(allocations, &domain.Allocation{
					WindowID: w.ID,
					UserID:   a.UserID,
				})
				continue
			}

			slot := a.Candidate.Slot
			res := resourcesByID[slot.ResourceID]
			site := sitesByID[res.SiteID]

			endTime, err := slot.End()
			if err != nil {
				return fmt.Errorf("%w: bad slot interval for user=%d: %v", ErrInternal, a.UserID, err)
			}

			fee, band, err := uc.pricing.Fee(entitlements[a.UserID], res, site, slot.BookingDate, slot.StartTime, slot.DurationMinutes, uc.loc)
			if err != nil {
				return fmt.Errorf("%w: failed to price slot for user=%d: %v", ErrInternal, a.UserID, err)
			}

			reservation := &domain.Reservation{
				OrganisationID:  w.OrganisationID,
				ResourceID:      slot.ResourceID,
				UserID:          a.UserID,
				BookingDate:     slot.BookingDate,
				StartTime:       slot.StartTime,
				EndTime:         endTime,
				DurationMinutes: slot.DurationMinutes,
				Status:          domain.StatusConfirmed,
				Source:          domain.SourceFairness,
				AmountPence:     fee,
				PriceBand:       band,
			}
			created = append(created, reservation)

			rank := a.Candidate.Rank
			resourceID := slot.ResourceID
			bookingDate := slot.BookingDate
			startTime := slot.StartTime
			durationMin := slot.DurationMinutes
			allocations = append(allocations, &domain.Allocation{
				WindowID:       w.ID,
				UserID:         a.UserID,
				PreferenceRank: &rank,
				ResourceID:     &resourceID,
				BookingDate:    &bookingDate,
				StartTime:      &startTime,
				DurationMin:    &durationMin,
				Weight:         a.Candidate.Weight,
			})
		}

		// Бронирования пачкой; id заполняются по мере вставки
		if err := uc.reservations.CreateBatch(txCtx, created); err != nil {
			return fmt.Errorf("%w: failed to create reservations: %v", ErrCommitFailed, err)
		}

		ci := 0
		for _, alloc := range allocations {
			if alloc.IsAssigned() {
				alloc.ReservationID = &created[ci].ID
				ci++
			}
		}

		if err := uc.windows.SaveAllocations(txCtx, allocations); err != nil {
			return fmt.Errorf("%w: failed to save allocations: %v", ErrCommitFailed, err)
		}

		if err := uc.windows.TransitionState(txCtx, w.ID, domain.WindowAllocating, domain.WindowAllocated); err != nil {
			return fmt.Errorf("%w: failed to enter allocated: %v", ErrCommitFailed, err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return created, allocations, nil
}

// markFailed переводит окно в failed (best effort): планировщик перепрогонит
// его от сохраненного снапшота
func (uc *UseCase) markFailed(ctx context.Context, windowID int64) {
	if err := uc.windows.TransitionState(ctx, windowID, domain.WindowAllocating, domain.WindowFailed); err != nil {
		uc.logger.Error("RunAllocation: failed to mark window=%d as failed: %v", windowID, err)
	}
}

func (uc *UseCase) loadResources(ctx context.Context, orgID int64) (map[int64]*domain.Resource, map[int64]*domain.Site, error) {
	resources, err := uc.resources.GetActiveByOrg(ctx, orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to get resources: %v", ErrInternal, err)
	}

	resourcesByID := make(map[int64]*domain.Resource, len(resources))
	sitesByID := make(map[int64]*domain.Site)
	for _, r := range resources {
		resourcesByID[r.ID] = r
		if _, ok := sitesByID[r.SiteID]; !ok {
			site, err := uc.resources.GetSiteByID(ctx, r.SiteID)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: failed to get site %d: %v", ErrInternal, r.SiteID, err)
			}
			sitesByID[r.SiteID] = site
		}
	}
	return resourcesByID, sitesByID, nil
}

// emitPaymentIntents отправляет по одному платежному намерению на каждого
// получившего слот участника
func (uc *UseCase) emitPaymentIntents(ctx context.Context, created []*domain.Reservation) {
	for _, res := range created {
		if res.AmountPence <= 0 {
			continue
		}
		_, err := uc.payClient.EmitReservationIntent(ctx, &paymentservice.ReservationIntent{
			ReservationID: res.ID,
			UserID:        res.UserID,
			AmountPence:   res.AmountPence,
			PriceBand:     res.PriceBand,
			BookingDate:   res.BookingDate.Format(domain.DateFormat),
			Description:   fmt.Sprintf("Court allocation %s %s", res.BookingDate.Format(domain.DateFormat), res.StartTime),
		})
		if err != nil {
			uc.logger.Error("RunAllocation: failed to emit payment intent for reservation=%d: %v", res.ID, err)
		}
	}
}

// notifyOutcomes шлет каждому участнику явный исход: assigned или unassigned.
// Отсутствие слота - всегда явное событие, не таймаут
func (uc *UseCase) notifyOutcomes(ctx context.Context, windowID int64, allocations []*domain.Allocation) {
	outcomes := make([]notifyservice.AllocationOutcome, 0, len(allocations))
	for _, a := range allocations {
		outcome := notifyservice.AllocationOutcome{
			UserID:   a.UserID,
			WindowID: windowID,
			Assigned: a.IsAssigned(),
		}
		if a.IsAssigned() {
			outcome.ResourceID = a.ResourceID
			outcome.BookingDate = a.BookingDate.Format(domain.DateFormat)
			outcome.StartTime = string(*a.StartTime)
			outcome.DurationMin = *a.DurationMin
		}
		outcomes = append(outcomes, outcome)
	}

	if err := uc.notifyClient.SendAllocationOutcomes(ctx, outcomes); err != nil {
		uc.logger.Error("RunAllocation: failed to send allocation outcomes for window=%d: %v", windowID, err)
	}
}
