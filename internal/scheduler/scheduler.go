package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	windowRepo "github.com/courtbook/booking-engine/internal/infra/storage/window"
	"github.com/courtbook/booking-engine/internal/usecase/run_allocation"
	"github.com/courtbook/booking-engine/pkg/types"
)

// Config параметры планировщика окон
type Config struct {
	OrganisationID int64
	Location       *time.Location
	Tick           time.Duration
	MaxAttempts    int
	// CollectDuration длительность фазы сбора после открытия окна
	CollectDuration time.Duration
	// AdvanceDays горизонт бронирования организации: окно, открывшееся
	// сегодня, распределяет дату через столько дней
	AdvanceDays int
	ServiceName string
}

// Scheduler ведет жизненный цикл окон честной аллокации: создает следующее
// окно, открывает и закрывает его по расписанию и запускает прогон
// распределения ровно один раз (повторы только после сбоя, от снапшота).
// Работает в одной горутине; конкурентные инстансы безопасны благодаря
// compare-and-set переходам состояния в хранилище
type Scheduler struct {
	windows WindowRepository
	runner  AllocationRunner
	cfg     Config

	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// New создает новый планировщик. metrics может быть nil
func New(windows WindowRepository, runner AllocationRunner, cfg Config, metrics Metrics, logger Logger) *Scheduler {
	return &Scheduler{
		windows:      windows,
		runner:       runner,
		cfg:          cfg,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Run крутит цикл планировщика до отмены контекста
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Scheduler: started (org=%d, tick=%s)", s.cfg.OrganisationID, s.cfg.Tick)

	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	// Первый проход сразу, не дожидаясь тика
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler: stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick продвигает активное окно по жизненному циклу на один шаг
func (s *Scheduler) tick(ctx context.Context) {
	now := s.timeProvider.Now().In(s.cfg.Location)

	w, err := s.windows.GetActive(ctx, s.cfg.OrganisationID)
	if err != nil {
		if errors.Is(err, windowRepo.ErrWindowNotFound) {
			s.scheduleNext(ctx, now)
			return
		}
		s.logger.Error("Scheduler: failed to get active window: %v", err)
		return
	}

	switch w.State {
	case domain.WindowScheduled:
		if !now.Before(w.OpenAt) {
			s.transition(ctx, w, domain.WindowScheduled, domain.WindowOpen)
		}

	case domain.WindowOpen:
		if !now.Before(w.CloseAt) {
			s.transition(ctx, w, domain.WindowOpen, domain.WindowClosed)
		}

	case domain.WindowClosed, domain.WindowAllocating, domain.WindowFailed:
		s.runAllocation(ctx, w)
	}
}

// scheduleNext создает следующее окно: открытие в ближайшие 21:00 по местному
// времени площадки, целевая дата - горизонт бронирования от даты открытия.
// Момент открытия собирается через time.Date по гражданскому времени:
// сложение с полуночью сдвинуло бы стенные часы в день перевода времени
func (s *Scheduler) scheduleNext(ctx context.Context, now time.Time) {
	openMinutes, _ := types.TimeString(domain.DefaultWindowOpenTime).Minutes()

	openAt := time.Date(now.Year(), now.Month(), now.Day(), openMinutes/60, openMinutes%60, 0, 0, s.cfg.Location)
	if !now.Before(openAt) {
		openAt = openAt.AddDate(0, 0, 1)
	}

	advanceDays := s.cfg.AdvanceDays
	if advanceDays <= 0 {
		advanceDays = domain.DefaultAdvanceBookingDays
	}
	targetDate := time.Date(openAt.Year(), openAt.Month(), openAt.Day(), 0, 0, 0, 0, s.cfg.Location).
		AddDate(0, 0, advanceDays)

	created, err := s.windows.Create(ctx, &domain.ContentionWindow{
		OrganisationID: s.cfg.OrganisationID,
		OpenAt:         openAt,
		CloseAt:        openAt.Add(s.cfg.CollectDuration),
		TargetDate:     targetDate,
		State:          domain.WindowScheduled,
	})
	if err != nil {
		s.logger.Error("Scheduler: failed to schedule next window: %v", err)
		return
	}

	s.logger.Info("Scheduler: scheduled window id=%d, opens %s, target date %s",
		created.ID, openAt.Format(time.RFC3339), targetDate.Format(domain.DateFormat))
}

func (s *Scheduler) transition(ctx context.Context, w *domain.ContentionWindow, from, to domain.WindowState) {
	if err := s.windows.TransitionState(ctx, w.ID, from, to); err != nil {
		if errors.Is(err, windowRepo.ErrStateConflict) {
			// Конкурентный инстанс успел раньше
			s.logger.Debug("Scheduler: window id=%d already moved past %s", w.ID, from)
			return
		}
		s.logger.Error("Scheduler: failed to move window id=%d %s -> %s: %v", w.ID, from, to, err)
		return
	}
	s.logger.Info("Scheduler: window id=%d %s -> %s", w.ID, from, to)
}

// runAllocation запускает прогон распределения, соблюдая предел повторов
func (s *Scheduler) runAllocation(ctx context.Context, w *domain.ContentionWindow) {
	if w.State == domain.WindowFailed && w.Attempts >= s.cfg.MaxAttempts {
		// Эскалация: автоматические повторы исчерпаны
		s.logger.Error("Scheduler: window id=%d failed %d times, operator attention required", w.ID, w.Attempts)
		return
	}

	attempt, err := s.windows.IncrementAttempts(ctx, w.ID)
	if err != nil {
		s.logger.Error("Scheduler: failed to increment attempts for window id=%d: %v", w.ID, err)
		return
	}
	if attempt > 1 {
		s.logger.Warn("Scheduler: retrying window id=%d from durable snapshot, attempt %d/%d", w.ID, attempt, s.cfg.MaxAttempts)
		if s.metrics != nil {
			s.metrics.IncAllocationRetry(s.cfg.ServiceName)
		}
	}

	started := s.timeProvider.Now()
	result, err := s.runner.Execute(ctx, &run_allocation.Request{WindowID: w.ID})
	elapsed := s.timeProvider.Now().Sub(started).Seconds()

	if err != nil {
		s.logger.Error("Scheduler: allocation run failed for window id=%d: %v", w.ID, err)
		if s.metrics != nil {
			s.metrics.IncAllocationRun(s.cfg.ServiceName, "failed")
			s.metrics.ObserveAllocationDuration(s.cfg.ServiceName, elapsed)
		}
		return
	}

	if s.metrics != nil {
		s.metrics.IncAllocationRun(s.cfg.ServiceName, "allocated")
		s.metrics.ObserveAllocationDuration(s.cfg.ServiceName, elapsed)
		s.metrics.AddAllocationOutcome(s.cfg.ServiceName, "assigned", result.Assigned)
		s.metrics.AddAllocationOutcome(s.cfg.ServiceName, "unassigned", result.Unassigned)
	}

	s.logger.Info("Scheduler: window id=%d allocated in %.2fs (%d assigned, %d unassigned)",
		w.ID, elapsed, result.Assigned, result.Unassigned)
}
