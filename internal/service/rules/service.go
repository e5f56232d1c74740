package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/types"
)

// Service проверяет правила бронирования. Каждый запрос прогоняется через
// полный набор правил, нарушения собираются списком: участник видит сразу
// все причины отказа, а не первую попавшуюся
type Service struct {
	timeProvider TimeProvider
	loc          *time.Location
	log          Logger
}

// NewService создает новый экземпляр валидатора правил.
// loc - локальная таймзона площадки, все границы окон считаются в ней
func NewService(timeProvider TimeProvider, loc *time.Location, log Logger) *Service {
	return &Service{
		timeProvider: timeProvider,
		loc:          loc,
		log:          log,
	}
}

// ValidateBooking прогоняет запрос через все правила и возвращает полный
// список нарушений. Пустой список означает, что бронирование разрешено.
// Ошибка возвращается только на неразбираемый вход, не на нарушение правила
func (s *Service) ValidateBooking(in ValidateBookingInput) ([]domain.Violation, error) {
	endTime, err := in.StartTime.AddMinutes(in.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: start=%s duration=%d: %v", ErrInvalidInput, in.StartTime, in.DurationMinutes, err)
	}

	now := s.timeProvider.Now().In(s.loc)
	violations := make([]domain.Violation, 0)

	// 1. Длительность слота
	if v := s.checkSlotDuration(in.Entitlement, in.DurationMinutes); v != nil {
		violations = append(violations, *v)
	}

	// 2. Окно предварительного бронирования
	if v := s.checkAdvanceWindow(now, in.Entitlement, in.BookingDate); v != nil {
		violations = append(violations, *v)
	}

	// 3. Слот не в прошлом
	if v := s.checkNotInPast(now, in.BookingDate, in.StartTime); v != nil {
		violations = append(violations, *v)
	}

	// 4. Лимит одновременных бронирований
	if v := s.checkMaxConcurrent(in.Entitlement, in.FutureConfirmedCount); v != nil {
		violations = append(violations, *v)
	}

	// 5. Лимит минут в день
	if v := s.checkMaxDailyMinutes(in.Entitlement, in.BookingDate, in.SameDayConfirmedMinutes, in.DurationMinutes); v != nil {
		violations = append(violations, *v)
	}

	// 6. Конфликт по корту
	if v := s.checkCourtConflict(in.StartTime, endTime, in.Conflicting); v != nil {
		violations = append(violations, *v)
	}

	return violations, nil
}

// MaxBookableDate возвращает самую дальнюю дату, доступную участнику сейчас.
// Окно на advance_days вперед открывается в window_open_time по местному
// времени площадки; до открытия горизонт на день короче.
// Расчет в локальной таймзоне, поэтому переход на летнее время не сдвигает
// момент открытия
func (s *Service) MaxBookableDate(now time.Time, ent *domain.Entitlement) time.Time {
	local := now.In(s.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)

	openTime := types.TimeString(ent.WindowOpenTime)
	if openTime.IsZero() {
		openTime = types.TimeString(domain.DefaultWindowOpenTime)
	}

	openMinutes, err := openTime.Minutes()
	if err != nil {
		s.log.Warn("MaxBookableDate: bad window open time %q, falling back to %s", ent.WindowOpenTime, domain.DefaultWindowOpenTime)
		openMinutes, _ = types.TimeString(domain.DefaultWindowOpenTime).Minutes()
	}

	windowOpensAt := s.atLocalTime(today, openMinutes)
	if local.Before(windowOpensAt) {
		return today.AddDate(0, 0, ent.AdvanceBookingDays-1)
	}
	return today.AddDate(0, 0, ent.AdvanceBookingDays)
}

// ValidateCancellation проверяет, что дедлайн отмены еще не прошел.
// nil означает, что отмена разрешена
func (s *Service) ValidateCancellation(res *domain.Reservation, ent *domain.Entitlement) (*domain.Violation, error) {
	startMinutes, err := res.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: reservation start %q: %v", ErrInvalidInput, res.StartTime, err)
	}

	now := s.timeProvider.Now().In(s.loc)
	slotStart := s.atLocalTime(res.BookingDate, startMinutes)

	deadline := slotStart.Add(-time.Duration(ent.CancellationDeadlineHours) * time.Hour)
	if now.After(deadline) {
		return &domain.Violation{
			Rule: domain.RuleCancellationDeadline,
			Message: fmt.Sprintf(
				"Cancellation deadline was %d hours before the booking (%s). Too late to cancel.",
				ent.CancellationDeadlineHours, deadline.Format("Monday 02 January at 15:04"),
			),
		}, nil
	}

	return nil, nil
}

// atLocalTime строит момент гражданского времени дня date в таймзоне площадки.
// Сборка через time.Date, а не сложение длительности с полуночью: в день
// перевода часов сутки длятся 23 или 25 часов, и сдвиг на длительность
// уводит стенные часы на час
func (s *Service) atLocalTime(date time.Time, minutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, s.loc)
}

func (s *Service) checkSlotDuration(ent *domain.Entitlement, durationMinutes int) *domain.Violation {
	if ent.AllowsDuration(durationMinutes) {
		return nil
	}

	allowed := ent.SlotDurationsMinutes
	if len(allowed) == 0 {
		allowed = domain.DefaultSlotDurations
	}
	formatted := make([]string, 0, len(allowed))
	for _, d := range allowed {
		formatted = append(formatted, domain.FormatDuration(d))
	}

	return &domain.Violation{
		Rule: domain.RuleSlotDuration,
		Message: fmt.Sprintf(
			"Duration %s not allowed. Choose from: %s.",
			domain.FormatDuration(durationMinutes), strings.Join(formatted, ", "),
		),
	}
}

func (s *Service) checkAdvanceWindow(now time.Time, ent *domain.Entitlement, bookingDate time.Time) *domain.Violation {
	maxDate := s.MaxBookableDate(now, ent)

	day := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, s.loc)
	if !day.After(maxDate) {
		return nil
	}

	openTime := ent.WindowOpenTime
	if openTime == "" {
		openTime = domain.DefaultWindowOpenTime
	}
	opensOn := day.AddDate(0, 0, -ent.AdvanceBookingDays)

	return &domain.Violation{
		Rule: domain.RuleAdvanceWindow,
		Message: fmt.Sprintf(
			"Cannot book more than %d days in advance. Earliest you can book %s is after %s on %s.",
			ent.AdvanceBookingDays, day.Format(domain.DateFormat), openTime, opensOn.Format(domain.DateFormat),
		),
	}
}

func (s *Service) checkNotInPast(now time.Time, bookingDate time.Time, start types.TimeString) *domain.Violation {
	startMinutes, err := start.Minutes()
	if err != nil {
		// Неразбираемое время отсекается раньше через ValidateBooking
		return nil
	}

	slotStart := s.atLocalTime(bookingDate, startMinutes)

	if !slotStart.After(now) {
		return &domain.Violation{
			Rule:    domain.RulePastBooking,
			Message: "Cannot book a slot in the past.",
		}
	}
	return nil
}

func (s *Service) checkMaxConcurrent(ent *domain.Entitlement, futureCount int) *domain.Violation {
	if futureCount < ent.MaxConcurrentBookings {
		return nil
	}
	return &domain.Violation{
		Rule: domain.RuleMaxConcurrent,
		Message: fmt.Sprintf(
			"You already have %d upcoming bookings. Maximum allowed: %d.",
			futureCount, ent.MaxConcurrentBookings,
		),
	}
}

func (s *Service) checkMaxDailyMinutes(ent *domain.Entitlement, bookingDate time.Time, bookedMinutes, durationMinutes int) *domain.Violation {
	if bookedMinutes+durationMinutes <= ent.MaxDailyMinutes {
		return nil
	}
	remaining := ent.MaxDailyMinutes - bookedMinutes
	if remaining < 0 {
		remaining = 0
	}
	return &domain.Violation{
		Rule: domain.RuleMaxDailyMinutes,
		Message: fmt.Sprintf(
			"You have %s booked on %s. Adding %s would exceed your daily limit of %s. You have %s remaining.",
			domain.FormatDuration(bookedMinutes), bookingDate.Format(domain.DateFormat),
			domain.FormatDuration(durationMinutes), domain.FormatDuration(ent.MaxDailyMinutes),
			domain.FormatDuration(remaining),
		),
	}
}

func (s *Service) checkCourtConflict(start, end types.TimeString, conflicting []*domain.Reservation) *domain.Violation {
	for _, res := range conflicting {
		if !res.IsConfirmed() {
			continue
		}
		// Полуоткрытые интервалы: совпадение границ конфликтом не считается
		if start.IsBefore(res.EndTime) && res.StartTime.IsBefore(end) {
			return &domain.Violation{
				Rule: domain.RuleCourtConflict,
				Message: fmt.Sprintf(
					"Court already booked from %s to %s.",
					res.StartTime, res.EndTime,
				),
			}
		}
	}
	return nil
}
