package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtbook/booking-engine/internal/domain"
)

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type testLogger struct{}

func (l *testLogger) Debug(format string, v ...interface{}) {}
func (l *testLogger) Info(format string, v ...interface{})  {}
func (l *testLogger) Warn(format string, v ...interface{})  {}
func (l *testLogger) Error(format string, v ...interface{}) {}

func testEntitlement() *domain.Entitlement {
	return &domain.Entitlement{
		TierID:                    1,
		TierName:                  "standard",
		AdvanceBookingDays:        7,
		MaxConcurrentBookings:     3,
		MaxDailyMinutes:           120,
		CancellationDeadlineHours: 24,
		SlotDurationsMinutes:      []int{60, 120},
		WindowOpenTime:            "21:00",
	}
}

func newTestService(t *testing.T, now time.Time) *Service {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	return NewService(&fixedTimeProvider{now: now}, loc, &testLogger{})
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateBooking_Accepted(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, loc)
	svc := newTestService(t, now)

	violations, err := svc.ValidateBooking(ValidateBookingInput{
		Entitlement:     testEntitlement(),
		BookingDate:     date(2026, 9, 10),
		StartTime:       "10:00",
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestValidateBooking_CollectsAllViolations(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, loc)
	svc := newTestService(t, now)

	// Недопустимая длительность и дата за горизонтом - оба нарушения сразу
	violations, err := svc.ValidateBooking(ValidateBookingInput{
		Entitlement:     testEntitlement(),
		BookingDate:     date(2026, 9, 30),
		StartTime:       "10:00",
		DurationMinutes: 90,
	})
	require.NoError(t, err)
	require.Len(t, violations, 2)

	rulesSeen := []string{violations[0].Rule, violations[1].Rule}
	assert.Contains(t, rulesSeen, domain.RuleSlotDuration)
	assert.Contains(t, rulesSeen, domain.RuleAdvanceWindow)
}

func TestValidateBooking_DailyCap(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, loc)
	svc := newTestService(t, now)

	violations, err := svc.ValidateBooking(ValidateBookingInput{
		Entitlement:             testEntitlement(),
		BookingDate:             date(2026, 9, 10),
		StartTime:               "10:00",
		DurationMinutes:         60,
		SameDayConfirmedMinutes: 120,
	})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.RuleMaxDailyMinutes, violations[0].Rule)
	assert.Contains(t, violations[0].Message, "daily limit")
}

func TestValidateBooking_MaxConcurrent(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, loc)
	svc := newTestService(t, now)

	violations, err := svc.ValidateBooking(ValidateBookingInput{
		Entitlement:          testEntitlement(),
		BookingDate:          date(2026, 9, 10),
		StartTime:            "10:00",
		DurationMinutes:      60,
		FutureConfirmedCount: 3,
	})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.RuleMaxConcurrent, violations[0].Rule)
}

func TestValidateBooking_PastSlot(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, loc)
	svc := newTestService(t, now)

	violations, err := svc.ValidateBooking(ValidateBookingInput{
		Entitlement:     testEntitlement(),
		BookingDate:     date(2026, 9, 7),
		StartTime:       "10:00",
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.RulePastBooking, violations[0].Rule)
}

func TestValidateBooking_CourtConflict(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, loc)
	svc := newTestService(t, now)

	conflicting := []*domain.Reservation{
		{StartTime: "10:00", EndTime: "12:00", Status: domain.StatusConfirmed},
	}

	violations, err := svc.ValidateBooking(ValidateBookingInput{
		Entitlement:     testEntitlement(),
		BookingDate:     date(2026, 9, 10),
		StartTime:       "11:00",
		DurationMinutes: 60,
		Conflicting:     conflicting,
	})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.RuleCourtConflict, violations[0].Rule)
}

func TestValidateBooking_TouchingBoundariesDoNotConflict(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, loc)
	svc := newTestService(t, now)

	conflicting := []*domain.Reservation{
		{StartTime: "09:00", EndTime: "10:00", Status: domain.StatusConfirmed},
		{StartTime: "11:00", EndTime: "12:00", Status: domain.StatusCancelled},
	}

	violations, err := svc.ValidateBooking(ValidateBookingInput{
		Entitlement:     testEntitlement(),
		BookingDate:     date(2026, 9, 10),
		StartTime:       "10:00",
		DurationMinutes: 120,
		Conflicting:     conflicting,
	})
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestMaxBookableDate_WindowOpening(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	ent := testEntitlement()

	// До 21:00 горизонт на день короче
	before := newTestService(t, time.Date(2026, 9, 7, 20, 59, 0, 0, loc))
	maxDate := before.MaxBookableDate(time.Date(2026, 9, 7, 20, 59, 0, 0, loc), ent)
	assert.Equal(t, time.Date(2026, 9, 13, 0, 0, 0, 0, loc), maxDate)

	// Ровно в 21:00 окно открыто
	at := newTestService(t, time.Date(2026, 9, 7, 21, 0, 0, 0, loc))
	maxDate = at.MaxBookableDate(time.Date(2026, 9, 7, 21, 0, 0, 0, loc), ent)
	assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, loc), maxDate)
}

func TestMaxBookableDate_DSTTransition(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	ent := testEntitlement()

	// 29 марта 2026 - переход на летнее время в Лондоне.
	// Открытие окна остается в 21:00 по местным часам
	now := time.Date(2026, 3, 29, 21, 0, 0, 0, loc)
	svc := newTestService(t, now)

	maxDate := svc.MaxBookableDate(now, ent)
	assert.Equal(t, time.Date(2026, 4, 5, 0, 0, 0, 0, loc), maxDate)
}

func TestValidateBooking_PastSlotOnClockChangeDay(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")

	// 29 марта 2026 часы переводятся вперед, местные сутки длятся 23 часа.
	// Слот 21:00 уже начался в 21:30 по стенным часам, несмотря на то что
	// с полуночи прошло только 20.5 часов
	now := time.Date(2026, 3, 29, 21, 30, 0, 0, loc)
	svc := newTestService(t, now)

	violations, err := svc.ValidateBooking(ValidateBookingInput{
		Entitlement:     testEntitlement(),
		BookingDate:     date(2026, 3, 29),
		StartTime:       "21:00",
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.RulePastBooking, violations[0].Rule)
}

func TestValidateCancellation(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	ent := testEntitlement()
	res := &domain.Reservation{
		BookingDate: date(2026, 9, 10),
		StartTime:   "10:00",
		Status:      domain.StatusConfirmed,
	}

	// За 48 часов до слота отмена разрешена
	early := newTestService(t, time.Date(2026, 9, 8, 9, 0, 0, 0, loc))
	v, err := early.ValidateCancellation(res, ent)
	require.NoError(t, err)
	assert.Nil(t, v)

	// За 12 часов дедлайн (24 часа) уже прошел
	late := newTestService(t, time.Date(2026, 9, 9, 22, 0, 0, 0, loc))
	v, err = late.ValidateCancellation(res, ent)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, domain.RuleCancellationDeadline, v.Rule)
	assert.Contains(t, v.Message, "Too late to cancel")
}

func TestValidateCancellation_DeadlineAcrossClockChange(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	ent := testEntitlement()

	// Слот утром 29 марта 2026, сразу после перевода часов вперед.
	// Дедлайн (24 часа) - 09:00 GMT 28 марта: старт слота 10:00 BST
	// равен 09:00 GMT, а не "10 часов от полуночи"
	res := &domain.Reservation{
		BookingDate: date(2026, 3, 29),
		StartTime:   "10:00",
		Status:      domain.StatusConfirmed,
	}

	late := newTestService(t, time.Date(2026, 3, 28, 9, 30, 0, 0, loc))
	v, err := late.ValidateCancellation(res, ent)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, domain.RuleCancellationDeadline, v.Rule)
}
