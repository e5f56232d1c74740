package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtbook/booking-engine/internal/domain"
	windowRepo "github.com/courtbook/booking-engine/internal/infra/storage/window"
	"github.com/courtbook/booking-engine/internal/usecase/run_allocation"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type testLogger struct{}

func (l *testLogger) Debug(format string, v ...interface{}) {}
func (l *testLogger) Info(format string, v ...interface{})  {}
func (l *testLogger) Warn(format string, v ...interface{})  {}
func (l *testLogger) Error(format string, v ...interface{}) {}

type fakeWindowRepo struct {
	active        *domain.ContentionWindow
	created       []*domain.ContentionWindow
	transitions   []string
	transitionErr error
	attempts      int
}

func (f *fakeWindowRepo) Create(ctx context.Context, w *domain.ContentionWindow) (*domain.ContentionWindow, error) {
	w.ID = int64(len(f.created) + 1)
	f.created = append(f.created, w)
	return w, nil
}

func (f *fakeWindowRepo) GetActive(ctx context.Context, orgID int64) (*domain.ContentionWindow, error) {
	if f.active == nil {
		return nil, windowRepo.ErrWindowNotFound
	}
	return f.active, nil
}

func (f *fakeWindowRepo) TransitionState(ctx context.Context, id int64, from, to domain.WindowState) error {
	if f.transitionErr != nil {
		return f.transitionErr
	}
	f.transitions = append(f.transitions, fmt.Sprintf("%s->%s", from, to))
	f.active.State = to
	return nil
}

func (f *fakeWindowRepo) IncrementAttempts(ctx context.Context, id int64) (int, error) {
	f.attempts++
	return f.attempts, nil
}

type fakeRunner struct {
	calls []int64
	resp  *run_allocation.Response
	err   error
}

func (f *fakeRunner) Execute(ctx context.Context, req *run_allocation.Request) (*run_allocation.Response, error) {
	f.calls = append(f.calls, req.WindowID)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newTestScheduler(t *testing.T, windows *fakeWindowRepo, runner *fakeRunner, now time.Time) *Scheduler {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	s := New(windows, runner, Config{
		OrganisationID:  1,
		Location:        loc,
		Tick:            time.Second,
		MaxAttempts:     3,
		CollectDuration: 45 * time.Minute,
		AdvanceDays:     7,
		ServiceName:     "booking-engine",
	}, nil, &testLogger{})
	s.timeProvider = &fakeClock{now: now}
	return s
}

func TestTick_SchedulesNextWindow(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	windows := &fakeWindowRepo{}
	runner := &fakeRunner{}

	// Днем окна нет: планируется открытие в ближайшие 21:00
	s := newTestScheduler(t, windows, runner, time.Date(2026, 9, 7, 12, 0, 0, 0, loc))
	s.tick(context.Background())

	require.Len(t, windows.created, 1)
	w := windows.created[0]
	assert.Equal(t, domain.WindowScheduled, w.State)
	assert.True(t, w.OpenAt.Equal(time.Date(2026, 9, 7, 21, 0, 0, 0, loc)))
	assert.True(t, w.CloseAt.Equal(w.OpenAt.Add(45*time.Minute)))
	assert.True(t, w.TargetDate.Equal(time.Date(2026, 9, 14, 0, 0, 0, 0, loc)))
	assert.Empty(t, runner.calls)
}

func TestTick_SchedulesForTomorrowAfterOpening(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	windows := &fakeWindowRepo{}

	// 21:30 - сегодняшнее открытие уже прошло
	s := newTestScheduler(t, windows, &fakeRunner{}, time.Date(2026, 9, 7, 21, 30, 0, 0, loc))
	s.tick(context.Background())

	require.Len(t, windows.created, 1)
	assert.True(t, windows.created[0].OpenAt.Equal(time.Date(2026, 9, 8, 21, 0, 0, 0, loc)))
}

func TestTick_ScheduleOnClockChangeDay(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	windows := &fakeWindowRepo{}

	// 29 марта 2026 часы переводятся вперед: сутки длятся 23 часа,
	// но открытие остается в 21:00 по стенным часам
	s := newTestScheduler(t, windows, &fakeRunner{}, time.Date(2026, 3, 29, 12, 0, 0, 0, loc))
	s.tick(context.Background())

	require.Len(t, windows.created, 1)
	assert.True(t, windows.created[0].OpenAt.Equal(time.Date(2026, 3, 29, 21, 0, 0, 0, loc)))
}

func TestTick_OpensWindowAtOpenAt(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	openAt := time.Date(2026, 9, 7, 21, 0, 0, 0, loc)
	windows := &fakeWindowRepo{active: &domain.ContentionWindow{
		ID:      1,
		OpenAt:  openAt,
		CloseAt: openAt.Add(45 * time.Minute),
		State:   domain.WindowScheduled,
	}}
	runner := &fakeRunner{}

	// За минуту до открытия ничего не происходит
	early := newTestScheduler(t, windows, runner, openAt.Add(-time.Minute))
	early.tick(context.Background())
	assert.Empty(t, windows.transitions)

	// Ровно в момент открытия окно переходит в open
	at := newTestScheduler(t, windows, runner, openAt)
	at.tick(context.Background())
	assert.Equal(t, []string{"scheduled->open"}, windows.transitions)
	assert.Empty(t, runner.calls)
}

func TestTick_ClosesWindowAtCloseAt(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	openAt := time.Date(2026, 9, 7, 21, 0, 0, 0, loc)
	windows := &fakeWindowRepo{active: &domain.ContentionWindow{
		ID:      1,
		OpenAt:  openAt,
		CloseAt: openAt.Add(45 * time.Minute),
		State:   domain.WindowOpen,
	}}

	s := newTestScheduler(t, windows, &fakeRunner{}, openAt.Add(45*time.Minute))
	s.tick(context.Background())
	assert.Equal(t, []string{"open->closed"}, windows.transitions)
}

func TestTick_RunsAllocationWhenClosed(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	windows := &fakeWindowRepo{active: &domain.ContentionWindow{
		ID:    42,
		State: domain.WindowClosed,
	}}
	runner := &fakeRunner{resp: &run_allocation.Response{WindowID: 42, Members: 3, Assigned: 2, Unassigned: 1}}

	s := newTestScheduler(t, windows, runner, time.Date(2026, 9, 7, 22, 0, 0, 0, loc))
	s.tick(context.Background())

	assert.Equal(t, []int64{42}, runner.calls)
	assert.Equal(t, 1, windows.attempts)
}

func TestTick_FailedWindowExhaustedAttempts(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	windows := &fakeWindowRepo{active: &domain.ContentionWindow{
		ID:       42,
		State:    domain.WindowFailed,
		Attempts: 3,
	}}
	runner := &fakeRunner{}

	// Повторы исчерпаны: прогон не запускается, счетчик не растет
	s := newTestScheduler(t, windows, runner, time.Date(2026, 9, 7, 22, 0, 0, 0, loc))
	s.tick(context.Background())

	assert.Empty(t, runner.calls)
	assert.Equal(t, 0, windows.attempts)
}

func TestTick_StateConflictIsNotFatal(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/London")
	openAt := time.Date(2026, 9, 7, 21, 0, 0, 0, loc)
	windows := &fakeWindowRepo{
		active: &domain.ContentionWindow{
			ID:      1,
			OpenAt:  openAt,
			CloseAt: openAt.Add(45 * time.Minute),
			State:   domain.WindowScheduled,
		},
		transitionErr: windowRepo.ErrStateConflict,
	}
	runner := &fakeRunner{}

	// Конкурентный инстанс успел раньше: тик молча уступает
	s := newTestScheduler(t, windows, runner, openAt)
	s.tick(context.Background())

	assert.Empty(t, runner.calls)
	assert.Equal(t, domain.WindowScheduled, windows.active.State)
}
