package run_allocation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtbook/booking-engine/internal/domain"
	windowRepo "github.com/courtbook/booking-engine/internal/infra/storage/window"
	"github.com/courtbook/booking-engine/internal/integrations/memberservice"
	"github.com/courtbook/booking-engine/internal/integrations/notifyservice"
	"github.com/courtbook/booking-engine/internal/integrations/paymentservice"
	"github.com/courtbook/booking-engine/internal/service/allocation"
	"github.com/courtbook/booking-engine/internal/service/pricing"
	"github.com/courtbook/booking-engine/internal/service/schedule"
	"github.com/courtbook/booking-engine/pkg/ptr"
	"github.com/courtbook/booking-engine/pkg/types"
)

type testLogger struct{}

func (l *testLogger) Debug(format string, v ...interface{}) {}
func (l *testLogger) Info(format string, v ...interface{})  {}
func (l *testLogger) Warn(format string, v ...interface{})  {}
func (l *testLogger) Error(format string, v ...interface{}) {}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeWindowRepo struct {
	window        *domain.ContentionWindow
	snapshot      *domain.WindowSnapshot
	saved         *domain.WindowSnapshot
	allocs        []*domain.Allocation
	ops           []string
	transitionErr map[string]error
	recent        [][]*domain.Allocation
}

func (f *fakeWindowRepo) GetByID(ctx context.Context, id int64) (*domain.ContentionWindow, error) {
	if f.window == nil || f.window.ID != id {
		return nil, windowRepo.ErrWindowNotFound
	}
	return f.window, nil
}

func (f *fakeWindowRepo) TransitionState(ctx context.Context, id int64, from, to domain.WindowState) error {
	key := fmt.Sprintf("%s->%s", from, to)
	if err := f.transitionErr[key]; err != nil {
		return err
	}
	f.ops = append(f.ops, "transition:"+key)
	f.window.State = to
	return nil
}

func (f *fakeWindowRepo) SaveSnapshot(ctx context.Context, id int64, snapshot *domain.WindowSnapshot) error {
	f.ops = append(f.ops, "save_snapshot")
	f.saved = snapshot
	return nil
}

func (f *fakeWindowRepo) GetSnapshot(ctx context.Context, id int64) (*domain.WindowSnapshot, error) {
	if f.snapshot == nil {
		return nil, windowRepo.ErrSnapshotNotFound
	}
	f.ops = append(f.ops, "load_snapshot")
	return f.snapshot, nil
}

func (f *fakeWindowRepo) SaveAllocations(ctx context.Context, allocations []*domain.Allocation) error {
	f.ops = append(f.ops, "save_allocations")
	f.allocs = allocations
	return nil
}

func (f *fakeWindowRepo) GetRecentAllocations(ctx context.Context, orgID int64, windowCount int) ([][]*domain.Allocation, error) {
	return f.recent, nil
}

type fakeReservationRepo struct {
	created   []*domain.Reservation
	createErr error
	nextID    int64
}

func (f *fakeReservationRepo) CreateBatch(ctx context.Context, reservations []*domain.Reservation) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, res := range reservations {
		f.nextID++
		res.ID = f.nextID
		f.created = append(f.created, res)
	}
	return nil
}

func (f *fakeReservationRepo) GetForResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Reservation, error) {
	return nil, nil
}

type fakePreferenceRepo struct {
	entries []*domain.PreferenceEntry
	calls   int
}

func (f *fakePreferenceRepo) GetAllByOrg(ctx context.Context, orgID int64) ([]*domain.PreferenceEntry, error) {
	f.calls++
	return f.entries, nil
}

type fakeResourceRepo struct {
	resources []*domain.Resource
	sites     map[int64]*domain.Site
}

func (f *fakeResourceRepo) GetActiveByOrg(ctx context.Context, orgID int64) ([]*domain.Resource, error) {
	return f.resources, nil
}

func (f *fakeResourceRepo) GetSiteByID(ctx context.Context, id int64) (*domain.Site, error) {
	site, ok := f.sites[id]
	if !ok {
		return nil, errors.New("site not found")
	}
	return site, nil
}

type fakeMemberClient struct {
	memberships map[int64]*memberservice.Membership
}

func (f *fakeMemberClient) GetMembershipWithGracefulDegradation(ctx context.Context, userID int64) (*memberservice.Membership, error) {
	if m, ok := f.memberships[userID]; ok {
		return m, nil
	}
	return nil, memberservice.ErrMembershipNotFound
}

type fakePayClient struct {
	intents []*paymentservice.ReservationIntent
}

func (f *fakePayClient) EmitReservationIntent(ctx context.Context, intent *paymentservice.ReservationIntent) (*paymentservice.IntentResponse, error) {
	f.intents = append(f.intents, intent)
	return &paymentservice.IntentResponse{}, nil
}

type fakeNotifyClient struct {
	outcomes []notifyservice.AllocationOutcome
}

func (f *fakeNotifyClient) SendAllocationOutcomes(ctx context.Context, outcomes []notifyservice.AllocationOutcome) error {
	f.outcomes = append(f.outcomes, outcomes...)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// 2026-09-14 понедельник
var mondayTarget = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func standardMembership(userID int64) *memberservice.Membership {
	return &memberservice.Membership{
		UserID:           userID,
		TierID:           1,
		TierName:         "standard",
		IsActive:         true,
		FairnessEligible: true,
		FairnessWeight:   1.0,
		EarlyFeePence:    600,
		OffpeakFeePence:  900,
		PeakFeePence:     1200,
	}
}

func indoorCourtFixtures() ([]*domain.Resource, map[int64]*domain.Site) {
	resources := []*domain.Resource{
		{ID: 1, SiteID: 1, OrganisationID: 1, IsIndoor: true, IsActive: true},
	}
	sites := map[int64]*domain.Site{
		1: {ID: 1, OrganisationID: 1, Name: "Riverside Park", Latitude: 51.5074, Longitude: -0.1278, IsActive: true},
	}
	return resources, sites
}

func preferenceAt(userID int64, priority int, start types.TimeString) *domain.PreferenceEntry {
	return &domain.PreferenceEntry{
		UserID:          userID,
		OrganisationID:  1,
		Priority:        priority,
		StartTime:       ptr.Ptr(start),
		DurationMinutes: 60,
	}
}

type testDeps struct {
	windows      *fakeWindowRepo
	reservations *fakeReservationRepo
	preferences  *fakePreferenceRepo
	pay          *fakePayClient
	notify       *fakeNotifyClient
}

func newTestUseCase(t *testing.T, deps *testDeps) *UseCase {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	resources, sites := indoorCourtFixtures()
	log := &testLogger{}
	scheduleSvc := schedule.NewService(log)

	uc := NewUseCase(
		deps.reservations,
		deps.preferences,
		&fakeResourceRepo{resources: resources, sites: sites},
		deps.windows,
		&fakeMemberClient{memberships: map[int64]*memberservice.Membership{7: standardMembership(7)}},
		deps.pay,
		deps.notify,
		allocation.NewService(log),
		scheduleSvc,
		pricing.NewService(scheduleSvc, log),
		passthroughTx{},
		loc,
		log,
	)
	uc.timeProvider = &fakeClock{now: time.Date(2026, 9, 7, 21, 45, 0, 0, loc)}
	return uc
}

func TestExecute_SnapshotSavedBeforeAllocating(t *testing.T) {
	deps := &testDeps{
		windows: &fakeWindowRepo{window: &domain.ContentionWindow{
			ID:             5,
			OrganisationID: 1,
			TargetDate:     mondayTarget,
			State:          domain.WindowClosed,
		}},
		reservations: &fakeReservationRepo{},
		preferences:  &fakePreferenceRepo{entries: []*domain.PreferenceEntry{preferenceAt(7, 1, "10:00")}},
		pay:          &fakePayClient{},
		notify:       &fakeNotifyClient{},
	}
	uc := newTestUseCase(t, deps)

	resp, err := uc.Execute(context.Background(), &Request{WindowID: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Members)
	assert.Equal(t, 1, resp.Assigned)
	assert.Equal(t, 0, resp.Unassigned)

	// Снапшот долговечен до входа в allocating, коммит атомарен после
	assert.Equal(t, []string{
		"save_snapshot",
		"transition:closed->allocating",
		"save_allocations",
		"transition:allocating->allocated",
	}, deps.windows.ops)

	require.NotNil(t, deps.windows.saved)
	assert.Len(t, deps.windows.saved.Members, 1)
	assert.NotEmpty(t, deps.windows.saved.Slots)

	require.Len(t, deps.reservations.created, 1)
	res := deps.reservations.created[0]
	assert.Equal(t, int64(7), res.UserID)
	assert.Equal(t, int64(1), res.ResourceID)
	assert.Equal(t, types.TimeString("10:00"), res.StartTime)
	assert.Equal(t, domain.SourceFairness, res.Source)
	assert.Equal(t, 900, res.AmountPence)

	require.Len(t, deps.windows.allocs, 1)
	require.True(t, deps.windows.allocs[0].IsAssigned())
	assert.Equal(t, res.ID, *deps.windows.allocs[0].ReservationID)

	require.Len(t, deps.pay.intents, 1)
	assert.Equal(t, 900, deps.pay.intents[0].AmountPence)
	require.Len(t, deps.notify.outcomes, 1)
	assert.True(t, deps.notify.outcomes[0].Assigned)
}

func TestExecute_FailedWindowRetriesFromStoredSnapshot(t *testing.T) {
	storedSlot := domain.ConcreteSlot{
		ResourceID:      1,
		BookingDate:     mondayTarget,
		StartTime:       "10:00",
		DurationMinutes: 60,
	}
	deps := &testDeps{
		windows: &fakeWindowRepo{
			window: &domain.ContentionWindow{
				ID:             5,
				OrganisationID: 1,
				TargetDate:     mondayTarget,
				State:          domain.WindowFailed,
				Attempts:       1,
			},
			snapshot: &domain.WindowSnapshot{
				WindowID:    5,
				TargetDate:  mondayTarget,
				Members:     []domain.SnapshotMember{{UserID: 7, TierWeight: 1.0, MissStreak: 1}},
				Preferences: []*domain.PreferenceEntry{preferenceAt(7, 1, "10:00")},
				Slots:       []domain.ConcreteSlot{storedSlot},
			},
		},
		reservations: &fakeReservationRepo{},
		// Живые предпочтения отличаются от снапшота и не должны читаться
		preferences: &fakePreferenceRepo{entries: []*domain.PreferenceEntry{preferenceAt(99, 1, "18:00")}},
		pay:         &fakePayClient{},
		notify:      &fakeNotifyClient{},
	}
	uc := newTestUseCase(t, deps)

	resp, err := uc.Execute(context.Background(), &Request{WindowID: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Assigned)

	// Повтор идет от сохраненного снапшота, живые данные не трогаются
	assert.Equal(t, 0, deps.preferences.calls)
	assert.Equal(t, []string{
		"transition:failed->allocating",
		"load_snapshot",
		"save_allocations",
		"transition:allocating->allocated",
	}, deps.windows.ops)

	require.Len(t, deps.reservations.created, 1)
	assert.Equal(t, storedSlot.StartTime, deps.reservations.created[0].StartTime)
	assert.Equal(t, storedSlot.ResourceID, deps.reservations.created[0].ResourceID)
}

func TestExecute_ResumesMidAllocationFromSnapshot(t *testing.T) {
	deps := &testDeps{
		windows: &fakeWindowRepo{
			window: &domain.ContentionWindow{
				ID:             5,
				OrganisationID: 1,
				TargetDate:     mondayTarget,
				State:          domain.WindowAllocating,
				Attempts:       1,
			},
			snapshot: &domain.WindowSnapshot{
				WindowID:    5,
				TargetDate:  mondayTarget,
				Members:     []domain.SnapshotMember{{UserID: 7, TierWeight: 1.0}},
				Preferences: []*domain.PreferenceEntry{preferenceAt(7, 1, "10:00")},
				Slots: []domain.ConcreteSlot{{
					ResourceID:      1,
					BookingDate:     mondayTarget,
					StartTime:       "10:00",
					DurationMinutes: 60,
				}},
			},
		},
		reservations: &fakeReservationRepo{},
		preferences:  &fakePreferenceRepo{},
		pay:          &fakePayClient{},
		notify:       &fakeNotifyClient{},
	}
	uc := newTestUseCase(t, deps)

	_, err := uc.Execute(context.Background(), &Request{WindowID: 5})
	require.NoError(t, err)

	// Свежий снапшот не снимается: прогон продолжается от сохраненного
	assert.Equal(t, []string{
		"load_snapshot",
		"save_allocations",
		"transition:allocating->allocated",
	}, deps.windows.ops)
	assert.Equal(t, 0, deps.preferences.calls)
}

func TestExecute_LostStateRaceAbortsWithoutCommit(t *testing.T) {
	deps := &testDeps{
		windows: &fakeWindowRepo{
			window: &domain.ContentionWindow{
				ID:             5,
				OrganisationID: 1,
				TargetDate:     mondayTarget,
				State:          domain.WindowClosed,
			},
			transitionErr: map[string]error{
				"closed->allocating": windowRepo.ErrStateConflict,
			},
		},
		reservations: &fakeReservationRepo{},
		preferences:  &fakePreferenceRepo{entries: []*domain.PreferenceEntry{preferenceAt(7, 1, "10:00")}},
		pay:          &fakePayClient{},
		notify:       &fakeNotifyClient{},
	}
	uc := newTestUseCase(t, deps)

	// Конкурентный инстанс выиграл переход: прогон уступает без коммита
	_, err := uc.Execute(context.Background(), &Request{WindowID: 5})
	assert.ErrorIs(t, err, ErrWrongState)

	assert.Empty(t, deps.reservations.created)
	assert.Empty(t, deps.windows.allocs)
	assert.Empty(t, deps.pay.intents)
	assert.Empty(t, deps.notify.outcomes)
}

func TestExecute_CommitFailureMarksWindowFailed(t *testing.T) {
	deps := &testDeps{
		windows: &fakeWindowRepo{window: &domain.ContentionWindow{
			ID:             5,
			OrganisationID: 1,
			TargetDate:     mondayTarget,
			State:          domain.WindowClosed,
		}},
		reservations: &fakeReservationRepo{createErr: errors.New("deadlock detected")},
		preferences:  &fakePreferenceRepo{entries: []*domain.PreferenceEntry{preferenceAt(7, 1, "10:00")}},
		pay:          &fakePayClient{},
		notify:       &fakeNotifyClient{},
	}
	uc := newTestUseCase(t, deps)

	_, err := uc.Execute(context.Background(), &Request{WindowID: 5})
	assert.ErrorIs(t, err, ErrCommitFailed)

	// Окно уходит в failed и будет перепрогнано от того же снапшота
	assert.Equal(t, domain.WindowFailed, deps.windows.window.State)
	assert.Contains(t, deps.windows.ops, "transition:allocating->failed")
	assert.Empty(t, deps.pay.intents)
	assert.Empty(t, deps.notify.outcomes)
}
