package allocation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/ptr"
	"github.com/courtbook/booking-engine/pkg/types"
)

type testLogger struct{}

func (l *testLogger) Debug(format string, v ...interface{}) {}
func (l *testLogger) Info(format string, v ...interface{})  {}
func (l *testLogger) Warn(format string, v ...interface{})  {}
func (l *testLogger) Error(format string, v ...interface{}) {}

// 2026-09-14 понедельник
var targetDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func testResources() map[int64]*domain.Resource {
	return map[int64]*domain.Resource{
		1: {ID: 1, SiteID: 1},
		2: {ID: 2, SiteID: 1},
		3: {ID: 3, SiteID: 2},
	}
}

func slot(resourceID int64, start types.TimeString, duration int) domain.ConcreteSlot {
	return domain.ConcreteSlot{
		ResourceID:      resourceID,
		BookingDate:     targetDate,
		StartTime:       start,
		DurationMinutes: duration,
	}
}

func TestExpand_WildcardResourceOrdersByResourceID(t *testing.T) {
	svc := NewService(&testLogger{})

	// "Любой корт в 10:00": кандидаты идут по возрастанию id корта
	entries := []*domain.PreferenceEntry{
		{Priority: 1, StartTime: ptr.Ptr(types.TimeString("10:00")), DurationMinutes: 60},
	}
	slots := []domain.ConcreteSlot{
		slot(3, "10:00", 60),
		slot(1, "10:00", 60),
		slot(2, "10:00", 60),
		slot(1, "11:00", 60),
	}

	candidates := svc.Expand(7, entries, testResources(), slots, targetDate)
	require.Len(t, candidates, 3)
	assert.Equal(t, int64(1), candidates[0].Slot.ResourceID)
	assert.Equal(t, int64(2), candidates[1].Slot.ResourceID)
	assert.Equal(t, int64(3), candidates[2].Slot.ResourceID)
	for _, c := range candidates {
		assert.Equal(t, 1, c.Rank)
		assert.Equal(t, int64(7), c.UserID)
	}
}

func TestExpand_DuplicateSlotKeepsBestRank(t *testing.T) {
	svc := NewService(&testLogger{})

	entries := []*domain.PreferenceEntry{
		{Priority: 1, ResourceID: ptr.Ptr(int64(1)), StartTime: ptr.Ptr(types.TimeString("10:00")), DurationMinutes: 60},
		// Вторая запись покрывает тот же слот через wildcard
		{Priority: 2, StartTime: ptr.Ptr(types.TimeString("10:00")), DurationMinutes: 60},
	}
	slots := []domain.ConcreteSlot{
		slot(1, "10:00", 60),
		slot(2, "10:00", 60),
	}

	candidates := svc.Expand(7, entries, testResources(), slots, targetDate)
	require.Len(t, candidates, 2)
	assert.Equal(t, int64(1), candidates[0].Slot.ResourceID)
	assert.Equal(t, 1, candidates[0].Rank)
	assert.Equal(t, int64(2), candidates[1].Slot.ResourceID)
	assert.Equal(t, 2, candidates[1].Rank)
}

func TestExpand_FiltersByDayDurationAndSite(t *testing.T) {
	svc := NewService(&testLogger{})

	sunday := 6
	monday := 0
	entries := []*domain.PreferenceEntry{
		// День недели не совпадает с целевой датой - запись не раскрывается
		{Priority: 1, DayOfWeek: &sunday, DurationMinutes: 60},
		// Площадка 2, только корт 3
		{Priority: 2, SiteID: ptr.Ptr(int64(2)), DayOfWeek: &monday, DurationMinutes: 120},
	}
	slots := []domain.ConcreteSlot{
		slot(1, "10:00", 60),
		slot(3, "10:00", 60),
		slot(3, "10:00", 120),
	}

	candidates := svc.Expand(7, entries, testResources(), slots, targetDate)
	require.Len(t, candidates, 1)
	assert.Equal(t, int64(3), candidates[0].Slot.ResourceID)
	assert.Equal(t, 120, candidates[0].Slot.DurationMinutes)
	assert.Equal(t, 2, candidates[0].Rank)
}

func TestResolve_FirstCandidateWins(t *testing.T) {
	svc := NewService(&testLogger{})

	entries := []*domain.PreferenceEntry{
		{Priority: 1, ResourceID: ptr.Ptr(int64(2)), StartTime: ptr.Ptr(types.TimeString("18:00")), DurationMinutes: 60},
		{Priority: 2, DurationMinutes: 60},
	}
	free := []domain.ConcreteSlot{
		slot(1, "10:00", 60),
		slot(2, "18:00", 60),
	}

	resolved, rank, ok := svc.Resolve(7, entries, testResources(), free, targetDate)
	require.True(t, ok)
	assert.Equal(t, 1, rank)
	assert.Equal(t, int64(2), resolved.ResourceID)
	assert.Equal(t, types.TimeString("18:00"), resolved.StartTime)

	// Пустая доступность - явный отказ, не ошибка
	_, _, ok = svc.Resolve(7, entries, testResources(), nil, targetDate)
	assert.False(t, ok)
}
