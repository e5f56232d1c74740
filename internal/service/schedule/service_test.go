package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/types"
)

type testLogger struct{}

func (l *testLogger) Debug(format string, v ...interface{}) {}
func (l *testLogger) Info(format string, v ...interface{})  {}
func (l *testLogger) Warn(format string, v ...interface{})  {}
func (l *testLogger) Error(format string, v ...interface{}) {}

func londonSite() *domain.Site {
	return &domain.Site{
		ID:             1,
		OrganisationID: 1,
		Name:           "Riverside Park",
		Latitude:       51.5074,
		Longitude:      -0.1278,
		IsActive:       true,
	}
}

func TestBuildGrid(t *testing.T) {
	svc := NewService(&testLogger{})

	grid, err := svc.BuildGrid("07:00", "21:00", 60)
	require.NoError(t, err)
	require.Len(t, grid, 14)
	assert.Equal(t, types.TimeString("07:00"), grid[0].StartTime)
	assert.Equal(t, types.TimeString("08:00"), grid[0].EndTime)
	assert.Equal(t, types.TimeString("20:00"), grid[13].StartTime)
	assert.Equal(t, types.TimeString("21:00"), grid[13].EndTime)

	// Двухчасовой слот должен целиком помещаться до закрытия
	grid, err = svc.BuildGrid("07:00", "21:00", 120)
	require.NoError(t, err)
	require.Len(t, grid, 13)
	assert.Equal(t, types.TimeString("19:00"), grid[12].StartTime)

	_, err = svc.BuildGrid("21:00", "07:00", 60)
	assert.ErrorIs(t, err, ErrInvalidOpenHours)
}

func TestMarkConflicts(t *testing.T) {
	svc := NewService(&testLogger{})

	grid, err := svc.BuildGrid("09:00", "13:00", 60)
	require.NoError(t, err)
	require.Len(t, grid, 4)

	existing := []*domain.Reservation{
		{StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
		{StartTime: "11:00", EndTime: "12:00", Status: domain.StatusCancelled},
	}
	svc.MarkConflicts(grid, existing)

	assert.True(t, grid[0].IsAvailable)  // 09:00, граница впритык - не конфликт
	assert.False(t, grid[1].IsAvailable) // 10:00 занят
	assert.True(t, grid[2].IsAvailable)  // 11:00, отмененная бронь не считается
	assert.True(t, grid[3].IsAvailable)
}

func TestClosingTime_FixedClose(t *testing.T) {
	svc := NewService(&testLogger{})
	loc, _ := time.LoadLocation("Europe/London")

	indoor := &domain.Resource{ID: 1, SiteID: 1, IsIndoor: true}
	floodlit := &domain.Resource{ID: 2, SiteID: 1, HasFloodlights: true}

	midJanuary := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, types.TimeString("21:00"), svc.ClosingTime(indoor, londonSite(), midJanuary, loc))
	assert.Equal(t, types.TimeString("21:00"), svc.ClosingTime(floodlit, londonSite(), midJanuary, loc))
}

func TestDusk_WinterAndSummer(t *testing.T) {
	svc := NewService(&testLogger{})
	loc, _ := time.LoadLocation("Europe/London")

	// Зима: закат в Лондоне около 16:14, округляется вниз до часа.
	// Одно значение на всю неделю (понедельник 2026-01-12)
	winter := svc.Dusk(londonSite(), time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, types.TimeString("16:00"), winter)

	// Лето: закат после 21:00, зажимается верхней границей
	summer := svc.Dusk(londonSite(), time.Date(2026, 6, 17, 0, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, types.TimeString("21:00"), summer)
}

func TestDusk_SameForWholeWeek(t *testing.T) {
	svc := NewService(&testLogger{})
	loc, _ := time.LoadLocation("Europe/London")

	monday := svc.Dusk(londonSite(), time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC), loc)
	sunday := svc.Dusk(londonSite(), time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, monday, sunday)
}

func TestSellableSlots(t *testing.T) {
	svc := NewService(&testLogger{})
	loc, _ := time.LoadLocation("Europe/London")

	resources := []*domain.Resource{
		{ID: 2, SiteID: 1, IsIndoor: true, IsActive: true},
		{ID: 1, SiteID: 1, IsIndoor: true, IsActive: true},
	}
	sites := map[int64]*domain.Site{1: londonSite()}
	targetDate := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	slots := svc.SellableSlots(resources, sites, targetDate, loc, []int{60})

	// 14 часовых стартов на каждый из двух кортов
	require.Len(t, slots, 28)

	// Порядок следует порядку кортов на входе
	assert.Equal(t, int64(2), slots[0].ResourceID)
	assert.Equal(t, types.TimeString("07:00"), slots[0].StartTime)
	assert.Equal(t, int64(1), slots[14].ResourceID)

	// Корт с неизвестной площадкой пропускается
	orphan := []*domain.Resource{{ID: 3, SiteID: 99, IsIndoor: true}}
	assert.Empty(t, svc.SellableSlots(orphan, sites, targetDate, loc, []int{60}))
}
