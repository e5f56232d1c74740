package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/types"
)

type fixedDusk struct {
	at types.TimeString
}

func (d *fixedDusk) Dusk(site *domain.Site, date time.Time, loc *time.Location) types.TimeString {
	return d.at
}

type testLogger struct{}

func (l *testLogger) Debug(format string, v ...interface{}) {}
func (l *testLogger) Info(format string, v ...interface{})  {}
func (l *testLogger) Warn(format string, v ...interface{})  {}
func (l *testLogger) Error(format string, v ...interface{}) {}

func feeEntitlement() *domain.Entitlement {
	return &domain.Entitlement{
		EarlyFeePence:      600,
		OffpeakFeePence:    900,
		PeakFeePence:       1200,
		FloodlightFeePence: 1500,
	}
}

var (
	plainCourt    = &domain.Resource{ID: 1, SiteID: 1}
	floodlitCourt = &domain.Resource{ID: 2, SiteID: 1, HasFloodlights: true}
	testSite      = &domain.Site{ID: 1}
)

// 2026-09-14 понедельник, 2026-09-12 суббота
var (
	weekday = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	weekend = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
)

func TestBand_Weekday(t *testing.T) {
	svc := NewService(&fixedDusk{at: "19:00"}, &testLogger{})
	loc := time.UTC

	assert.Equal(t, BandEarly, svc.Band(plainCourt, testSite, weekday, "09:00", "10:00", loc))
	assert.Equal(t, BandOffpeak, svc.Band(plainCourt, testSite, weekday, "10:00", "11:00", loc))
	assert.Equal(t, BandOffpeak, svc.Band(plainCourt, testSite, weekday, "17:00", "18:00", loc))
	assert.Equal(t, BandPeak, svc.Band(plainCourt, testSite, weekday, "18:00", "19:00", loc))
}

func TestBand_Weekend(t *testing.T) {
	svc := NewService(&fixedDusk{at: "19:00"}, &testLogger{})
	loc := time.UTC

	assert.Equal(t, BandEarly, svc.Band(plainCourt, testSite, weekend, "08:00", "09:00", loc))
	assert.Equal(t, BandPeak, svc.Band(plainCourt, testSite, weekend, "09:00", "10:00", loc))
	assert.Equal(t, BandPeak, svc.Band(plainCourt, testSite, weekend, "14:00", "15:00", loc))
}

func TestBand_FloodlightOverrides(t *testing.T) {
	svc := NewService(&fixedDusk{at: "17:00"}, &testLogger{})
	loc := time.UTC

	// Слот частично после темноты на освещенном корте
	assert.Equal(t, BandFloodlight, svc.Band(floodlitCourt, testSite, weekday, "16:00", "18:00", loc))

	// Тот же слот на корте без освещения остается в обычном диапазоне
	assert.Equal(t, BandOffpeak, svc.Band(plainCourt, testSite, weekday, "16:00", "18:00", loc))

	// Слот целиком до темноты освещения не требует
	assert.Equal(t, BandOffpeak, svc.Band(floodlitCourt, testSite, weekday, "15:00", "17:00", loc))
}

func TestFee_ScalesByDuration(t *testing.T) {
	svc := NewService(&fixedDusk{at: "19:00"}, &testLogger{})
	ent := feeEntitlement()

	fee, band, err := svc.Fee(ent, plainCourt, testSite, weekday, "18:00", 60, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, BandPeak, band)
	assert.Equal(t, 1200, fee)

	fee, band, err = svc.Fee(ent, plainCourt, testSite, weekday, "10:00", 120, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, BandOffpeak, band)
	assert.Equal(t, 1800, fee)
}

func TestFee_InvalidSlot(t *testing.T) {
	svc := NewService(&fixedDusk{at: "19:00"}, &testLogger{})

	_, _, err := svc.Fee(feeEntitlement(), plainCourt, testSite, weekday, "23:30", 60, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}
