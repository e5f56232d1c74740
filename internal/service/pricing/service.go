package pricing

import (
	"fmt"
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/types"
)

// Ценовые диапазоны бронирования
const (
	BandEarly      = "early"
	BandOffpeak    = "offpeak"
	BandPeak       = "peak"
	BandFloodlight = "floodlight"
)

// Границы диапазонов по умолчанию
const (
	weekdayEarlyEnd  = types.TimeString("10:00")
	weekdayPeakStart = types.TimeString("18:00")
	weekendEarlyEnd  = types.TimeString("09:00")
)

// Service определяет ценовой диапазон слота и считает стоимость бронирования
// по почасовым тарифам членства
type Service struct {
	dusk DuskProvider
	log  Logger
}

// NewService создает новый экземпляр сервиса ценообразования
func NewService(dusk DuskProvider, log Logger) *Service {
	return &Service{dusk: dusk, log: log}
}

// Band определяет ценовой диапазон слота.
// Floodlight: корт с освещением и хотя бы часть слота после темноты
// (перекрывает остальные диапазоны). Иначе early/offpeak/peak
// по времени старта и дню недели
func (s *Service) Band(
	res *domain.Resource,
	site *domain.Site,
	date time.Time,
	start, end types.TimeString,
	loc *time.Location,
) string {
	if res.HasFloodlights {
		dusk := s.dusk.Dusk(site, date, loc)
		if end.IsAfter(dusk) {
			return BandFloodlight
		}
	}

	isWeekend := date.Weekday() == time.Saturday || date.Weekday() == time.Sunday

	if isWeekend {
		if start.IsBefore(weekendEarlyEnd) {
			return BandEarly
		}
		return BandPeak
	}

	if start.IsBefore(weekdayEarlyEnd) {
		return BandEarly
	}
	if !start.IsBefore(weekdayPeakStart) {
		return BandPeak
	}
	return BandOffpeak
}

// Fee считает стоимость бронирования в пенсах.
// Тарифы членства хранятся за час, стоимость линейна по длительности
func (s *Service) Fee(
	ent *domain.Entitlement,
	res *domain.Resource,
	site *domain.Site,
	date time.Time,
	start types.TimeString,
	durationMinutes int,
	loc *time.Location,
) (int, string, error) {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return 0, "", fmt.Errorf("%w: start=%s duration=%d: %v", ErrInvalidSlot, start, durationMinutes, err)
	}

	band := s.Band(res, site, date, start, end, loc)

	var perHour int
	switch band {
	case BandEarly:
		perHour = ent.EarlyFeePence
	case BandOffpeak:
		perHour = ent.OffpeakFeePence
	case BandPeak:
		perHour = ent.PeakFeePence
	case BandFloodlight:
		perHour = ent.FloodlightFeePence
	}

	return perHour * durationMinutes / 60, band, nil
}
