package schedule

import (
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/types"
)

// Service строит расписание кортов: часы работы, сетку слотов
// и полный перечень продаваемых слотов для снапшота окна
type Service struct {
	log Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(log Logger) *Service {
	return &Service{log: log}
}

// ClosingTime возвращает время закрытия корта на дату.
// Корты с освещением и крытые закрываются в фиксированные 21:00,
// открытые без освещения закрываются с наступлением темноты
func (s *Service) ClosingTime(res *domain.Resource, site *domain.Site, date time.Time, loc *time.Location) types.TimeString {
	if res.HasFixedClose() {
		return types.TimeString(domain.MaxCloseTime)
	}
	return s.Dusk(site, date, loc)
}

// Dusk возвращает час наступления темноты на площадке: закат в понедельник
// недели даты, округленный вниз до часа и зажатый в [07:00, 21:00].
// Этот же час используется ценообразованием как граница диапазона floodlight
func (s *Service) Dusk(site *domain.Site, date time.Time, loc *time.Location) types.TimeString {
	monday := mondayOfWeek(date)
	_, sunset := sunrise.SunriseSunset(
		site.Latitude, site.Longitude,
		monday.Year(), monday.Month(), monday.Day(),
	)

	local := sunset.In(loc)
	dusk := types.TimeString(fmt.Sprintf("%02d:00", local.Hour()))

	if dusk.IsBefore(types.TimeString(domain.DayOpenTime)) {
		return types.TimeString(domain.DayOpenTime)
	}
	if dusk.IsAfter(types.TimeString(domain.MaxCloseTime)) {
		return types.TimeString(domain.MaxCloseTime)
	}

	return dusk
}

// BuildGrid строит сетку слотов заданной длительности между открытием и закрытием.
// Старты идут с шагом SlotStepMinutes, слот должен целиком помещаться до закрытия
func (s *Service) BuildGrid(open, close types.TimeString, durationMinutes int) ([]domain.GridSlot, error) {
	openMin, err := open.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: open time %q: %v", ErrInvalidOpenHours, open, err)
	}
	closeMin, err := close.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: close time %q: %v", ErrInvalidOpenHours, close, err)
	}
	if closeMin <= openMin {
		return nil, fmt.Errorf("%w: close %s is not after open %s", ErrInvalidOpenHours, close, open)
	}

	grid := make([]domain.GridSlot, 0)
	for start := openMin; start+durationMinutes <= closeMin; start += domain.SlotStepMinutes {
		grid = append(grid, domain.GridSlot{
			StartTime:   minutesToTime(start),
			EndTime:     minutesToTime(start + durationMinutes),
			IsAvailable: true,
		})
	}

	return grid, nil
}

// MarkConflicts помечает занятыми слоты сетки, пересекающиеся с подтвержденными
// бронированиями. Интервалы полуоткрытые: слот, начинающийся в момент окончания
// другого, конфликтом не считается
func (s *Service) MarkConflicts(grid []domain.GridSlot, existing []*domain.Reservation) {
	for i := range grid {
		for _, res := range existing {
			if !res.IsConfirmed() {
				continue
			}
			if grid[i].StartTime.IsBefore(res.EndTime) && res.StartTime.IsBefore(grid[i].EndTime) {
				grid[i].IsAvailable = false
				break
			}
		}
	}
}

// SellableSlots перечисляет все продаваемые слоты организации на дату:
// декартово произведение кортов, стартов сетки и разрешенных длительностей.
// Порядок детерминирован: корты по (sort_order, id), затем старт, затем длительность
func (s *Service) SellableSlots(
	resources []*domain.Resource,
	sites map[int64]*domain.Site,
	date time.Time,
	loc *time.Location,
	durations []int,
) []domain.ConcreteSlot {
	if len(durations) == 0 {
		durations = domain.DefaultSlotDurations
	}

	slots := make([]domain.ConcreteSlot, 0)
	for _, res := range resources {
		site, ok := sites[res.SiteID]
		if !ok {
			s.log.Warn("SellableSlots: resource %d references unknown site %d, skipping", res.ID, res.SiteID)
			continue
		}

		closing := s.ClosingTime(res, site, date, loc)
		for _, dur := range durations {
			grid, err := s.BuildGrid(types.TimeString(domain.DayOpenTime), closing, dur)
			if err != nil {
				s.log.Warn("SellableSlots: resource %d has no valid grid for %d minutes: %v", res.ID, dur, err)
				continue
			}
			for _, g := range grid {
				slots = append(slots, domain.ConcreteSlot{
					ResourceID:      res.ID,
					BookingDate:     date,
					StartTime:       g.StartTime,
					DurationMinutes: dur,
				})
			}
		}
	}

	return slots
}

// mondayOfWeek возвращает понедельник недели даты
func mondayOfWeek(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

func minutesToTime(total int) types.TimeString {
	return types.TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60))
}
