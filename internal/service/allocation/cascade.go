package allocation

import (
	"fmt"
	"sort"
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
)

// Service разворачивает списки предпочтений в конкретные кандидаты и
// решает задачу справедливого распределения слотов окна
type Service struct {
	log Logger
}

// NewService создает новый экземпляр сервиса распределения
func NewService(log Logger) *Service {
	return &Service{log: log}
}

// Expand разворачивает ранжированный список предпочтений участника в
// детерминированный список конкретных кандидатов против набора слотов.
// Nil-поля записи означают "любой": они раскрываются по всем подходящим
// слотам в порядке (resource_id, start_time, duration). Слот, попавший
// под несколько записей, остается только на лучшем (младшем) ранге.
// Детерминизм обязателен: одинаковый вход всегда дает одинаковый выход
func (s *Service) Expand(
	userID int64,
	entries []*domain.PreferenceEntry,
	resources map[int64]*domain.Resource,
	slots []domain.ConcreteSlot,
	targetDate time.Time,
) []Candidate {
	sorted := make([]*domain.PreferenceEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	seen := make(map[string]bool)
	candidates := make([]Candidate, 0)

	for _, entry := range sorted {
		if !entry.MatchesDate(targetDate) {
			continue
		}

		matched := make([]domain.ConcreteSlot, 0)
		for _, slot := range slots {
			if entry.DurationMinutes != 0 && entry.DurationMinutes != slot.DurationMinutes {
				continue
			}
			if !entry.MatchesStart(slot.StartTime) {
				continue
			}
			res, ok := resources[slot.ResourceID]
			if !ok || !entry.MatchesResource(res) {
				continue
			}
			matched = append(matched, slot)
		}

		sort.Slice(matched, func(i, j int) bool {
			if matched[i].ResourceID != matched[j].ResourceID {
				return matched[i].ResourceID < matched[j].ResourceID
			}
			if matched[i].StartTime != matched[j].StartTime {
				return matched[i].StartTime.IsBefore(matched[j].StartTime)
			}
			return matched[i].DurationMinutes < matched[j].DurationMinutes
		})

		for _, slot := range matched {
			id := slotIdentity(slot)
			if seen[id] {
				continue
			}
			seen[id] = true
			candidates = append(candidates, Candidate{
				UserID: userID,
				Rank:   entry.Priority,
				Slot:   slot,
			})
		}
	}

	return candidates
}

// Resolve возвращает первый конкретный слот, удовлетворяющий списку
// предпочтений участника против текущей доступности, вместе с рангом
// сработавшей записи. Используется немедленным (FCFS) бронированием
// по предпочтениям; false - ни одна запись не разрешилась
func (s *Service) Resolve(
	userID int64,
	entries []*domain.PreferenceEntry,
	resources map[int64]*domain.Resource,
	freeSlots []domain.ConcreteSlot,
	targetDate time.Time,
) (*domain.ConcreteSlot, int, bool) {
	candidates := s.Expand(userID, entries, resources, freeSlots, targetDate)
	if len(candidates) == 0 {
		return nil, 0, false
	}

	slot := candidates[0].Slot
	return &slot, candidates[0].Rank, true
}

// slotIdentity полная идентичность слота, включая длительность
func slotIdentity(s domain.ConcreteSlot) string {
	return fmt.Sprintf("%s/%d", s.Key(), s.DurationMinutes)
}
