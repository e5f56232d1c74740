package allocation

import (
	"sort"

	"github.com/courtbook/booking-engine/internal/domain"
)

// Solve находит распределение слотов окна, максимизирующее суммарный
// взвешенный уровень удовлетворения. Задача решается как поиск паросочетания
// максимального веса в двудольном графе участники-слоты методом
// последовательных кратчайших увеличивающих путей (стоимость ребра
// = -вес кандидата; поиск останавливается, когда лучший путь неотрицателен).
//
// Решение точное и детерминированное: при равных весах побеждает участник
// с меньшим id и слот с меньшим (resource_id, start_time). Повторный прогон
// на том же снапшоте дает идентичный результат.
//
// Слоты разной длительности могут пересекаться по времени, оставаясь
// разными вершинами графа. После каждого решения пересекающиеся назначения
// разрешаются детерминированно: более легкое ребро удаляется и задача
// решается заново, пока назначения не перестанут пересекаться.
//
// Участник без допустимого слота получает пустое назначение, не ошибку
func (s *Service) Solve(members []domain.SnapshotMember, candidatesByUser map[int64][]Candidate) []Assignment {
	sortedMembers := make([]domain.SnapshotMember, len(members))
	copy(sortedMembers, members)
	sort.Slice(sortedMembers, func(i, j int) bool {
		return sortedMembers[i].UserID < sortedMembers[j].UserID
	})

	// Рабочая копия кандидатов с посчитанными весами: пересекающиеся
	// назначения будут удалять отсюда ребра между итерациями
	working := make(map[int64][]Candidate, len(sortedMembers))
	for _, m := range sortedMembers {
		cands := make([]Candidate, 0, len(candidatesByUser[m.UserID]))
		for _, c := range candidatesByUser[m.UserID] {
			c.Weight = Weight(c.Rank, m.TierWeight, m.MissStreak)
			cands = append(cands, c)
		}
		working[m.UserID] = cands
	}

	for {
		matched := s.matchOnce(sortedMembers, working)

		dropped := s.dropOneOverlap(sortedMembers, working, matched)
		if !dropped {
			result := make([]Assignment, 0, len(sortedMembers))
			for _, m := range sortedMembers {
				result = append(result, Assignment{
					UserID:    m.UserID,
					Candidate: matched[m.UserID],
				})
			}
			return result
		}
	}
}

// matchOnce решает паросочетание максимального веса на текущем наборе ребер
func (s *Service) matchOnce(members []domain.SnapshotMember, working map[int64][]Candidate) map[int64]*Candidate {
	// Нумеруем вершины: участники по возрастанию id, слоты по
	// (resource_id, start_time, duration)
	seen := make(map[string]bool)
	slotList := make([]domain.ConcreteSlot, 0)
	for _, m := range members {
		for _, c := range working[m.UserID] {
			id := slotIdentity(c.Slot)
			if !seen[id] {
				seen[id] = true
				slotList = append(slotList, c.Slot)
			}
		}
	}
	sort.Slice(slotList, func(i, j int) bool {
		a, b := slotList[i], slotList[j]
		if a.ResourceID != b.ResourceID {
			return a.ResourceID < b.ResourceID
		}
		if a.StartTime != b.StartTime {
			return a.StartTime.IsBefore(b.StartTime)
		}
		return a.DurationMinutes < b.DurationMinutes
	})
	slotIndex := make(map[string]int, len(slotList))
	for i, slot := range slotList {
		slotIndex[slotIdentity(slot)] = i
	}

	type edge struct {
		member int // индекс участника
		slot   int // индекс слота
		cand   *Candidate
	}
	edges := make([]edge, 0)
	for mi, m := range members {
		cands := working[m.UserID]
		for ci := range cands {
			edges = append(edges, edge{
				member: mi,
				slot:   slotIndex[slotIdentity(cands[ci].Slot)],
				cand:   &cands[ci],
			})
		}
	}

	nm, ns := len(members), len(slotList)
	memberMatch := make([]int, nm) // индекс слота или -1
	slotMatch := make([]int, ns)   // индекс участника или -1
	slotCand := make([]*Candidate, ns)
	for i := range memberMatch {
		memberMatch[i] = -1
	}
	for i := range slotMatch {
		slotMatch[i] = -1
	}

	const inf = 1e18

	for {
		// Беллман-Форд по остаточному графу: свободные участники - истоки.
		// Ребра релаксируются в фиксированном порядке со строгим сравнением,
		// поэтому при равных стоимостях путь детерминирован
		distM := make([]float64, nm)
		distS := make([]float64, ns)
		prevS := make([]int, ns) // ребро, которым пришли в слот
		prevM := make([]int, nm) // слот, которым пришли в участника
		for i := range distM {
			distM[i] = inf
			prevM[i] = -1
			if memberMatch[i] == -1 && len(working[members[i].UserID]) > 0 {
				distM[i] = 0
			}
		}
		for i := range distS {
			distS[i] = inf
			prevS[i] = -1
		}

		for iter := 0; iter < nm+ns; iter++ {
			changed := false
			for ei, e := range edges {
				// Вперед: участник -> слот, стоимость -вес (если ребро не в паросочетании)
				if memberMatch[e.member] != e.slot && distM[e.member] < inf {
					if d := distM[e.member] - e.cand.Weight; d < distS[e.slot] {
						distS[e.slot] = d
						prevS[e.slot] = ei
						changed = true
					}
				}
				// Назад: слот -> участник, стоимость +вес (если ребро в паросочетании)
				if slotMatch[e.slot] == e.member && memberMatch[e.member] == e.slot && distS[e.slot] < inf {
					if d := distS[e.slot] + e.cand.Weight; d < distM[e.member] {
						distM[e.member] = d
						prevM[e.member] = e.slot
						changed = true
					}
				}
			}
			if !changed {
				break
			}
		}

		// Лучший свободный слот; при равенстве - меньший индекс
		best, bestCost := -1, 0.0
		for si := 0; si < ns; si++ {
			if slotMatch[si] == -1 && distS[si] < bestCost {
				best = si
				bestCost = distS[si]
			}
		}
		if best == -1 {
			break
		}

		// Разворачиваем увеличивающий путь по родительским ссылкам
		si := best
		for si != -1 {
			e := edges[prevS[si]]
			nextSlot := prevM[e.member] // слот, из которого пришли в участника (-1 для истока)

			memberMatch[e.member] = si
			slotMatch[si] = e.member
			slotCand[si] = e.cand

			si = nextSlot
		}
	}

	matched := make(map[int64]*Candidate, nm)
	for mi, m := range members {
		if memberMatch[mi] != -1 {
			matched[m.UserID] = slotCand[memberMatch[mi]]
		} else {
			matched[m.UserID] = nil
		}
	}
	return matched
}

// dropOneOverlap находит пару пересекающихся по времени назначений на одном
// корте (слоты разной длительности) и удаляет более легкое ребро из рабочего
// набора. Возвращает true, если задача должна решаться заново
func (s *Service) dropOneOverlap(members []domain.SnapshotMember, working map[int64][]Candidate, matched map[int64]*Candidate) bool {
	for i := 0; i < len(members); i++ {
		a := matched[members[i].UserID]
		if a == nil {
			continue
		}
		for j := i + 1; j < len(members); j++ {
			b := matched[members[j].UserID]
			if b == nil {
				continue
			}
			if !slotsOverlap(a.Slot, b.Slot) {
				continue
			}

			// Проигрывает более легкое ребро; при равенстве - больший id участника
			loser := members[j].UserID
			loserSlot := b.Slot
			if b.Weight > a.Weight {
				loser = members[i].UserID
				loserSlot = a.Slot
			}

			s.log.Debug("Solve: overlapping assignments on resource %d, dropping candidate of user %d", a.Slot.ResourceID, loser)
			working[loser] = removeCandidate(working[loser], loserSlot)
			return true
		}
	}
	return false
}

func removeCandidate(cands []Candidate, slot domain.ConcreteSlot) []Candidate {
	id := slotIdentity(slot)
	out := cands[:0]
	for _, c := range cands {
		if slotIdentity(c.Slot) != id {
			out = append(out, c)
		}
	}
	return out
}

// slotsOverlap проверяет пересечение интервалов на одном корте и дате.
// Интервалы полуоткрытые, одинаковая идентичность не считается пересечением
// (один и тот же слот не может быть назначен дважды по построению графа)
func slotsOverlap(a, b domain.ConcreteSlot) bool {
	if a.ResourceID != b.ResourceID || !a.BookingDate.Equal(b.BookingDate) {
		return false
	}
	if slotIdentity(a) == slotIdentity(b) {
		return false
	}

	aEnd, err := a.End()
	if err != nil {
		return false
	}
	bEnd, err := b.End()
	if err != nil {
		return false
	}

	return a.StartTime.IsBefore(bEnd) && b.StartTime.IsBefore(aEnd)
}
