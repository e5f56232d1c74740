package run_allocation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/courtbook/booking-engine/internal/domain"
	memberClient "github.com/courtbook/booking-engine/internal/integrations/memberservice"
)

// missStreakWindows сколько последних окон учитывается при вычислении
// серии неудач; буст и так упирается в потолок раньше
const missStreakWindows = 6

// buildSnapshot атомарно снимает вход прогона: участники с весами и сериями
// неудач, их списки предпочтений и все свободные слоты целевой даты.
// Снапшот сохраняется до перехода в allocating: упавший прогон продолжается
// от того же входа, а не от живых данных
func (uc *UseCase) buildSnapshot(ctx context.Context, w *domain.ContentionWindow) (*domain.WindowSnapshot, error) {
	// 1. Списки предпочтений всех участников организации
	prefs, err := uc.preferences.GetAllByOrg(ctx, w.OrganisationID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get preferences: %v", ErrInternal, err)
	}

	prefsByUser := groupByUser(prefs)
	userIDs := sortedUserIDs(prefsByUser)

	// 2. История последних окон для серий неудач
	recent, err := uc.windows.GetRecentAllocations(ctx, w.OrganisationID, missStreakWindows)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get recent allocations: %v", ErrInternal, err)
	}

	// 3. Участники: только допущенные к честному распределению.
	// При недоступности MemberService участник остается в прогоне
	// с весом по умолчанию
	members := make([]domain.SnapshotMember, 0, len(userIDs))
	for _, userID := range userIDs {
		membership, err := uc.memberClient.GetMembershipWithGracefulDegradation(ctx, userID)
		if err != nil && !errors.Is(err, memberClient.ErrServiceDegraded) {
			if errors.Is(err, memberClient.ErrMembershipNotFound) {
				uc.logger.Warn("RunAllocation: user=%d has no membership, excluding from window=%d", userID, w.ID)
				continue
			}
			return nil, fmt.Errorf("%w: failed to get membership for user=%d: %v", ErrInternal, userID, err)
		}
		if membership != nil && !membership.FairnessEligible {
			uc.logger.Debug("RunAllocation: user=%d tier is not fairness eligible, skipping", userID)
			continue
		}

		ent := membership.ToEntitlement()
		members = append(members, domain.SnapshotMember{
			UserID:     userID,
			TierWeight: ent.FairnessWeight,
			MissStreak: missStreak(userID, recent),
		})
	}

	// 4. Свободные слоты целевой даты: полный перечень минус занятые
	// подтвержденными FCFS-бронированиями
	slots, err := uc.freeSlots(ctx, w)
	if err != nil {
		return nil, err
	}

	return &domain.WindowSnapshot{
		WindowID:    w.ID,
		TargetDate:  w.TargetDate,
		TakenAt:     uc.timeProvider.Now(),
		Members:     members,
		Preferences: prefs,
		Slots:       slots,
	}, nil
}

// freeSlots перечисляет продаваемые слоты целевой даты, не пересекающиеся
// с уже подтвержденными бронированиями
func (uc *UseCase) freeSlots(ctx context.Context, w *domain.ContentionWindow) ([]domain.ConcreteSlot, error) {
	resources, err := uc.resources.GetActiveByOrg(ctx, w.OrganisationID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get resources: %v", ErrInternal, err)
	}

	sites := make(map[int64]*domain.Site)
	for _, r := range resources {
		if _, ok := sites[r.SiteID]; ok {
			continue
		}
		site, err := uc.resources.GetSiteByID(ctx, r.SiteID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get site %d: %v", ErrInternal, r.SiteID, err)
		}
		sites[r.SiteID] = site
	}

	all := uc.schedule.SellableSlots(resources, sites, w.TargetDate, uc.loc, domain.DefaultSlotDurations)

	// Занятость по кортам
	taken := make(map[int64][]*domain.Reservation, len(resources))
	for _, r := range resources {
		existing, err := uc.reservations.GetForResourceAndDate(ctx, r.ID, w.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get reservations for resource %d: %v", ErrInternal, r.ID, err)
		}
		taken[r.ID] = existing
	}

	free := make([]domain.ConcreteSlot, 0, len(all))
	for _, slot := range all {
		end, err := slot.End()
		if err != nil {
			continue
		}
		conflict := false
		for _, res := range taken[slot.ResourceID] {
			if res.IsConfirmed() && res.Overlaps(slot.StartTime, end) {
				conflict = true
				break
			}
		}
		if !conflict {
			free = append(free, slot)
		}
	}

	return free, nil
}

// missStreak считает серию подряд идущих окон без слота, от самого свежего.
// Серия рвется назначением или окном, в котором участник не участвовал
func missStreak(userID int64, recent [][]*domain.Allocation) int {
	streak := 0
	for _, windowAllocs := range recent {
		var found *domain.Allocation
		for _, a := range windowAllocs {
			if a.UserID == userID {
				found = a
				break
			}
		}
		if found == nil || found.IsAssigned() {
			break
		}
		streak++
	}
	return streak
}

func groupByUser(prefs []*domain.PreferenceEntry) map[int64][]*domain.PreferenceEntry {
	grouped := make(map[int64][]*domain.PreferenceEntry)
	for _, p := range prefs {
		grouped[p.UserID] = append(grouped[p.UserID], p)
	}
	return grouped
}

func sortedUserIDs(grouped map[int64][]*domain.PreferenceEntry) []int64 {
	ids := make([]int64, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
