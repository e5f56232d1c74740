package memberservice

import "github.com/courtbook/booking-engine/internal/domain"

// ToEntitlement собирает права тарифа из ответа MemberService,
// подставляя значения по умолчанию вместо пропущенных полей.
// Nil-получатель дает права по умолчанию (graceful degradation)
func (m *Membership) ToEntitlement() *domain.Entitlement {
	ent := DefaultEntitlement()
	if m == nil {
		return ent
	}

	ent.TierID = m.TierID
	ent.TierName = m.TierName

	if m.AdvanceBookingDays > 0 {
		ent.AdvanceBookingDays = m.AdvanceBookingDays
	}
	if m.MaxConcurrentBookings > 0 {
		ent.MaxConcurrentBookings = m.MaxConcurrentBookings
	}
	if m.MaxDailyMinutes > 0 {
		ent.MaxDailyMinutes = m.MaxDailyMinutes
	}
	if m.CancellationDeadlineHours > 0 {
		ent.CancellationDeadlineHours = m.CancellationDeadlineHours
	}
	if len(m.SlotDurationsMinutes) > 0 {
		ent.SlotDurationsMinutes = m.SlotDurationsMinutes
	}
	if m.WindowOpenTime != "" {
		ent.WindowOpenTime = m.WindowOpenTime
	}

	ent.FairnessEligible = m.FairnessEligible
	if m.FairnessWeight > 0 {
		ent.FairnessWeight = m.FairnessWeight
	}

	ent.EarlyFeePence = m.EarlyFeePence
	ent.OffpeakFeePence = m.OffpeakFeePence
	ent.PeakFeePence = m.PeakFeePence
	ent.FloodlightFeePence = m.FloodlightFeePence

	return ent
}

// DefaultEntitlement права тарифа по умолчанию: используются при
// недоступности MemberService
func DefaultEntitlement() *domain.Entitlement {
	return &domain.Entitlement{
		AdvanceBookingDays:        domain.DefaultAdvanceBookingDays,
		MaxConcurrentBookings:     domain.DefaultMaxConcurrentBookings,
		MaxDailyMinutes:           domain.DefaultMaxDailyMinutes,
		CancellationDeadlineHours: domain.DefaultCancellationDeadlineHours,
		SlotDurationsMinutes:      domain.DefaultSlotDurations,
		WindowOpenTime:            domain.DefaultWindowOpenTime,
		FairnessWeight:            domain.DefaultFairnessWeight,
	}
}
