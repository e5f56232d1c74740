package run_allocation

import (
	"context"
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/internal/integrations/memberservice"
	"github.com/courtbook/booking-engine/internal/integrations/notifyservice"
	"github.com/courtbook/booking-engine/internal/integrations/paymentservice"
	"github.com/courtbook/booking-engine/internal/service/allocation"
	"github.com/courtbook/booking-engine/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	CreateBatch(ctx context.Context, reservations []*domain.Reservation) error
	GetForResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Reservation, error)
}

// PreferenceRepository интерфейс репозитория предпочтений
type PreferenceRepository interface {
	GetAllByOrg(ctx context.Context, orgID int64) ([]*domain.PreferenceEntry, error)
}

// ResourceRepository интерфейс репозитория кортов
type ResourceRepository interface {
	GetActiveByOrg(ctx context.Context, orgID int64) ([]*domain.Resource, error)
	GetSiteByID(ctx context.Context, id int64) (*domain.Site, error)
}

// WindowRepository интерфейс репозитория окон аллокации
type WindowRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ContentionWindow, error)
	TransitionState(ctx context.Context, id int64, from, to domain.WindowState) error
	SaveSnapshot(ctx context.Context, id int64, snapshot *domain.WindowSnapshot) error
	GetSnapshot(ctx context.Context, id int64) (*domain.WindowSnapshot, error)
	SaveAllocations(ctx context.Context, allocations []*domain.Allocation) error
	GetRecentAllocations(ctx context.Context, orgID int64, windowCount int) ([][]*domain.Allocation, error)
}

// MemberServiceClient интерфейс клиента для MemberService
type MemberServiceClient interface {
	GetMembershipWithGracefulDegradation(ctx context.Context, userID int64) (*memberservice.Membership, error)
}

// PaymentServiceClient интерфейс клиента для PaymentService
type PaymentServiceClient interface {
	EmitReservationIntent(ctx context.Context, intent *paymentservice.ReservationIntent) (*paymentservice.IntentResponse, error)
}

// NotifyServiceClient интерфейс клиента для NotifyService
type NotifyServiceClient interface {
	SendAllocationOutcomes(ctx context.Context, outcomes []notifyservice.AllocationOutcome) error
}

// Allocator интерфейс решателя справедливого распределения
type Allocator interface {
	Expand(userID int64, entries []*domain.PreferenceEntry, resources map[int64]*domain.Resource, slots []domain.ConcreteSlot, targetDate time.Time) []allocation.Candidate
	Solve(members []domain.SnapshotMember, candidatesByUser map[int64][]allocation.Candidate) []allocation.Assignment
}

// ScheduleService интерфейс сервиса расписания
type ScheduleService interface {
	SellableSlots(resources []*domain.Resource, sites map[int64]*domain.Site, date time.Time, loc *time.Location, durations []int) []domain.ConcreteSlot
}

// PricingService интерфейс сервиса ценообразования
type PricingService interface {
	Fee(ent *domain.Entitlement, res *domain.Resource, site *domain.Site, date time.Time, start types.TimeString, durationMinutes int, loc *time.Location) (int, string, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
