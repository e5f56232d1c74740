package create_booking

import (
	"context"
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/internal/integrations/memberservice"
	"github.com/courtbook/booking-engine/internal/integrations/paymentservice"
	"github.com/courtbook/booking-engine/internal/service/rules"
	"github.com/courtbook/booking-engine/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetForResourceAndDate(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Reservation, error)
	CountFutureConfirmed(ctx context.Context, userID int64, fromDate time.Time) (int, error)
	SumConfirmedMinutes(ctx context.Context, userID int64, date time.Time) (int, error)
}

// ResourceRepository интерфейс репозитория кортов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	GetSiteByID(ctx context.Context, id int64) (*domain.Site, error)
}

// WindowRepository интерфейс репозитория окон аллокации
type WindowRepository interface {
	GetActive(ctx context.Context, orgID int64) (*domain.ContentionWindow, error)
}

// MemberServiceClient интерфейс клиента для MemberService
type MemberServiceClient interface {
	GetMembershipWithGracefulDegradation(ctx context.Context, userID int64) (*memberservice.Membership, error)
}

// PaymentServiceClient интерфейс клиента для PaymentService
type PaymentServiceClient interface {
	EmitReservationIntent(ctx context.Context, intent *paymentservice.ReservationIntent) (*paymentservice.IntentResponse, error)
}

// RuleValidator интерфейс валидатора правил бронирования
type RuleValidator interface {
	ValidateBooking(in rules.ValidateBookingInput) ([]domain.Violation, error)
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
