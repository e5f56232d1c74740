package cancel_booking

import (
	"context"
	"time"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/internal/integrations/memberservice"
	"github.com/courtbook/booking-engine/internal/integrations/paymentservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// MemberServiceClient интерфейс клиента для MemberService
type MemberServiceClient interface {
	GetMembershipWithGracefulDegradation(ctx context.Context, userID int64) (*memberservice.Membership, error)
}

// PaymentServiceClient интерфейс клиента для PaymentService
type PaymentServiceClient interface {
	EmitCancellationCredit(ctx context.Context, credit *paymentservice.CancellationCredit) (*paymentservice.IntentResponse, error)
}

// RuleValidator интерфейс валидатора правил отмены
type RuleValidator interface {
	ValidateCancellation(res *domain.Reservation, ent *domain.Entitlement) (*domain.Violation, error)
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
