package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/courtbook/booking-engine/internal/api/handlers"
	"github.com/courtbook/booking-engine/internal/domain"
)

type contextKey string

const principalKey contextKey = "principal"

const (
	headerUserID   = "X-User-ID"
	headerUserTier = "X-User-Tier"
	headerUserRole = "X-User-Role"

	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidUserID = "некорректный ID пользователя"
)

// Auth извлекает аутентифицированного участника из заголовков шлюза.
// Шлюз уже проверил токен, ядро доверяет {id, tier, role} без повторной проверки
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(headerUserID)
		if rawID == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		tierID, _ := strconv.ParseInt(r.Header.Get(headerUserTier), 10, 64)

		role := domain.Role(r.Header.Get(headerUserRole))
		switch role {
		case domain.RoleMember, domain.RoleCoach, domain.RoleAdmin:
		default:
			role = domain.RoleMember
		}

		principal := domain.Principal{
			UserID: userID,
			TierID: tierID,
			Role:   role,
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPrincipal возвращает участника запроса из контекста
func GetPrincipal(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}
