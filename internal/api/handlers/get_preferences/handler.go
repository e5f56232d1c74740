package get_preferences

import (
	"net/http"

	"github.com/courtbook/booking-engine/internal/api/handlers"
	"github.com/courtbook/booking-engine/internal/api/middleware"
)

const msgMissingUserID = "отсутствует ID пользователя"

type Handler struct {
	service        PreferenceService
	organisationID int64
	logger         Logger
}

func NewHandler(service PreferenceService, organisationID int64, logger Logger) *Handler {
	return &Handler{
		service:        service,
		organisationID: organisationID,
		logger:         logger,
	}
}

// Handle GET /api/v1/preferences
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		h.logger.Warn("GET /preferences - Missing principal")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	entries, err := h.service.GetByUser(r.Context(), principal.UserID, h.organisationID)
	if err != nil {
		h.logger.Error("GET /preferences - Failed to get preferences: user_id=%d, error=%v", principal.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /preferences - Retrieved %d entries: user_id=%d", len(entries), principal.UserID)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(entries))
}
