package get_current_window

import (
	"errors"
	"net/http"

	"github.com/courtbook/booking-engine/internal/api/handlers"
	"github.com/courtbook/booking-engine/internal/service/windows"
)

const msgNoWindow = "окно распределения не найдено"

type Handler struct {
	service        WindowService
	organisationID int64
	logger         Logger
}

func NewHandler(service WindowService, organisationID int64, logger Logger) *Handler {
	return &Handler{
		service:        service,
		organisationID: organisationID,
		logger:         logger,
	}
}

// Handle GET /api/v1/windows/current
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	window, err := h.service.GetCurrent(r.Context(), h.organisationID)
	if err != nil {
		switch {
		case errors.Is(err, windows.ErrWindowNotFound):
			h.logger.Warn("GET /windows/current - No window for org=%d", h.organisationID)
			handlers.RespondNotFound(w, msgNoWindow)

		default:
			h.logger.Error("GET /windows/current - Failed to get window: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /windows/current - Window retrieved: window_id=%d, state=%s", window.ID, window.State)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(window))
}
