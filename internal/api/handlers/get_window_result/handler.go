package get_window_result

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/courtbook/booking-engine/internal/api/handlers"
	"github.com/courtbook/booking-engine/internal/service/windows"
)

const (
	msgInvalidWindowID = "некорректный ID окна"
	msgNotFound        = "окно распределения не найдено"
	msgNotReady        = "результат распределения еще не готов"
)

type Handler struct {
	service WindowService
	logger  Logger
}

func NewHandler(service WindowService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/windows/{windowId}/result
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	windowID, err := strconv.ParseInt(vars["windowId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /windows/{id}/result - Invalid window ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindowID)
		return
	}

	window, allocations, err := h.service.GetResult(r.Context(), windowID)
	if err != nil {
		switch {
		case errors.Is(err, windows.ErrWindowNotFound):
			h.logger.Warn("GET /windows/{id}/result - Window not found: window_id=%d", windowID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, windows.ErrResultNotReady):
			h.logger.Warn("GET /windows/{id}/result - Result not ready: window_id=%d", windowID)
			handlers.RespondError(w, http.StatusConflict, msgNotReady)

		default:
			h.logger.Error("GET /windows/{id}/result - Failed to get result: window_id=%d, error=%v", windowID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /windows/{id}/result - Result retrieved: window_id=%d, allocations=%d",
		windowID, len(allocations))
	handlers.RespondJSON(w, http.StatusOK, FromDomain(window, allocations))
}
