package create_booking

import (
	"errors"
	"net/http"

	"github.com/courtbook/booking-engine/internal/api/handlers"
	"github.com/courtbook/booking-engine/internal/api/middleware"
	createBooking "github.com/courtbook/booking-engine/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты (YYYY-MM-DD) или времени (HH:MM)"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgResourceNotFound    = "корт не найден"
	msgMembershipNotFound  = "членство не найдено"
	msgSlotTaken           = "выбранный слот уже занят"
	msgWindowActive        = "дата распределяется окном честной аллокации, самостоятельное бронирование недоступно"
	msgInvalidBookingInput = "некорректные параметры бронирования"
)

type Handler struct {
	useCase        CreateBookingUseCase
	organisationID int64
	logger         Logger
}

func NewHandler(useCase CreateBookingUseCase, organisationID int64, logger Logger) *Handler {
	return &Handler{
		useCase:        useCase,
		organisationID: organisationID,
		logger:         logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing principal")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(principal, h.organisationID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("POST /bookings - Resource not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createBooking.ErrMembershipNotFound):
			h.logger.Warn("POST /bookings - Membership not found: user_id=%d", principal.UserID)
			handlers.RespondNotFound(w, msgMembershipNotFound)

		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: user_id=%d, resource_id=%d, date=%s, start=%s",
				principal.UserID, req.ResourceID, req.BookingDate, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, createBooking.ErrWindowActive):
			h.logger.Warn("POST /bookings - Date under fairness allocation: user_id=%d, date=%s",
				principal.UserID, req.BookingDate)
			handlers.RespondError(w, http.StatusConflict, msgWindowActive)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", principal.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidBookingInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v", principal.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	if !result.Accepted {
		// Отказ по правилам - корректный бизнес-ответ с полным списком нарушений
		h.logger.Info("POST /bookings - Booking rejected by rules: user_id=%d, violations=%d",
			principal.UserID, len(result.Violations))
		handlers.RespondJSON(w, http.StatusUnprocessableEntity, response)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, resource_id=%d",
		result.ID, principal.UserID, result.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
