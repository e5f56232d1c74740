package replace_preferences

import (
	"errors"
	"net/http"

	"github.com/courtbook/booking-engine/internal/api/handlers"
	"github.com/courtbook/booking-engine/internal/api/middleware"
	replacePreferences "github.com/courtbook/booking-engine/internal/usecase/replace_preferences"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgWindowClosed       = "окно распределения закрыто, список предпочтений заморожен"
	msgUnknownResource    = "список ссылается на неизвестный корт или площадку"
	msgInvalidEntries     = "некорректный список предпочтений"
)

type Handler struct {
	useCase        ReplacePreferencesUseCase
	organisationID int64
	logger         Logger
}

func NewHandler(useCase ReplacePreferencesUseCase, organisationID int64, logger Logger) *Handler {
	return &Handler{
		useCase:        useCase,
		organisationID: organisationID,
		logger:         logger,
	}
}

// Handle PUT /api/v1/preferences
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		h.logger.Warn("PUT /preferences - Missing principal")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ReplacePreferencesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /preferences - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(principal, h.organisationID)
	if err != nil {
		h.logger.Warn("PUT /preferences - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, replacePreferences.ErrWindowClosed):
			h.logger.Warn("PUT /preferences - Window closed: user_id=%d", principal.UserID)
			handlers.RespondError(w, http.StatusConflict, msgWindowClosed)

		case errors.Is(err, replacePreferences.ErrUnknownResource):
			h.logger.Warn("PUT /preferences - Unknown resource reference: user_id=%d", principal.UserID)
			handlers.RespondBadRequest(w, msgUnknownResource)

		case errors.Is(err, replacePreferences.ErrInvalidInput):
			h.logger.Warn("PUT /preferences - Invalid entries: user_id=%d, error=%v", principal.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidEntries)

		default:
			h.logger.Error("PUT /preferences - Failed to replace preferences: user_id=%d, error=%v",
				principal.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /preferences - Preferences replaced: user_id=%d, entries=%d",
		principal.UserID, len(result.Entries))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
