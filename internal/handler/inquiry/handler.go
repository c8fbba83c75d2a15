package inquiry

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	chatService "github.com/johncabili/portfolio/backend/internal/service/chat"
	inquiryService "github.com/johncabili/portfolio/backend/internal/service/inquiry"
	"github.com/johncabili/portfolio/backend/pkg/utils"
)

// Handler relays visitor inquiries by email.
type Handler struct {
	chatSvc *chatService.Service
	relay   *inquiryService.Relay
	logger  *zap.Logger
}

func New(chatSvc *chatService.Service, relay *inquiryService.Relay, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{chatSvc: chatSvc, relay: relay, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions/{sessionID}/inquiries", h.handleCreate)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	var payload inquiryService.Inquiry
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.SessionID = sessionID

	err := h.relay.Send(r.Context(), payload)
	switch {
	case err == nil:
		utils.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
	case errors.Is(err, inquiryService.ErrDisabled):
		utils.RespondError(w, http.StatusServiceUnavailable, "email relay unavailable")
	case errors.Is(err, inquiryService.ErrInvalidReplyTo),
		errors.Is(err, inquiryService.ErrEmptyBody),
		errors.Is(err, inquiryService.ErrUnknownKind):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondError(w, http.StatusBadGateway, "failed to relay inquiry")
	}
}
