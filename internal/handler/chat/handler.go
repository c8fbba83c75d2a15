package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/johncabili/portfolio/backend/internal/model/chat"
	chatService "github.com/johncabili/portfolio/backend/internal/service/chat"
	"github.com/johncabili/portfolio/backend/pkg/utils"
)

// Handler 聊天组件的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
	logger  *zap.Logger
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
	r.Get("/sessions/{sessionID}", h.handleGetSession)
	r.Delete("/sessions/{sessionID}", h.handleEndSession)

	r.Post("/sessions/{sessionID}/open", h.handleTransition(h.chatSvc.Open))
	r.Post("/sessions/{sessionID}/close", h.handleTransition(h.chatSvc.Close))
	r.Post("/sessions/{sessionID}/toggle", h.handleTransition(h.chatSvc.Toggle))
	r.Post("/sessions/{sessionID}/reset", h.handleReset)

	r.Get("/sessions/{sessionID}/messages", h.handleListMessages)
	r.Post("/sessions/{sessionID}/messages", h.handleSend(h.chatSvc.Send))
	r.Post("/sessions/{sessionID}/quick-replies", h.handleSend(h.chatSvc.SelectQuickReply))
	r.Put("/sessions/{sessionID}/sound", h.handleSound)
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatService.ErrWidgetClosed):
		return http.StatusConflict
	case errors.Is(err, chatService.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, chatService.ErrEmptyMessage):
		return http.StatusNoContent
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("chat request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	utils.RespondError(w, status, err.Error())
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Open bool `json:"open"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.chatSvc.CreateSession(r.Context(), payload.Open)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, snap)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.chatSvc.Snapshot(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.EndSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transitionFunc func(ctx context.Context, sessionID, reason string) (chat.Snapshot, error)

func (h *Handler) handleTransition(fn transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Reason string `json:"reason"`
		}
		if err := utils.DecodeJSON(w, r, &payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		snap, err := fn(r.Context(), chi.URLParam(r, "sessionID"), strings.TrimSpace(payload.Reason))
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		utils.RespondJSON(w, http.StatusOK, snap)
	}
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	snap, err := h.chatSvc.Reset(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatSvc.LoadTranscript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

type sendFunc func(ctx context.Context, sessionID, text string) (chat.Snapshot, error)

// handleSend 提交访客消息，回复经事件流异步送达
func (h *Handler) handleSend(fn sendFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Text string `json:"text"`
		}
		if err := utils.DecodeJSON(w, r, &payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		snap, err := fn(r.Context(), chi.URLParam(r, "sessionID"), payload.Text)
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		utils.RespondJSON(w, http.StatusAccepted, snap)
	}
}

func (h *Handler) handleSound(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Muted *bool `json:"muted"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil || payload.Muted == nil {
		utils.RespondError(w, http.StatusBadRequest, "muted is required")
		return
	}

	snap, err := h.chatSvc.SetMuted(r.Context(), chi.URLParam(r, "sessionID"), *payload.Muted)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snap)
}
