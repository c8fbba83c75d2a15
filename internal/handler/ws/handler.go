package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/johncabili/portfolio/backend/internal/model/chat"
	chatService "github.com/johncabili/portfolio/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler WebSocket组件通道处理器
type Handler struct {
	chatSvc  *chatService.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New 创建WebSocket处理器
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// TextMessage 文本或快捷回复
type TextMessage struct {
	Text string `json:"text"`
}

// ControlMessage 打开、关闭、切换
type ControlMessage struct {
	Reason string `json:"reason"`
}

// MuteMessage 声音开关
type MuteMessage struct {
	Muted bool `json:"muted"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// conn serialises writes; gorilla allows one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	snap, err := h.chatSvc.Snapshot(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	events, unsubscribe, err := h.chatSvc.Subscribe(sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	defer unsubscribe()

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	defer ws.Close()
	c := &conn{ws: ws}

	h.logger.Info("websocket connected", zap.String("session_id", sessionID))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go h.pingLoop(ctx, c)
	go h.forward(ctx, cancel, c, events)

	h.send(c, sessionID, "snapshot", snap)

	for {
		var msg inboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", zap.String("session_id", sessionID), zap.Error(err))
			}
			return
		}
		if ctx.Err() != nil {
			return
		}

		ws.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			h.sendError(c, "session mismatch")
			continue
		}

		h.handleMessage(ctx, c, sessionID, &msg)
	}
}

// forward 将组件事件写入连接；会话结束时关闭连接
func (h *Handler) forward(ctx context.Context, cancel context.CancelFunc, c *conn, events <-chan chatService.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				cancel()
				c.mu.Lock()
				_ = c.ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
					time.Now().Add(writeTimeout))
				c.mu.Unlock()
				return
			}
			if err := c.writeJSON(ev); err != nil {
				h.logger.Debug("websocket write failed", zap.String("session_id", ev.SessionID), zap.Error(err))
				cancel()
				return
			}
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, c *conn, sessionID string, msg *inboundMessage) {
	var err error
	switch msg.Type {
	case "text", "quick_reply":
		var payload TextMessage
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			h.sendError(c, "invalid text payload")
			return
		}
		if msg.Type == "text" {
			_, err = h.chatSvc.Send(ctx, sessionID, payload.Text)
		} else {
			_, err = h.chatSvc.SelectQuickReply(ctx, sessionID, payload.Text)
		}
		if errors.Is(err, chatService.ErrEmptyMessage) {
			return
		}
	case "open", "close", "toggle":
		var payload ControlMessage
		if len(msg.Data) > 0 {
			_ = json.Unmarshal(msg.Data, &payload)
		}
		err = h.control(ctx, sessionID, msg.Type, payload.Reason)
	case "reset":
		_, err = h.chatSvc.Reset(ctx, sessionID)
	case "mute":
		var payload MuteMessage
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			h.sendError(c, "invalid mute payload")
			return
		}
		_, err = h.chatSvc.SetMuted(ctx, sessionID, payload.Muted)
	case "snapshot":
		var snap chat.Snapshot
		snap, err = h.chatSvc.Snapshot(ctx, sessionID)
		if err == nil {
			h.send(c, sessionID, "snapshot", snap)
		}
	default:
		h.sendError(c, "unknown message type")
		return
	}

	if err != nil {
		h.sendError(c, err.Error())
	}
}

func (h *Handler) control(ctx context.Context, sessionID, kind, reason string) error {
	var err error
	switch kind {
	case "open":
		_, err = h.chatSvc.Open(ctx, sessionID, reason)
	case "close":
		_, err = h.chatSvc.Close(ctx, sessionID, reason)
	default:
		_, err = h.chatSvc.Toggle(ctx, sessionID, reason)
	}
	return err
}

func (h *Handler) send(c *conn, sessionID, typ string, data interface{}) {
	msg := outgoingMessage{
		Type:      typ,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := c.writeJSON(msg); err != nil {
		h.logger.Debug("websocket write failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (h *Handler) sendError(c *conn, message string) {
	msg := outgoingMessage{
		Type:      "error",
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().UnixMilli(),
	}
	if err := c.writeJSON(msg); err != nil {
		h.logger.Debug("websocket write error failed", zap.Error(err))
	}
}

// pingLoop 定期发送ping消息
func (h *Handler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
