package assistant

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johncabili/portfolio/backend/internal/model/assistant"
	"github.com/johncabili/portfolio/backend/internal/model/chat"
	"github.com/johncabili/portfolio/backend/internal/model/email"
	"github.com/johncabili/portfolio/backend/pkg/utils"
)

// Handler 助手资料的HTTP处理器
type Handler struct {
	profiles assistant.Store
}

// New 创建助手处理器
func New(profiles assistant.Store) *Handler {
	return &Handler{
		profiles: profiles,
	}
}

// RegisterRoutes 注册助手相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/assistant", h.handleGetAssistant)
	r.Get("/assistant/templates/{kind}", h.handleGetTemplate)
}

type assistantResponse struct {
	Profile      assistant.Profile                `json:"profile"`
	QuickReplies []chat.QuickReply                `json:"quickReplies"`
	Topics       map[chat.Topic][]chat.QuickReply `json:"topics"`
	Templates    []email.Kind                     `json:"templates"`
}

// handleGetAssistant 返回助手资料与快捷回复目录
func (h *Handler) handleGetAssistant(w http.ResponseWriter, r *http.Request) {
	topics := make(map[chat.Topic][]chat.QuickReply)
	for _, topic := range assistant.Topics() {
		topics[topic] = assistant.ContextReplies(topic)
	}

	utils.RespondJSON(w, http.StatusOK, assistantResponse{
		Profile:      h.profiles.Default(),
		QuickReplies: assistant.InitialQuickReplies(),
		Topics:       topics,
		Templates:    email.Kinds(),
	})
}

type templateResponse struct {
	Kind    email.Kind `json:"kind"`
	Subject string     `json:"subject"`
	Body    string     `json:"body"`
	Mailto  string     `json:"mailto"`
}

func (h *Handler) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	kind := email.Kind(chi.URLParam(r, "kind"))
	tmpl, ok := email.Lookup(kind)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "template not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, templateResponse{
		Kind:    kind,
		Subject: tmpl.Subject,
		Body:    tmpl.Body,
		Mailto:  email.Mailto(h.profiles.Default().OwnerEmail, tmpl),
	})
}
