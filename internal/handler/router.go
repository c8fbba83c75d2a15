package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/johncabili/portfolio/backend/internal/handler/assistant"
	"github.com/johncabili/portfolio/backend/internal/handler/chat"
	"github.com/johncabili/portfolio/backend/internal/handler/inquiry"
	"github.com/johncabili/portfolio/backend/internal/handler/stream"
	"github.com/johncabili/portfolio/backend/internal/handler/ws"
	middlewarePkg "github.com/johncabili/portfolio/backend/internal/middleware"
	assistantModel "github.com/johncabili/portfolio/backend/internal/model/assistant"
	chatService "github.com/johncabili/portfolio/backend/internal/service/chat"
	inquiryService "github.com/johncabili/portfolio/backend/internal/service/inquiry"
	"github.com/johncabili/portfolio/backend/pkg/utils"
)

// Deps groups the services the router exposes.
type Deps struct {
	Profiles       assistantModel.Store
	Chat           *chatService.Service
	Relay          *inquiryService.Relay
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.AccessLog(logger))
	r.Use(middlewarePkg.Recoverer(logger))
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		assistant.New(deps.Profiles).RegisterRoutes(api)
		chat.New(deps.Chat, logger).RegisterRoutes(api)
		stream.New(deps.Chat, logger).RegisterRoutes(api)
		ws.New(deps.Chat, logger).RegisterRoutes(api)

		relay := deps.Relay
		if relay == nil {
			relay = inquiryService.NewRelay(nil, deps.Profiles.Default().OwnerEmail, logger)
		}
		inquiry.New(deps.Chat, relay, logger).RegisterRoutes(api)
	})

	return r
}
