package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	assistantHandler "github.com/smart-bharat/backend/internal/handler/assistant"
	emergencyHandler "github.com/smart-bharat/backend/internal/handler/emergency"
	feedsHandler "github.com/smart-bharat/backend/internal/handler/feeds"
	middlewarePkg "github.com/smart-bharat/backend/internal/middleware"
	conversationService "github.com/smart-bharat/backend/internal/service/conversation"
	dispatchService "github.com/smart-bharat/backend/internal/service/dispatch"
	feedsService "github.com/smart-bharat/backend/internal/service/feeds"
	translateService "github.com/smart-bharat/backend/internal/service/translate"
)

// Deps carries the services the router wires to HTTP routes.
type Deps struct {
	Conversation *conversationService.Service
	Dispatch     *dispatchService.Service
	Health       *feedsService.HealthService
	Weather      *feedsService.WeatherService
	Translate    *translateService.Service
	SpeakReplies bool
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	assistant := assistantHandler.New(deps.Conversation)
	voice := assistantHandler.NewWSHandler(deps.Conversation, deps.SpeakReplies)
	emergency := emergencyHandler.New(deps.Dispatch)
	feeds := feedsHandler.New(deps.Health, deps.Weather, deps.Translate)

	r.Route("/api", func(api chi.Router) {
		assistant.RegisterRoutes(api)
		voice.RegisterRoutes(api)
		emergency.RegisterRoutes(api)
		feeds.RegisterRoutes(api)
	})

	return r
}
