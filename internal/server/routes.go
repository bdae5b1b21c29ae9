package server

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Get("/healthz", s.health)

	r.Route("/agents", func(r chi.Router) {
		r.Get("/", s.listAgents)
		r.Get("/{name}", s.getAgent)
	})

	r.Get("/tools", s.listTools)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.createSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Get("/messages", s.getMessages)
			r.Post("/messages", s.sendMessage)
		})
	})

	r.Get("/deployments", s.listDeployments)

	// Event streaming (SSE)
	r.Get("/events", s.streamEvents)
}
