package httpserver

import "github.com/go-chi/chi/v5"

func (s *Server) routes() {
	s.router.Get("/v1/healthz", s.handleHealthz)

	s.router.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/", s.handleListSessions)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteSession)

			r.Get("/settings", s.handleGetSettings)
			r.Patch("/settings", s.handlePatchSettings)

			r.Post("/messages", s.handlePostMessage)
			r.Get("/history", s.handleHistory)

			r.Post("/context/url", s.handleIncludeURL)

			r.Post("/tools/{toolName}", s.handleDispatchTool)

			r.Get("/events", s.handleSSE)
		})
	})
}
