package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/machinech97-sudo/fleetrms/internal/capture"
)

type uploadMessageRequest struct {
	Sender     string `json:"sender"`
	Body       string `json:"body"`
	ReceivedAt string `json:"received_at"`
}

// handleUploadMessage stores a message reported by a device.
func (s *Server) handleUploadMessage(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	var req uploadMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if _, err := s.capture.AddMessage(r.Context(), deviceID, req.Sender, req.Body, req.ReceivedAt); err != nil {
		s.logger.Error("storing message failed", "device_id", deviceID, "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"message": "message stored"})
}

// handleListDeviceMessages returns one device's message logs.
func (s *Server) handleListDeviceMessages(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	logs, err := s.capture.MessagesByDevice(r.Context(), deviceID)
	if err != nil {
		s.logger.Error("listing messages failed", "device_id", deviceID, "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"messages": logs})
}

// handleListAllMessages returns message logs across the whole fleet.
func (s *Server) handleListAllMessages(w http.ResponseWriter, r *http.Request) {
	logs, err := s.capture.AllMessages(r.Context())
	if err != nil {
		s.logger.Error("listing messages failed", "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"messages": logs})
}

// handleDeleteMessage removes a single message log.
func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid message ID")
		return
	}

	err = s.capture.DeleteMessage(r.Context(), id)
	if errors.Is(err, capture.ErrMessageNotFound) {
		writeNotFound(w, "message not found")
		return
	}
	if err != nil {
		s.logger.Error("deleting message failed", "message_id", id, "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"message": "message deleted"})
}

type uploadFormRequest struct {
	FormType string         `json:"form_type"`
	FormData map[string]any `json:"form_data"`
}

// handleUploadForm stores a form submission from a device.
func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	var req uploadFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if _, err := s.capture.AddForm(r.Context(), deviceID, req.FormType, req.FormData); err != nil {
		s.logger.Error("storing form failed", "device_id", deviceID, "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"message": "form stored"})
}

// handleListDeviceForms returns one device's form submissions.
func (s *Server) handleListDeviceForms(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	forms, err := s.capture.FormsByDevice(r.Context(), deviceID)
	if err != nil {
		s.logger.Error("listing forms failed", "device_id", deviceID, "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"forms": forms})
}

// handleListAllForms returns form submissions across the whole fleet.
func (s *Server) handleListAllForms(w http.ResponseWriter, r *http.Request) {
	forms, err := s.capture.AllForms(r.Context())
	if err != nil {
		s.logger.Error("listing forms failed", "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"forms": forms})
}
