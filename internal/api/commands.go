package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/machinech97-sudo/fleetrms/internal/command"
)

type sendCommandRequest struct {
	DeviceID    string         `json:"device_id"`
	CommandType string         `json:"command_type"`
	CommandData map[string]any `json:"command_data"`
}

// handleSendCommand enqueues a command for a device. The target device
// is not required to exist. The response deliberately omits the new
// command's ID, matching the protocol devices already speak.
func (s *Server) handleSendCommand(w http.ResponseWriter, r *http.Request) {
	var req sendCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	_, err := s.dispatcher.Enqueue(r.Context(), req.DeviceID, req.CommandType, req.CommandData)
	if errors.Is(err, command.ErrInvalidCommand) {
		writeBadRequest(w, "device_id and command_type are required")
		return
	}
	if err != nil {
		s.logger.Error("enqueueing command failed", "device_id", req.DeviceID, "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"message": "command queued"})
}

// handlePollCommands drains a device's pending commands, marking each
// one sent as it leaves. Polling with nothing queued returns an empty
// list, not an error.
func (s *Server) handlePollCommands(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	commands, err := s.dispatcher.DeliverPending(r.Context(), deviceID)
	if err != nil {
		s.logger.Error("delivering commands failed", "device_id", deviceID, "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"commands": commands})
}

// handleConfirmExecuted records a device's report that it finished a
// command. Repeat confirmations are accepted.
func (s *Server) handleConfirmExecuted(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "commandID"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid command ID")
		return
	}

	err = s.dispatcher.ConfirmExecuted(r.Context(), id)
	if errors.Is(err, command.ErrNotFound) {
		writeNotFound(w, "command not found")
		return
	}
	if err != nil {
		s.logger.Error("confirming command failed", "command_id", id, "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"message": "command executed"})
}
